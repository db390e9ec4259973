// Package dist provides the chi-square, normal, Student t and F cumulative
// distribution functions used by the hypothesis tests, plus a gonum-backed
// reference for auditing them.
package dist

import (
	"fmt"
	"strings"
)

// Method selects the special-function family behind the chi-square and t
// CDFs.
type Method string

const (
	// MethodLegacy uses the 100-term incomplete gamma series and a
	// normalized 100-interval midpoint Riemann sum for the incomplete beta.
	// The chi-square CDF falls back to the continued fraction where the
	// series has not converged.
	MethodLegacy Method = "legacy"
	// MethodExact uses continued fractions throughout.
	MethodExact Method = "exact"
)

// ParseMethod accepts "legacy" or "exact", case-insensitively. An empty
// string selects legacy.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case "", MethodLegacy:
		return MethodLegacy, nil
	case MethodExact:
		return MethodExact, nil
	}
	return "", fmt.Errorf("unknown distribution method %q (want legacy or exact)", s)
}

func (m Method) String() string { return string(m) }
