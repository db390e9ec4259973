// Package descriptive computes the summary statistics reported for each
// composite column.
package descriptive

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	results "vrsurvey/domain/stats"
)

// Describe returns count, mean, median, sample standard deviation, min and
// max. Empty input yields Count 0 and NaN fields; a single value has a NaN
// standard deviation.
func Describe(values []float64) results.Descriptive {
	d := results.Descriptive{
		Count:  len(values),
		Mean:   results.NaN,
		Median: results.NaN,
		StdDev: results.NaN,
		Min:    results.NaN,
		Max:    results.NaN,
	}
	if len(values) == 0 {
		return d
	}

	data := stats.Float64Data(values)
	if mean, err := stats.Mean(data); err == nil {
		d.Mean = results.Float(mean)
	}
	if median, err := stats.Median(data); err == nil {
		d.Median = results.Float(median)
	}
	if len(values) > 1 {
		if sd, err := stats.StandardDeviationSample(data); err == nil {
			d.StdDev = results.Float(sd)
		}
	}
	if min, err := stats.Min(data); err == nil {
		d.Min = results.Float(min)
	}
	if max, err := stats.Max(data); err == nil {
		d.Max = results.Float(max)
	}
	return d
}

// ZScores standardizes values with the population mean and standard
// deviation. A zero standard deviation yields all zeros.
func ZScores(values []float64) []float64 {
	z := make([]float64, len(values))
	if len(values) == 0 {
		return z
	}
	data := stats.Float64Data(values)
	mean, _ := stats.Mean(data)
	sd, _ := stats.StandardDeviationPopulation(data)
	if sd == 0 || math.IsNaN(sd) {
		return z
	}
	for i, v := range values {
		z[i] = (v - mean) / sd
	}
	return z
}

// Histogram counts values into equal-width bins spanning [min, max]. The
// last bin is closed so max lands in it; when all values are equal every
// value lands in the first bin.
func Histogram(values []float64, bins int) []results.HistogramBin {
	if bins <= 0 || len(values) == 0 {
		return nil
	}
	data := stats.Float64Data(values)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)
	width := (max - min) / float64(bins)

	out := make([]results.HistogramBin, bins)
	for i := range out {
		lower := min + float64(i)*width
		out[i] = results.HistogramBin{
			Label: fmt.Sprintf("%.2f", lower),
			Lower: results.Float(lower),
			Upper: results.Float(lower + width),
		}
	}
	for _, v := range values {
		idx := 0
		if width > 0 {
			idx = int(math.Floor((v - min) / width))
		}
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		out[idx].Count++
	}
	return out
}

// FiveNumber returns min, q1, median, q3 and max, taking each quartile as
// sorted[floor(n·p)]. This differs from Describe's median for even n.
func FiveNumber(values []float64) results.FiveNumber {
	if len(values) == 0 {
		return results.FiveNumber{Min: results.NaN, Q1: results.NaN, Median: results.NaN, Q3: results.NaN, Max: results.NaN}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	at := func(p float64) results.Float {
		return results.Float(sorted[int(math.Floor(float64(n)*p))])
	}
	return results.FiveNumber{
		Min:    results.Float(sorted[0]),
		Q1:     at(0.25),
		Median: at(0.5),
		Q3:     at(0.75),
		Max:    results.Float(sorted[n-1]),
	}
}

// Round rounds x to digits decimal places. Negative digits return x
// unchanged, as do NaN and infinities.
func Round(x float64, digits int) float64 {
	if digits < 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	pow := math.Pow(10, float64(digits))
	return math.Round(x*pow) / pow
}
