// Package report renders analysis results as Markdown tables and as an HTML
// page converted from that Markdown.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"vrsurvey/domain/stats"
	"vrsurvey/domain/survey"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Formatter controls numeric presentation. Results themselves are never
// rounded; only their rendering is.
type Formatter struct {
	Precision    int
	PValueDigits int
}

// DefaultFormatter prints statistics at 3 decimals and p-values at 4.
func DefaultFormatter() Formatter {
	return Formatter{Precision: 3, PValueDigits: 4}
}

// Num formats a statistic. Degenerate values print as NaN, +Inf or -Inf.
func (f Formatter) Num(v stats.Float) string {
	return formatFloat(v.Float64(), f.Precision)
}

// P formats a p-value; values below the printable resolution are shown as
// an upper bound, e.g. "<0.0001".
func (f Formatter) P(v stats.Float) string {
	p := v.Float64()
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return formatFloat(p, f.PValueDigits)
	}
	floor := math.Pow(10, -float64(f.PValueDigits))
	if p > 0 && p < floor {
		return "<" + strconv.FormatFloat(floor, 'f', f.PValueDigits, 64)
	}
	return formatFloat(p, f.PValueDigits)
}

func formatFloat(v float64, digits int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(v, 'f', digits, 64)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// table writes a GitHub-style Markdown table.
func table(w io.Writer, headers []string, rows [][]string) {
	fmt.Fprintf(w, "| %s |\n", strings.Join(headers, " | "))
	seps := make([]string, len(headers))
	for i := range seps {
		seps[i] = "---"
	}
	fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.ReplaceAll(c, "|", "\\|")
		}
		fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	}
	fmt.Fprintln(w)
}

// Markdown renders the whole report.
func (f Formatter) Markdown(r *stats.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Survey analysis %s\n\n", r.RunID)
	fmt.Fprintf(&b, "Generated %s from %d respondents (alpha %.2f, %s method).\n\n",
		r.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"), r.Respondents, r.Alpha, r.Method)

	f.writeAnomalies(&b, r.Anomalies)
	f.writeDescriptives(&b, r.Descriptives)
	f.writeDistributions(&b, r.Distributions)
	f.writeNormality(&b, r.Normality)
	f.writeComparisons(&b, r.Comparisons)
	f.writeANOVA(&b, r.ANOVA)
	f.writeDemographics(&b, r.Demographics)

	return b.String()
}

// HTML renders the report as a standalone HTML page.
func (f Formatter) HTML(r *stats.Report) []byte {
	return MarkdownToHTML(f.Markdown(r), "Survey analysis "+r.RunID.String())
}

// MarkdownToHTML converts Markdown with table support into a complete page.
func MarkdownToHTML(md, title string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}

func (f Formatter) writeAnomalies(w io.Writer, entries []stats.AnomalyEntry) {
	fmt.Fprintf(w, "## Anomalies\n\n")
	if len(entries) == 0 {
		fmt.Fprintf(w, "No respondents flagged.\n\n")
		return
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		submitted := ""
		if !e.SubmittedAt.IsZero() {
			submitted = e.SubmittedAt.UTC().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{strconv.FormatInt(e.RespondentID, 10), submitted, strings.Join(e.Reasons, "; ")})
	}
	table(w, []string{"Respondent", "Submitted", "Reasons"}, rows)
}

func (f Formatter) writeDescriptives(w io.Writer, ds []stats.Descriptive) {
	fmt.Fprintf(w, "## Descriptive statistics\n\n")
	rows := make([][]string, 0, len(ds))
	for _, d := range ds {
		rows = append(rows, []string{
			d.Variable, strconv.Itoa(d.Count),
			f.Num(d.Mean), f.Num(d.Median), f.Num(d.StdDev), f.Num(d.Min), f.Num(d.Max),
		})
	}
	table(w, []string{"Variable", "N", "Mean", "Median", "Std. dev.", "Min", "Max"}, rows)
}

func (f Formatter) writeDistributions(w io.Writer, ds []stats.Distribution) {
	if len(ds) == 0 {
		return
	}
	fmt.Fprintf(w, "## Distributions\n\n")
	rows := make([][]string, 0, len(ds))
	for _, d := range ds {
		fn := d.FiveNumber
		bins := make([]string, 0, len(d.Histogram))
		for _, bin := range d.Histogram {
			bins = append(bins, fmt.Sprintf("%s:%d", bin.Label, bin.Count))
		}
		rows = append(rows, []string{
			d.Variable, f.Num(fn.Min), f.Num(fn.Q1), f.Num(fn.Median), f.Num(fn.Q3), f.Num(fn.Max),
			strings.Join(bins, " "),
		})
	}
	table(w, []string{"Variable", "Min", "Q1", "Median", "Q3", "Max", "Histogram"}, rows)
}

func (f Formatter) writeNormality(w io.Writer, vs []stats.NormalityVerdict) {
	fmt.Fprintf(w, "## Normality (Jarque-Bera)\n\n")
	rows := make([][]string, 0, len(vs))
	for _, v := range vs {
		rows = append(rows, []string{
			v.Variable, strconv.Itoa(v.N), f.Num(v.JB), f.P(v.PValue),
			f.Num(v.Skewness), f.Num(v.Kurtosis), yesNo(v.IsNormal),
		})
	}
	table(w, []string{"Variable", "N", "JB", "p", "Skewness", "Kurtosis", "Normal"}, rows)
}

func (f Formatter) writeComparisons(w io.Writer, cs []stats.Comparison) {
	fmt.Fprintf(w, "## Paired comparisons (VR - 2D)\n\n")
	rows := make([][]string, 0, len(cs))
	for _, c := range cs {
		switch {
		case c.PairedT != nil:
			t := c.PairedT
			rows = append(rows, []string{
				c.Construct, strconv.Itoa(c.N), "paired t",
				fmt.Sprintf("t(%d) = %s", t.DF, f.Num(t.T)), f.P(t.PValue),
				"d = " + f.Num(t.CohensD), yesNo(t.Significant),
			})
		case c.Wilcoxon != nil:
			wx := c.Wilcoxon
			rows = append(rows, []string{
				c.Construct, strconv.Itoa(c.N), "Wilcoxon",
				fmt.Sprintf("W = %s, z = %s", f.Num(wx.W), f.Num(wx.Z)), f.P(wx.PValue),
				fmt.Sprintf("n = %d (%d ties at zero)", wx.N, wx.Discarded), yesNo(wx.Significant),
			})
		default:
			rows = append(rows, []string{c.Construct, strconv.Itoa(c.N), string(c.Test), "", "", c.Error, "no"})
		}
	}
	table(w, []string{"Construct", "N", "Test", "Statistic", "p", "Effect", "Significant"}, rows)
}

func (f Formatter) writeANOVA(w io.Writer, as []stats.ANOVAResult) {
	if len(as) == 0 {
		return
	}
	fmt.Fprintf(w, "## One-way ANOVA of differences\n\n")
	rows := make([][]string, 0, len(as))
	for _, a := range as {
		rows = append(rows, []string{
			a.Attribute, a.Dependent, strconv.Itoa(len(a.Groups)),
			fmt.Sprintf("F(%d, %d) = %s", a.DFBetween, a.DFWithin, f.Num(a.F)), f.P(a.PValue), yesNo(a.Significant),
		})
	}
	table(w, []string{"Attribute", "Dependent", "Groups", "F", "p", "Significant"}, rows)
}

func (f Formatter) writeDemographics(w io.Writer, ts []stats.FrequencyTable) {
	if len(ts) == 0 {
		return
	}
	fmt.Fprintf(w, "## Demographics\n\n")
	for _, t := range ts {
		title := t.Attribute
		if a, ok := survey.ParseAttribute(t.Attribute); ok {
			title = a.Label()
		}
		fmt.Fprintf(w, "### %s\n\n", title)
		rows := make([][]string, 0, len(t.Rows))
		for _, row := range t.Rows {
			category := row.Category
			if t.Attribute == string(survey.AttrAge) {
				category = survey.AgeLabel(category)
			}
			rows = append(rows, []string{category, strconv.Itoa(row.Count), formatFloat(row.Percent.Float64(), 1) + "%"})
		}
		table(w, []string{"Category", "Count", "Percent"}, rows)
	}
}
