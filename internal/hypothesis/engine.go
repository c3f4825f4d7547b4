// Package hypothesis runs the classical tests: two-sample t/z, chi-square
// independence, and one-way ANOVA. Critical values are coarse fixed
// approximations and the p-value is a two-point placeholder; both are
// part of the engine's contract, not computed tail probabilities.
package hypothesis

import (
	"fmt"
	"math"

	montstats "github.com/montanaflynn/stats"

	domainstats "datakiln/domain/stats"
	"datakiln/domain/table"
	"datakiln/internal/errors"
	"datakiln/internal/infer"
)

const (
	// Two-point normal/t critical-value approximation.
	criticalLargeDF = 1.96
	criticalSmallDF = 2.04
	// Fallback chi-square critical value for degenerate tables.
	criticalChiSquare1DF = 3.84
	// Coarse one-way ANOVA critical value.
	criticalANOVA = 3.00

	significantP    = 0.01
	notSignificantP = 0.2
)

// Engine runs hypothesis tests against a dataset. It is stateless.
type Engine struct{}

// NewEngine creates a hypothesis testing engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Run dispatches on the test kind. It errors when required columns are
// absent or carry too few usable observations; degenerate arithmetic
// inside a well-formed test resolves to defined defaults instead.
func (e *Engine) Run(ds table.Dataset, params domainstats.TestParams) (domainstats.TestResult, error) {
	if !params.Kind.Valid() {
		return domainstats.TestResult{}, errors.InvalidInput("unknown test kind %q", params.Kind)
	}
	if params.Column1 == "" {
		return domainstats.TestResult{}, errors.InvalidInput("%s requires a first column", params.Kind)
	}
	if !ds.HasColumn(params.Column1) {
		return domainstats.TestResult{}, errors.ColumnNotFound(string(params.Kind), params.Column1)
	}
	if params.Column2 == "" {
		return domainstats.TestResult{}, errors.InvalidInput("%s requires a second column", params.Kind)
	}
	if !ds.HasColumn(params.Column2) {
		return domainstats.TestResult{}, errors.ColumnNotFound(string(params.Kind), params.Column2)
	}

	switch params.Kind {
	case domainstats.TestTTest:
		return e.twoSampleTest(ds, params, "Two-Sample t-Test", "t-statistic")
	case domainstats.TestZTest:
		return e.twoSampleTest(ds, params, "Two-Sample z-Test", "z-statistic")
	case domainstats.TestChiSquare:
		return e.chiSquare(ds, params)
	case domainstats.TestANOVA:
		return e.anova(ds, params)
	default:
		return domainstats.TestResult{}, errors.InvalidInput("unknown test kind %q", params.Kind)
	}
}

// twoSampleTest compares two independent numeric samples using the
// pooled-standard-error statistic with sample variance.
func (e *Engine) twoSampleTest(ds table.Dataset, params domainstats.TestParams, testName, statisticName string) (domainstats.TestResult, error) {
	data1 := numericColumn(ds, params.Column1)
	data2 := numericColumn(ds, params.Column2)
	if len(data1) < 2 {
		return domainstats.TestResult{}, errors.InsufficientData("%s: column %q has %d usable numeric observations, need at least 2", testName, params.Column1, len(data1))
	}
	if len(data2) < 2 {
		return domainstats.TestResult{}, errors.InsufficientData("%s: column %q has %d usable numeric observations, need at least 2", testName, params.Column2, len(data2))
	}

	mean1, _ := montstats.Mean(data1)
	mean2, _ := montstats.Mean(data2)
	var1, _ := montstats.SampleVariance(data1)
	var2, _ := montstats.SampleVariance(data2)

	n1, n2 := float64(len(data1)), float64(len(data2))
	statistic := 0.0
	if se := math.Sqrt(var1/n1 + var2/n2); se > 0 {
		statistic = (mean1 - mean2) / se
	}

	df := n1 + n2 - 2
	critical := criticalSmallDF
	if df > 30 {
		critical = criticalLargeDF
	}
	significant := math.Abs(statistic) > critical

	result := domainstats.TestResult{
		TestName:         testName,
		Statistic:        statistic,
		StatisticName:    statisticName,
		DegreesOfFreedom: df,
		CriticalValue:    critical,
		IsSignificant:    significant,
		Details: fmt.Sprintf("Compared %q (n=%d, mean=%.4f) against %q (n=%d, mean=%.4f).",
			params.Column1, len(data1), mean1, params.Column2, len(data2), mean2),
		PValue: placeholderP(significant),
	}
	result.Insights = buildInsights(result, fmt.Sprintf("mean difference between %q and %q", params.Column1, params.Column2))
	return result, nil
}

// chiSquare tests independence of two categorical columns via a
// contingency table of joint counts.
func (e *Engine) chiSquare(ds table.Dataset, params domainstats.TestParams) (domainstats.TestResult, error) {
	observed, rowLevels, colLevels := contingencyTable(ds, params.Column1, params.Column2)
	if len(rowLevels) == 0 || len(colLevels) == 0 {
		return domainstats.TestResult{}, errors.InsufficientData("chi-square: no co-observed values between %q and %q", params.Column1, params.Column2)
	}

	rows, cols := len(rowLevels), len(colLevels)
	rowTotals := make([]float64, rows)
	colTotals := make([]float64, cols)
	grand := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			rowTotals[i] += observed[i][j]
			colTotals[j] += observed[i][j]
			grand += observed[i][j]
		}
	}

	statistic := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			expected := rowTotals[i] * colTotals[j] / grand
			if expected > 0 {
				diff := observed[i][j] - expected
				statistic += diff * diff / expected
			}
		}
	}

	df := float64((rows - 1) * (cols - 1))
	critical := criticalChiSquare1DF
	if rows > 1 && cols > 1 {
		critical = df + 1.65*math.Sqrt(2*df)
	}
	significant := statistic > critical

	result := domainstats.TestResult{
		TestName:         "Chi-Square Test of Independence",
		Statistic:        statistic,
		StatisticName:    "chi-square",
		DegreesOfFreedom: df,
		CriticalValue:    critical,
		IsSignificant:    significant,
		Details: fmt.Sprintf("Built a %dx%d contingency table of %q by %q over %d observations.",
			rows, cols, params.Column1, params.Column2, int(grand)),
		PValue: placeholderP(significant),
	}
	result.Insights = buildInsights(result, fmt.Sprintf("association between %q and %q", params.Column1, params.Column2))
	return result, nil
}

// anova runs a one-way analysis of variance of a numeric target grouped
// by a categorical column. Zero within-group variance resolves to a zero
// statistic rather than dividing by zero.
func (e *Engine) anova(ds table.Dataset, params domainstats.TestParams) (domainstats.TestResult, error) {
	groups, order := groupedNumeric(ds, params.Column1, params.Column2)
	if len(order) < 2 {
		return domainstats.TestResult{}, errors.InsufficientData("anova: grouping %q by %q yields %d groups, need at least 2", params.Column1, params.Column2, len(order))
	}

	total := 0
	grandSum := 0.0
	for _, key := range order {
		for _, v := range groups[key] {
			grandSum += v
			total++
		}
	}
	if total < 2 {
		return domainstats.TestResult{}, errors.InsufficientData("anova: column %q has %d usable numeric observations, need at least 2", params.Column1, total)
	}
	grandMean := grandSum / float64(total)

	ssb, ssw := 0.0, 0.0
	for _, key := range order {
		values := groups[key]
		mean, _ := montstats.Mean(values)
		ssb += float64(len(values)) * (mean - grandMean) * (mean - grandMean)
		for _, v := range values {
			ssw += (v - mean) * (v - mean)
		}
	}

	dfBetween := float64(len(order) - 1)
	dfWithin := float64(total - len(order))

	statistic := 0.0
	if dfWithin > 0 && ssw > 0 {
		statistic = (ssb / dfBetween) / (ssw / dfWithin)
	}
	significant := statistic > criticalANOVA

	result := domainstats.TestResult{
		TestName:         "One-Way ANOVA",
		Statistic:        statistic,
		StatisticName:    "F-statistic",
		DegreesOfFreedom: dfBetween,
		CriticalValue:    criticalANOVA,
		IsSignificant:    significant,
		Details: fmt.Sprintf("Compared %q across %d groups of %q (N=%d, grand mean=%.4f).",
			params.Column1, len(order), params.Column2, total, grandMean),
		PValue: placeholderP(significant),
	}
	result.Insights = buildInsights(result, fmt.Sprintf("group effect of %q on %q", params.Column2, params.Column1))
	return result, nil
}

// contingencyTable cross-tabulates joint counts of the canonical values
// of two columns, rows where either cell is missing excluded.
func contingencyTable(ds table.Dataset, col1, col2 string) ([][]float64, []string, []string) {
	rowIndex := make(map[string]int)
	colIndex := make(map[string]int)
	rowLevels := []string{}
	colLevels := []string{}
	type cell struct{ r, c int }
	counts := make(map[cell]float64)

	for _, row := range ds.Rows {
		v1, v2 := row[col1], row[col2]
		if table.IsMissing(v1) || table.IsMissing(v2) {
			continue
		}
		k1, k2 := table.CanonicalText(v1), table.CanonicalText(v2)
		r, ok := rowIndex[k1]
		if !ok {
			r = len(rowLevels)
			rowIndex[k1] = r
			rowLevels = append(rowLevels, k1)
		}
		c, ok := colIndex[k2]
		if !ok {
			c = len(colLevels)
			colIndex[k2] = c
			colLevels = append(colLevels, k2)
		}
		counts[cell{r, c}]++
	}

	observed := make([][]float64, len(rowLevels))
	for i := range observed {
		observed[i] = make([]float64, len(colLevels))
	}
	for pos, n := range counts {
		observed[pos.r][pos.c] = n
	}
	return observed, rowLevels, colLevels
}

// groupedNumeric partitions the numeric values of valueColumn by the
// canonical value of groupColumn, keeping first-seen group order.
func groupedNumeric(ds table.Dataset, valueColumn, groupColumn string) (map[string][]float64, []string) {
	groups := make(map[string][]float64)
	order := []string{}
	for _, row := range ds.Rows {
		if table.IsMissing(row[groupColumn]) {
			continue
		}
		n, ok := infer.AsNumber(row[valueColumn])
		if !ok {
			continue
		}
		key := table.CanonicalText(row[groupColumn])
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], n)
	}
	return groups, order
}

func numericColumn(ds table.Dataset, column string) []float64 {
	numbers := make([]float64, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		if n, ok := infer.AsNumber(row[column]); ok {
			numbers = append(numbers, n)
		}
	}
	return numbers
}

func placeholderP(significant bool) float64 {
	if significant {
		return significantP
	}
	return notSignificantP
}

// buildInsights derives the two narrative strings every result carries:
// a significance verdict and the statistic-versus-critical readout.
func buildInsights(r domainstats.TestResult, subject string) []string {
	magnitude := math.Abs(r.Statistic)
	verdict := fmt.Sprintf("No statistically significant %s was detected.", subject)
	comparison := fmt.Sprintf("The %s magnitude (%.4f) does not exceed the critical value (%.4f).", r.StatisticName, magnitude, r.CriticalValue)
	if r.IsSignificant {
		verdict = fmt.Sprintf("A statistically significant %s was detected.", subject)
		comparison = fmt.Sprintf("The %s magnitude (%.4f) exceeds the critical value (%.4f).", r.StatisticName, magnitude, r.CriticalValue)
	}
	return []string{verdict, comparison}
}
