package analyze

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	domainstats "datakiln/domain/stats"
	"datakiln/domain/table"
	"datakiln/internal/infer"
)

// Correlate computes the Pearson coefficient for every unordered pair of
// distinct numeric columns, using only rows where both cells are numeric
// and non-NaN. Pairs with fewer than two valid co-observations, or with
// a zero denominator, yield 0 instead of failing. Results come back
// sorted descending by absolute value.
func Correlate(ds table.Dataset) []domainstats.CorrelationResult {
	columns := NumericColumns(ds)
	results := make([]domainstats.CorrelationResult, 0, len(columns)*(len(columns)-1)/2)

	for i := 0; i < len(columns); i++ {
		for j := i + 1; j < len(columns); j++ {
			x, y := pairedObservations(ds, columns[i], columns[j])
			results = append(results, domainstats.CorrelationResult{
				Column1: columns[i],
				Column2: columns[j],
				Value:   Pearson(x, y),
			})
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return math.Abs(results[a].Value) > math.Abs(results[b].Value)
	})
	return results
}

// Pearson computes the product-moment coefficient with the degenerate
// guards the engine promises: fewer than two observations or a zero
// denominator yield 0.
func Pearson(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// pairedObservations collects the co-observed numeric values of two
// columns in row order.
func pairedObservations(ds table.Dataset, col1, col2 string) ([]float64, []float64) {
	x := make([]float64, 0, len(ds.Rows))
	y := make([]float64, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		a, ok1 := infer.AsNumber(row[col1])
		b, ok2 := infer.AsNumber(row[col2])
		if ok1 && ok2 {
			x = append(x, a)
			y = append(y, b)
		}
	}
	return x, y
}
