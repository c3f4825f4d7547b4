// Package analyze holds the read-only analytics: descriptive statistics,
// pairwise correlation, and the chart-ready aggregations. Nothing here
// mutates a dataset.
package analyze

import (
	"sort"

	"github.com/montanaflynn/stats"

	domainstats "datakiln/domain/stats"
	"datakiln/domain/table"
	"datakiln/internal/infer"
)

// DescribeColumn computes descriptive statistics for one column's
// numeric values. An empty numeric series yields an all-zero record
// rather than an error.
func DescribeColumn(ds table.Dataset, column string) domainstats.ColumnStats {
	numbers := NumericColumn(ds, column)
	result := domainstats.ColumnStats{Column: column, Count: len(numbers)}
	if len(numbers) == 0 {
		return result
	}

	sorted := append([]float64(nil), numbers...)
	sort.Float64s(sorted)

	result.Mean, _ = stats.Mean(sorted)
	result.Median, _ = stats.Median(sorted)
	result.StdDev, _ = stats.StandardDeviationPopulation(sorted)
	result.Min = sorted[0]
	result.Max = sorted[len(sorted)-1]
	result.Mode = modeOf(numbers)

	// Simple index-based quartile selection, no interpolation.
	n := len(sorted)
	result.Q1 = sorted[n/4]
	result.Q3 = sorted[(n*3)/4]
	return result
}

// Describe computes ColumnStats for every column profiled as numeric, in
// header order.
func Describe(ds table.Dataset) []domainstats.ColumnStats {
	results := make([]domainstats.ColumnStats, 0)
	for _, name := range NumericColumns(ds) {
		results = append(results, DescribeColumn(ds, name))
	}
	return results
}

// NumericColumns returns the headers whose profile type is Number, in
// header order.
func NumericColumns(ds table.Dataset) []string {
	columns := make([]string, 0)
	for _, p := range ds.ColumnProfiles {
		if p.Type == table.TypeNumber {
			columns = append(columns, p.Name)
		}
	}
	return columns
}

// NumericColumn extracts the usable numeric values of a column in row
// order, dropping missing and non-numeric cells.
func NumericColumn(ds table.Dataset, column string) []float64 {
	numbers := make([]float64, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		if n, ok := infer.AsNumber(row[column]); ok {
			numbers = append(numbers, n)
		}
	}
	return numbers
}

// modeOf returns the most frequent value, ties broken toward the value
// that reached the winning count first in row order.
func modeOf(numbers []float64) float64 {
	counts := make(map[float64]int, len(numbers))
	var best float64
	bestCount := 0
	for _, n := range numbers {
		counts[n]++
		if counts[n] > bestCount {
			bestCount = counts[n]
			best = n
		}
	}
	return best
}
