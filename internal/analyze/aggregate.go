package analyze

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	domainstats "datakiln/domain/stats"
	"datakiln/domain/table"
	"datakiln/internal/infer"
)

// UnknownGroup labels rows whose grouping cell is missing.
const UnknownGroup = "Unknown"

// Histogram bins a numeric column into equal-width buckets spanning
// [min, max]. A value exactly at max lands in the last bucket; a zero
// range collapses to a single bucket labeled by the constant value.
func Histogram(ds table.Dataset, column string, bins int) []domainstats.HistogramBin {
	if bins < 1 {
		bins = 1
	}
	numbers := NumericColumn(ds, column)
	if len(numbers) == 0 {
		return []domainstats.HistogramBin{}
	}

	min, _ := stats.Min(numbers)
	max, _ := stats.Max(numbers)
	if max == min {
		return []domainstats.HistogramBin{{
			Label: table.CanonicalText(min),
			Start: min,
			End:   max,
			Count: len(numbers),
		}}
	}

	width := (max - min) / float64(bins)
	buckets := make([]domainstats.HistogramBin, bins)
	for i := range buckets {
		start := min + float64(i)*width
		end := start + width
		buckets[i] = domainstats.HistogramBin{
			Label: fmt.Sprintf("%.2f - %.2f", start, end),
			Start: start,
			End:   end,
		}
	}
	for _, n := range numbers {
		idx := int((n - min) / width)
		if idx >= bins {
			idx = bins - 1
		}
		buckets[idx].Count++
	}
	return buckets
}

// CategoryCounts returns the most frequent canonical values of a column,
// missing cells excluded, sorted descending and truncated to limit.
func CategoryCounts(ds table.Dataset, column string, limit int) []domainstats.CategoryCount {
	counts := make(map[string]int)
	order := []string{}
	for _, row := range ds.Rows {
		v := row[column]
		if table.IsMissing(v) {
			continue
		}
		key := table.CanonicalText(v)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	results := make([]domainstats.CategoryCount, 0, len(order))
	for _, key := range order {
		results = append(results, domainstats.CategoryCount{Value: key, Count: counts[key]})
	}
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Count > results[b].Count
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// ScatterSample stride-samples rows where both columns are numeric, with
// step max(1, totalRows/limit).
func ScatterSample(ds table.Dataset, xColumn, yColumn string, limit int) []domainstats.ScatterPoint {
	if limit < 1 {
		limit = 1
	}
	step := ds.TotalRows / limit
	if step < 1 {
		step = 1
	}

	points := make([]domainstats.ScatterPoint, 0, limit)
	for i := 0; i < len(ds.Rows); i += step {
		row := ds.Rows[i]
		x, ok1 := infer.AsNumber(row[xColumn])
		y, ok2 := infer.AsNumber(row[yColumn])
		if ok1 && ok2 {
			points = append(points, domainstats.ScatterPoint{X: x, Y: y})
		}
	}
	return points
}

// GroupMeans averages a numeric column by the canonical value of a
// grouping column. Missing groups pool under "Unknown"; results sort
// descending by mean and truncate to limit.
func GroupMeans(ds table.Dataset, valueColumn, groupColumn string, limit int) []domainstats.GroupMean {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	order := []string{}
	for _, row := range ds.Rows {
		n, ok := infer.AsNumber(row[valueColumn])
		if !ok {
			continue
		}
		group := UnknownGroup
		if !table.IsMissing(row[groupColumn]) {
			group = table.CanonicalText(row[groupColumn])
		}
		if _, seen := counts[group]; !seen {
			order = append(order, group)
		}
		sums[group] += n
		counts[group]++
	}

	results := make([]domainstats.GroupMean, 0, len(order))
	for _, group := range order {
		results = append(results, domainstats.GroupMean{
			Group: group,
			Mean:  sums[group] / float64(counts[group]),
			Count: counts[group],
		})
	}
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Mean > results[b].Mean
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
