// Package transform applies feature-engineering actions to datasets.
// Actions run in order against a deep copy of the rows, so earlier
// actions in a batch are visible to later ones while the input dataset
// stays untouched.
package transform

import (
	"fmt"
	"math"
	"regexp"
	"sort"

	"github.com/montanaflynn/stats"

	"datakiln/domain/table"
	"datakiln/domain/transform"
	"datakiln/internal/infer"
	"datakiln/internal/profile"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Executor applies transformation batches.
type Executor struct {
	// oneHotMaxCategories caps one-hot cardinality; actions over the cap
	// are skipped wholesale.
	oneHotMaxCategories int
}

// NewExecutor creates a transformation executor with the given one-hot
// cardinality cap.
func NewExecutor(oneHotMaxCategories int) *Executor {
	return &Executor{oneHotMaxCategories: oneHotMaxCategories}
}

// Execute applies the actions in order and returns the rebuilt dataset
// plus a per-action report.
func (e *Executor) Execute(ds table.Dataset, actions []transform.Action) (table.Dataset, transform.Report) {
	headers := append([]string(nil), ds.Headers...)
	rows := ds.CloneRows()
	report := transform.Report{}

	for _, action := range actions {
		var outcome transform.Outcome
		switch {
		case action.Column == "":
			outcome = skipped(action, "transformation requires a column")
		case !containsHeader(headers, action.Column):
			outcome = skipped(action, fmt.Sprintf("column %q not found", action.Column))
		default:
			switch action.Method {
			case transform.MethodLabel:
				headers, outcome = e.labelEncode(headers, rows, action)
			case transform.MethodOneHot:
				headers, outcome = e.oneHotEncode(headers, rows, action)
			case transform.MethodMinMax:
				outcome = e.minMaxScale(rows, action)
			case transform.MethodZScore:
				outcome = e.zScoreScale(rows, action)
			case transform.MethodLog:
				outcome = e.logTransform(rows, action)
			default:
				outcome = skipped(action, fmt.Sprintf("unknown method %q", action.Method))
			}
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	return profile.Rebuild(ds, headers, rows), report
}

// labelEncode ranks the column's distinct canonical values
// lexicographically and writes each row's 0-based rank into a new
// <column>_encoded column. The original column is retained.
func (e *Executor) labelEncode(headers []string, rows []table.Row, action transform.Action) ([]string, transform.Outcome) {
	distinct := distinctValues(rows, action.Column)
	sort.Strings(distinct)
	ranks := make(map[string]int, len(distinct))
	for i, v := range distinct {
		ranks[v] = i
	}

	encoded := action.Column + "_encoded"
	for _, row := range rows {
		v := row[action.Column]
		if table.IsMissing(v) {
			continue
		}
		row[encoded] = float64(ranks[table.CanonicalText(v)])
	}
	headers = appendHeader(headers, encoded)
	return headers, applied(action, fmt.Sprintf("encoded %d distinct values into %q", len(distinct), encoded))
}

// oneHotEncode emits one binary indicator column per distinct value,
// unless the cardinality exceeds the cap, in which case the action is
// skipped entirely.
func (e *Executor) oneHotEncode(headers []string, rows []table.Row, action transform.Action) ([]string, transform.Outcome) {
	distinct := distinctValues(rows, action.Column)
	if len(distinct) > e.oneHotMaxCategories {
		return headers, skipped(action, fmt.Sprintf("column %q has %d distinct values, over the %d cap", action.Column, len(distinct), e.oneHotMaxCategories))
	}
	sort.Strings(distinct)

	names := make(map[string]string, len(distinct))
	for _, v := range distinct {
		name := action.Column + "_" + nonAlphanumeric.ReplaceAllString(v, "_")
		names[v] = name
		headers = appendHeader(headers, name)
	}

	for _, row := range rows {
		v := row[action.Column]
		if table.IsMissing(v) {
			for _, name := range names {
				row[name] = float64(0)
			}
			continue
		}
		key := table.CanonicalText(v)
		for value, name := range names {
			if value == key {
				row[name] = float64(1)
			} else {
				row[name] = float64(0)
			}
		}
	}
	return headers, applied(action, fmt.Sprintf("added %d indicator columns for %q", len(distinct), action.Column))
}

// minMaxScale rescales numeric cells to [0,1]. A zero range leaves the
// column unchanged, and non-numeric cells are never touched.
func (e *Executor) minMaxScale(rows []table.Row, action transform.Action) transform.Outcome {
	numbers := numericColumn(rows, action.Column)
	if len(numbers) == 0 {
		return skipped(action, fmt.Sprintf("column %q has no numeric values", action.Column))
	}
	min, _ := stats.Min(numbers)
	max, _ := stats.Max(numbers)
	if max == min {
		return skipped(action, fmt.Sprintf("column %q has zero range", action.Column))
	}

	scaled := 0
	for _, row := range rows {
		if n, ok := infer.AsNumber(row[action.Column]); ok {
			row[action.Column] = (n - min) / (max - min)
			scaled++
		}
	}
	return applied(action, fmt.Sprintf("scaled %d values of %q to [0,1]", scaled, action.Column))
}

// zScoreScale standardizes numeric cells using the population standard
// deviation. Zero variance skips the action.
func (e *Executor) zScoreScale(rows []table.Row, action transform.Action) transform.Outcome {
	numbers := numericColumn(rows, action.Column)
	if len(numbers) == 0 {
		return skipped(action, fmt.Sprintf("column %q has no numeric values", action.Column))
	}
	mean, _ := stats.Mean(numbers)
	stdDev, _ := stats.StandardDeviationPopulation(numbers)
	if stdDev == 0 {
		return skipped(action, fmt.Sprintf("column %q has zero standard deviation", action.Column))
	}

	scaled := 0
	for _, row := range rows {
		if n, ok := infer.AsNumber(row[action.Column]); ok {
			row[action.Column] = (n - mean) / stdDev
			scaled++
		}
	}
	return applied(action, fmt.Sprintf("standardized %d values of %q", scaled, action.Column))
}

// logTransform takes the natural log of positive numeric cells.
// Non-positive numeric cells become 0 rather than nil; the count of such
// cells is surfaced in the outcome detail.
func (e *Executor) logTransform(rows []table.Row, action transform.Action) transform.Outcome {
	transformed, zeroed := 0, 0
	for _, row := range rows {
		n, ok := infer.AsNumber(row[action.Column])
		if !ok {
			continue
		}
		if n > 0 {
			row[action.Column] = math.Log(n)
			transformed++
		} else {
			row[action.Column] = float64(0)
			zeroed++
		}
	}
	if transformed == 0 && zeroed == 0 {
		return skipped(action, fmt.Sprintf("column %q has no numeric values", action.Column))
	}
	return applied(action, fmt.Sprintf("log-transformed %d values of %q (%d non-positive values set to 0)", transformed, action.Column, zeroed))
}

func distinctValues(rows []table.Row, column string) []string {
	seen := make(map[string]struct{})
	distinct := []string{}
	for _, row := range rows {
		v := row[column]
		if table.IsMissing(v) {
			continue
		}
		key := table.CanonicalText(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		distinct = append(distinct, key)
	}
	return distinct
}

func numericColumn(rows []table.Row, column string) []float64 {
	numbers := make([]float64, 0, len(rows))
	for _, row := range rows {
		if n, ok := infer.AsNumber(row[column]); ok {
			numbers = append(numbers, n)
		}
	}
	return numbers
}

func appendHeader(headers []string, name string) []string {
	for _, h := range headers {
		if h == name {
			return headers
		}
	}
	return append(headers, name)
}

func containsHeader(headers []string, name string) bool {
	for _, h := range headers {
		if h == name {
			return true
		}
	}
	return false
}

func applied(action transform.Action, detail string) transform.Outcome {
	return transform.Outcome{Action: action, Status: transform.OutcomeApplied, Detail: detail}
}

func skipped(action transform.Action, reason string) transform.Outcome {
	return transform.Outcome{Action: action, Status: transform.OutcomeSkipped, Reason: reason}
}
