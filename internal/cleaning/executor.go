// Package cleaning executes rule-driven cleaning plans against datasets.
// The executor never aborts mid-plan: each action either applies or is
// recorded as skipped with a reason, and the result is always rebuilt
// through the profile package.
package cleaning

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"datakiln/domain/cleaning"
	"datakiln/domain/table"
	"datakiln/internal/infer"
	"datakiln/internal/profile"
)

var nonWordRuns = regexp.MustCompile(`\W+`)

// Executor applies cleaning plans. It is stateless and safe to share.
type Executor struct{}

// NewExecutor creates a cleaning executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute applies the plan to the dataset and returns a new dataset plus
// a per-action report. Drop-column actions run first regardless of plan
// position so later actions never touch a column the plan also deletes;
// everything else runs in plan order.
func (e *Executor) Execute(ds table.Dataset, plan cleaning.Plan) (table.Dataset, cleaning.Report) {
	headers := append([]string(nil), ds.Headers...)
	rows := ds.CloneRows()
	report := cleaning.Report{}

	// Phase 1: drops.
	for _, action := range plan.Actions {
		if action.Type != cleaning.ActionDropColumn {
			continue
		}
		outcome := e.dropColumn(&headers, rows, action)
		report.Outcomes = append(report.Outcomes, outcome)
	}

	// Phase 2: remaining actions in plan order.
	for _, action := range plan.Actions {
		if action.Type == cleaning.ActionDropColumn {
			continue
		}
		var outcome cleaning.Outcome
		switch action.Type {
		case cleaning.ActionRemoveDuplicates:
			rows, outcome = e.removeDuplicates(rows, action)
		case cleaning.ActionNormalizeHeaders:
			headers, rows, outcome = e.normalizeHeaders(headers, rows, action)
		case cleaning.ActionImpute:
			rows, outcome = e.impute(headers, rows, action)
		case cleaning.ActionCastType:
			outcome = e.castType(headers, rows, action)
		default:
			outcome = skipped(action, fmt.Sprintf("unknown action type %q", action.Type))
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	return profile.Rebuild(ds, headers, rows), report
}

func (e *Executor) dropColumn(headers *[]string, rows []table.Row, action cleaning.Action) cleaning.Outcome {
	if action.Column == "" {
		return skipped(action, "drop_column requires a column")
	}
	found := false
	kept := (*headers)[:0]
	for _, h := range *headers {
		if h == action.Column {
			found = true
			continue
		}
		kept = append(kept, h)
	}
	if !found {
		return skipped(action, fmt.Sprintf("column %q not found", action.Column))
	}
	*headers = kept
	for _, row := range rows {
		delete(row, action.Column)
	}
	return applied(action, fmt.Sprintf("dropped column %q", action.Column))
}

// removeDuplicates keeps the first occurrence of each distinct row. Two
// rows are duplicates when their full field content matches regardless
// of key order; the signature is the sorted-key serialization.
func (e *Executor) removeDuplicates(rows []table.Row, action cleaning.Action) ([]table.Row, cleaning.Outcome) {
	seen := make(map[string]struct{}, len(rows))
	kept := make([]table.Row, 0, len(rows))
	for _, row := range rows {
		sig := RowSignature(row)
		if _, dup := seen[sig]; dup {
			continue
		}
		seen[sig] = struct{}{}
		kept = append(kept, row)
	}
	removed := len(rows) - len(kept)
	return kept, applied(action, fmt.Sprintf("removed %d duplicate rows", removed))
}

// RowSignature serializes a row's full field content with sorted keys,
// so two rows compare equal exactly when every field matches.
func RowSignature(row table.Row) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	// Insertion sort keeps this allocation-light for typical row widths.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('\x1f')
		b.WriteString(fmt.Sprintf("%T:%v", row[k], row[k]))
		b.WriteByte('\x1e')
	}
	return b.String()
}

// NormalizeHeader rewrites a header to snake_case: trim, lowercase,
// collapse runs of whitespace and non-word characters to a single
// underscore, then strip leading and trailing underscores.
func NormalizeHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	h = nonWordRuns.ReplaceAllString(h, "_")
	return strings.Trim(h, "_")
}

func (e *Executor) normalizeHeaders(headers []string, rows []table.Row, action cleaning.Action) ([]string, []table.Row, cleaning.Outcome) {
	mapping := make(map[string]string, len(headers))
	newHeaders := make([]string, 0, len(headers))
	seen := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		normalized := NormalizeHeader(h)
		mapping[h] = normalized
		if _, dup := seen[normalized]; !dup {
			seen[normalized] = struct{}{}
			newHeaders = append(newHeaders, normalized)
		}
	}

	for i, row := range rows {
		rewritten := make(table.Row, len(row))
		// Header order decides collisions: later keys win.
		for _, h := range headers {
			if v, ok := row[h]; ok {
				rewritten[mapping[h]] = v
			}
		}
		rows[i] = rewritten
	}
	return newHeaders, rows, applied(action, fmt.Sprintf("normalized %d headers", len(headers)))
}

func (e *Executor) impute(headers []string, rows []table.Row, action cleaning.Action) ([]table.Row, cleaning.Outcome) {
	if action.Column == "" {
		return rows, skipped(action, "impute requires a column")
	}
	if !containsHeader(headers, action.Column) {
		return rows, skipped(action, fmt.Sprintf("column %q not found", action.Column))
	}

	column := action.Column
	switch action.Strategy() {
	case cleaning.StrategyRemoveRow:
		kept := make([]table.Row, 0, len(rows))
		for _, row := range rows {
			if table.IsMissing(row[column]) {
				continue
			}
			kept = append(kept, row)
		}
		removed := len(rows) - len(kept)
		return kept, applied(action, fmt.Sprintf("removed %d rows with missing %q", removed, column))

	case cleaning.StrategyFillZero:
		filled := fillMissing(rows, column, float64(0))
		return rows, applied(action, fmt.Sprintf("filled %d missing cells with 0", filled))

	case cleaning.StrategyMean, cleaning.StrategyMedian:
		numbers := numericColumn(rows, column)
		if len(numbers) == 0 {
			return rows, skipped(action, fmt.Sprintf("column %q has no numeric values to compute a %s from", column, action.Strategy()))
		}
		var fill float64
		if action.Strategy() == cleaning.StrategyMean {
			fill, _ = stats.Mean(numbers)
		} else {
			fill, _ = stats.Median(numbers)
		}
		filled := fillMissing(rows, column, fill)
		return rows, applied(action, fmt.Sprintf("filled %d missing cells with %s %v", filled, action.Strategy(), fill))

	case cleaning.StrategyMode:
		fill, ok := modeValue(rows, column)
		if !ok {
			return rows, skipped(action, fmt.Sprintf("column %q has no values to compute a mode from", column))
		}
		filled := fillMissing(rows, column, fill)
		return rows, applied(action, fmt.Sprintf("filled %d missing cells with mode %v", filled, fill))

	default:
		return rows, skipped(action, fmt.Sprintf("unknown impute strategy %q", action.Strategy()))
	}
}

// modeValue returns the most frequent non-missing value by canonical
// text key. Ties break toward the value that reached the winning count
// first.
func modeValue(rows []table.Row, column string) (any, bool) {
	counts := make(map[string]int)
	representative := make(map[string]any)
	var best any
	bestCount := 0
	found := false
	for _, row := range rows {
		v := row[column]
		if table.IsMissing(v) {
			continue
		}
		key := table.CanonicalText(v)
		if _, ok := representative[key]; !ok {
			representative[key] = v
		}
		counts[key]++
		if counts[key] > bestCount {
			bestCount = counts[key]
			best = representative[key]
			found = true
		}
	}
	return best, found
}

func fillMissing(rows []table.Row, column string, fill any) int {
	filled := 0
	for _, row := range rows {
		if table.IsMissing(row[column]) {
			row[column] = fill
			filled++
		}
	}
	return filled
}

func (e *Executor) castType(headers []string, rows []table.Row, action cleaning.Action) cleaning.Outcome {
	if action.Column == "" {
		return skipped(action, "cast_type requires a column")
	}
	if !containsHeader(headers, action.Column) {
		return skipped(action, fmt.Sprintf("column %q not found", action.Column))
	}
	target := action.TargetType()
	switch target {
	case table.TypeNumber, table.TypeString, table.TypeDate, table.TypeBoolean:
	default:
		return skipped(action, fmt.Sprintf("unsupported cast target %q", action.Params["target_type"]))
	}

	for _, row := range rows {
		row[action.Column] = CastValue(row[action.Column], target)
	}
	return applied(action, fmt.Sprintf("cast column %q to %s", action.Column, target))
}

// CastValue coerces a single cell to the target type. Failed numeric and
// date parses become nil; boolean casting maps everything outside
// {"true", "1", "yes"} to false, missing cells included.
func CastValue(v any, target table.ColumnType) any {
	switch target {
	case table.TypeNumber:
		if table.IsMissing(v) {
			return nil
		}
		if n, ok := infer.AsNumber(v); ok {
			return n
		}
		return nil
	case table.TypeString:
		if v == nil {
			return nil
		}
		return table.CanonicalText(v)
	case table.TypeDate:
		if table.IsMissing(v) {
			return nil
		}
		if t, ok := infer.ParseDate(v); ok {
			return t.Format(time.RFC3339)
		}
		return nil
	case table.TypeBoolean:
		switch strings.ToLower(strings.TrimSpace(table.CanonicalText(v))) {
		case "true", "1", "yes":
			return true
		default:
			return false
		}
	default:
		return v
	}
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

func containsHeader(headers []string, name string) bool {
	for _, h := range headers {
		if h == name {
			return true
		}
	}
	return false
}

func applied(action cleaning.Action, detail string) cleaning.Outcome {
	return cleaning.Outcome{Action: action, Status: cleaning.OutcomeApplied, Detail: detail}
}

func skipped(action cleaning.Action, reason string) cleaning.Outcome {
	return cleaning.Outcome{Action: action, Status: cleaning.OutcomeSkipped, Reason: reason}
}
