// Package advisor proposes cleaning plans from column profiles using
// algorithmic rules. It stands in for the external AI advisory service:
// the executor accepts any plan, and this adapter produces a sensible
// one without a network dependency.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"datakiln/domain/cleaning"
	"datakiln/domain/table"
	internalcleaning "datakiln/internal/cleaning"
)

// dropMissingThreshold is the missing percentage above which a column is
// cheaper to drop than to impute.
const dropMissingThreshold = 60.0

// Heuristic generates cleaning plans from dataset profiles.
type Heuristic struct{}

// NewHeuristic creates a heuristic plan advisor.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// SuggestPlan inspects the dataset's profiles and proposes an ordered
// plan: drop hollow columns, normalize messy headers, deduplicate, then
// impute whatever missingness remains.
func (h *Heuristic) SuggestPlan(ctx context.Context, ds table.Dataset) (cleaning.Plan, error) {
	plan := cleaning.Plan{}
	var notes []string

	for _, p := range ds.ColumnProfiles {
		if p.MissingPercentage > dropMissingThreshold {
			plan.Actions = append(plan.Actions, cleaning.Action{
				Type:   cleaning.ActionDropColumn,
				Column: p.Name,
			})
			notes = append(notes, fmt.Sprintf("drop %q (%.0f%% missing)", p.Name, p.MissingPercentage))
		}
	}

	if headersNeedNormalizing(ds.Headers) {
		plan.Actions = append(plan.Actions, cleaning.Action{Type: cleaning.ActionNormalizeHeaders})
		notes = append(notes, "normalize headers")
	}

	if hasDuplicateRows(ds) {
		plan.Actions = append(plan.Actions, cleaning.Action{Type: cleaning.ActionRemoveDuplicates})
		notes = append(notes, "remove duplicate rows")
	}

	dropped := make(map[string]bool)
	for _, a := range plan.Actions {
		if a.Type == cleaning.ActionDropColumn {
			dropped[a.Column] = true
		}
	}
	for _, p := range ds.ColumnProfiles {
		if dropped[p.Name] || p.MissingCount == 0 {
			continue
		}
		strategy := cleaning.StrategyMode
		if p.Type == table.TypeNumber {
			strategy = cleaning.StrategyMedian
		}
		plan.Actions = append(plan.Actions, cleaning.Action{
			Type:   cleaning.ActionImpute,
			Column: p.Name,
			Params: map[string]string{"strategy": strategy},
		})
		notes = append(notes, fmt.Sprintf("impute %q with %s", p.Name, strategy))
	}

	if len(notes) == 0 {
		plan.Summary = "No cleaning needed; the dataset looks consistent."
	} else {
		plan.Summary = "Suggested cleaning: " + strings.Join(notes, ", ") + "."
	}
	return plan, nil
}

func headersNeedNormalizing(headers []string) bool {
	for _, h := range headers {
		if internalcleaning.NormalizeHeader(h) != h {
			return true
		}
	}
	return false
}

func hasDuplicateRows(ds table.Dataset) bool {
	seen := make(map[string]struct{}, len(ds.Rows))
	for _, row := range ds.Rows {
		sig := internalcleaning.RowSignature(row)
		if _, dup := seen[sig]; dup {
			return true
		}
		seen[sig] = struct{}{}
	}
	return false
}
