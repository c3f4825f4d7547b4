package cleaning

import (
	"datakiln/domain/table"
)

// ActionType identifies a cleaning operation.
type ActionType string

const (
	ActionImpute           ActionType = "impute"
	ActionRemoveDuplicates ActionType = "remove_duplicates"
	ActionNormalizeHeaders ActionType = "normalize_headers"
	ActionCastType         ActionType = "cast_type"
	ActionDropColumn       ActionType = "drop_column"
)

// Impute strategies.
const (
	StrategyMean      = "mean"
	StrategyMedian    = "median"
	StrategyMode      = "mode"
	StrategyFillZero  = "fill_zero"
	StrategyRemoveRow = "remove_row"
)

// Action is one step of a cleaning plan: a type, an optional target
// column, and a free-form parameter bag ("strategy" for impute,
// "target_type" for cast).
type Action struct {
	Type   ActionType        `json:"type"`
	Column string            `json:"column,omitempty"`
	Params map[string]string `json:"params,omitempty"`
}

// Strategy returns the impute strategy parameter, if any.
func (a Action) Strategy() string {
	return a.Params["strategy"]
}

// TargetType returns the cast target type parameter, if any.
func (a Action) TargetType() table.ColumnType {
	return table.ColumnType(a.Params["target_type"])
}

// Plan is an ordered list of cleaning actions plus a human-readable
// summary. Execution order matters, except that drop_column actions are
// always applied first.
type Plan struct {
	Actions []Action `json:"actions"`
	Summary string   `json:"summary,omitempty"`
}

// OutcomeStatus tags what happened to a single action during execution.
type OutcomeStatus string

const (
	OutcomeApplied OutcomeStatus = "applied"
	OutcomeSkipped OutcomeStatus = "skipped"
)

// Outcome records the fate of one plan action. Malformed or inapplicable
// actions surface here as skipped with a reason instead of aborting the
// plan.
type Outcome struct {
	Action Action        `json:"action"`
	Status OutcomeStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
	Detail string        `json:"detail,omitempty"`
}

// Report is the per-action account of a plan execution.
type Report struct {
	Outcomes []Outcome `json:"outcomes"`
}

// Applied returns how many actions took effect.
func (r Report) Applied() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == OutcomeApplied {
			n++
		}
	}
	return n
}

// Skipped returns how many actions were skipped.
func (r Report) Skipped() int {
	return len(r.Outcomes) - r.Applied()
}
