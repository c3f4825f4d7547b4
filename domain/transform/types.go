package transform

// Method identifies a feature-engineering transformation.
type Method string

const (
	MethodLabel  Method = "label"
	MethodOneHot Method = "one_hot"
	MethodMinMax Method = "min_max"
	MethodZScore Method = "z_score"
	MethodLog    Method = "log"
)

// Valid reports whether m is a recognized method.
func (m Method) Valid() bool {
	switch m {
	case MethodLabel, MethodOneHot, MethodMinMax, MethodZScore, MethodLog:
		return true
	}
	return false
}

// Action targets one column with one method.
type Action struct {
	Column string `json:"column"`
	Method Method `json:"method"`
}

// OutcomeStatus tags what happened to a single transformation.
type OutcomeStatus string

const (
	OutcomeApplied OutcomeStatus = "applied"
	OutcomeSkipped OutcomeStatus = "skipped"
)

// Outcome records the fate of one transformation action.
type Outcome struct {
	Action Action        `json:"action"`
	Status OutcomeStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
	Detail string        `json:"detail,omitempty"`
}

// Report is the per-action account of a transformation batch.
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
