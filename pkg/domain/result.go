package domain

import "time"

// Outcome tags the terminal status of one navigation attempt. A transition is
// a short-lived task with exactly one of these endings; callers branch on the
// tag instead of inspecting flag state after the fact.
type Outcome string

const (
	// OutcomeCompleted: the target scene loaded and the state advanced.
	OutcomeCompleted Outcome = "completed"
	// OutcomeFailed: the viewer reported an error; state rolled back.
	OutcomeFailed Outcome = "failed"
	// OutcomeTimedOut: the viewer signalled neither load nor error within
	// the load timeout; state rolled back.
	OutcomeTimedOut Outcome = "timed_out"
	// OutcomeSkipped: a guard rejected the request before any state change.
	OutcomeSkipped Outcome = "skipped"
)

// SkipReason explains an OutcomeSkipped result.
type SkipReason string

const (
	SkipUnknownScene   SkipReason = "unknown_scene"
	SkipAlreadyCurrent SkipReason = "already_current"
	SkipInFlight       SkipReason = "transition_in_flight"
)

// Result is the tagged outcome of a NavigateTo call.
type Result struct {
	Outcome Outcome    `json:"outcome"`
	From    string     `json:"from,omitempty"`
	To      string     `json:"to"`
	Reason  SkipReason `json:"reason,omitempty"` // set when Outcome == OutcomeSkipped

	// Err carries the viewer failure for OutcomeFailed. It is not an API
	// error: a failed load is a navigation outcome, and interactivity is
	// already restored when the caller sees it.
	Err error `json:"-"`

	// Elapsed is the wall time of the whole protocol, exit fade included.
	// Adapters map it to a serializable unit themselves.
	Elapsed time.Duration `json:"-"`
}

// Committed reports whether the attempt changed the current scene.
func (r *Result) Committed() bool {
	return r != nil && r.Outcome == OutcomeCompleted
}
