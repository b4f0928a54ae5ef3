package types

import "time"

// RunRecord is the ledger view of one completed iteration (successful or
// failed). Records are owned by the history ledger and never mutated after
// append.
type RunRecord struct {
	// Pipeline is the candidate the iteration trained.
	Pipeline Pipeline `msgpack:"pipeline" json:"pipeline"`
	// Succeeded reports whether training + evaluation completed.
	Succeeded bool `msgpack:"succeeded" json:"succeeded"`
	// Score is the evaluation score. Meaningless when Succeeded is false.
	Score float64 `msgpack:"score" json:"score"`
	// Failure is the captured failure for unsuccessful iterations.
	Failure *TrialFailure `msgpack:"failure,omitempty" json:"failure,omitempty"`
}

// TrialFailure captures the cause of a failed iteration.
type TrialFailure struct {
	// Message is a human-readable description.
	Message string `msgpack:"message" json:"message"`
	// ErrorType classifies the failure (collaborator-defined).
	ErrorType string `msgpack:"error_type,omitempty" json:"error_type,omitempty"`
}

// Error implements the error interface so a captured failure can be carried
// as the cause of an experiment abort.
func (f *TrialFailure) Error() string {
	if f.ErrorType != "" {
		return f.ErrorType + ": " + f.Message
	}
	return f.Message
}

// ResultRecord is the caller-facing view of a completed iteration: the
// RunRecord fields plus the timing the loop derives after the run returns.
// Ownership transfers to the caller via the progress callback and the final
// result slice.
type ResultRecord struct {
	// Iteration is the 1-based iteration index.
	Iteration int `msgpack:"iteration" json:"iteration"`
	// Pipeline is the candidate the iteration trained.
	Pipeline Pipeline `msgpack:"pipeline" json:"pipeline"`
	// Succeeded reports whether training + evaluation completed.
	Succeeded bool `msgpack:"succeeded" json:"succeeded"`
	// Score is the evaluation score. Meaningless when Succeeded is false.
	Score float64 `msgpack:"score" json:"score"`
	// Failure is the captured failure for unsuccessful iterations.
	Failure *TrialFailure `msgpack:"failure,omitempty" json:"failure,omitempty"`
	// Duration is the total iteration wall time, selection included.
	Duration time.Duration `msgpack:"duration" json:"duration"`
	// SelectionDuration is the wall time spent picking the candidate.
	SelectionDuration time.Duration `msgpack:"selection_duration" json:"selection_duration"`
}

// Run returns the ledger view of the result.
func (r ResultRecord) Run() RunRecord {
	return RunRecord{
		Pipeline:  r.Pipeline,
		Succeeded: r.Succeeded,
		Score:     r.Score,
		Failure:   r.Failure,
	}
}
