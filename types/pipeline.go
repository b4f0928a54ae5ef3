// Package types defines core domain types for the prospect experiment loop.
//
//nolint:revive // types is a common Go package naming convention
package types

import "strings"

// Pipeline is an opaque candidate sequence of transform + trainer steps.
// The loop treats it as an identifier with a string form; only external
// collaborators (oracle, iteration runner) interpret its contents.
type Pipeline struct {
	// ID uniquely identifies the candidate within one experiment.
	ID string `msgpack:"id" json:"id"`
	// Steps are the ordered step names, display-only for this core.
	Steps []string `msgpack:"steps" json:"steps"`
}

// String returns the display form of the pipeline.
func (p Pipeline) String() string {
	if len(p.Steps) == 0 {
		return p.ID
	}
	return p.ID + ": " + strings.Join(p.Steps, " -> ")
}

// TaskKind identifies the ML task an experiment optimizes for.
type TaskKind string

const (
	// TaskRegression is a regression task.
	TaskRegression TaskKind = "regression"
	// TaskBinaryClassification is a binary classification task.
	TaskBinaryClassification TaskKind = "binary_classification"
	// TaskMulticlassClassification is a multiclass classification task.
	TaskMulticlassClassification TaskKind = "multiclass_classification"
)

// Valid reports whether the task kind is one of the recognized values.
func (t TaskKind) Valid() bool {
	switch t {
	case TaskRegression, TaskBinaryClassification, TaskMulticlassClassification:
		return true
	}
	return false
}

// ColumnInfo is the dataset column metadata handed to the oracle when a next
// candidate is requested. The loop never interprets it.
type ColumnInfo struct {
	// Label is the target column name.
	Label string `msgpack:"label" json:"label"`
	// Numeric are the numeric feature column names.
	Numeric []string `msgpack:"numeric,omitempty" json:"numeric,omitempty"`
	// Categorical are the categorical feature column names.
	Categorical []string `msgpack:"categorical,omitempty" json:"categorical,omitempty"`
	// Text are the free-text feature column names.
	Text []string `msgpack:"text,omitempty" json:"text,omitempty"`
	// Ignored are columns excluded from training.
	Ignored []string `msgpack:"ignored,omitempty" json:"ignored,omitempty"`
}
