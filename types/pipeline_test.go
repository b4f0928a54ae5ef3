package types

import "testing"

func TestPipeline_String(t *testing.T) {
	tests := []struct {
		name     string
		pipeline Pipeline
		want     string
	}{
		{
			name:     "id only",
			pipeline: Pipeline{ID: "p-1"},
			want:     "p-1",
		},
		{
			name:     "with steps",
			pipeline: Pipeline{ID: "p-2", Steps: []string{"OneHot", "LightGbm"}},
			want:     "p-2: OneHot -> LightGbm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pipeline.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTaskKind_Valid(t *testing.T) {
	for _, task := range []TaskKind{TaskRegression, TaskBinaryClassification, TaskMulticlassClassification} {
		if !task.Valid() {
			t.Errorf("expected %q to be valid", task)
		}
	}
	if TaskKind("clustering").Valid() {
		t.Error("unexpected valid task kind")
	}
}

func TestTrialFailure_Error(t *testing.T) {
	f := &TrialFailure{Message: "label column missing", ErrorType: "SchemaError"}
	if got := f.Error(); got != "SchemaError: label column missing" {
		t.Errorf("Error() = %q", got)
	}

	bare := &TrialFailure{Message: "boom"}
	if got := bare.Error(); got != "boom" {
		t.Errorf("Error() = %q", got)
	}
}

func TestResultRecord_Run(t *testing.T) {
	r := ResultRecord{
		Iteration: 3,
		Pipeline:  Pipeline{ID: "p-3"},
		Succeeded: true,
		Score:     0.91,
	}
	run := r.Run()
	if run.Pipeline.ID != "p-3" || !run.Succeeded || run.Score != 0.91 {
		t.Errorf("unexpected run record: %+v", run)
	}
}
