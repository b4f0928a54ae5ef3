// Package report builds and persists experiment reports.
//
// The report is the durable record of one experiment: the ordered iteration
// results, the metrics snapshot, and the best model found. It is written as
// msgpack into the experiment's artifact directory and read back by
// `prospect inspect`; an optional JSON rendering exists for humans and
// pipelines.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/justapithecus/prospect/metrics"
	"github.com/justapithecus/prospect/types"
)

// FileName is the report file name inside the artifact directory.
const FileName = "report.msgpack"

// ExperimentReport is the structured report produced after an experiment.
type ExperimentReport struct {
	Version      string `msgpack:"version" json:"version"`
	ExperimentID string `msgpack:"experiment_id" json:"experiment_id"`
	Task         string `msgpack:"task" json:"task"`
	State        string `msgpack:"state" json:"state"`
	Maximize     bool   `msgpack:"maximize" json:"maximize"`
	DurationMs   int64  `msgpack:"duration_ms" json:"duration_ms"`

	Results []types.ResultRecord `msgpack:"results" json:"results"`
	Metrics *metrics.Snapshot    `msgpack:"metrics" json:"metrics"`

	// Best is the best successful result under the experiment's
	// optimization direction. Nil when no iteration succeeded.
	Best *types.ResultRecord `msgpack:"best,omitempty" json:"best,omitempty"`
}

// Build composes an ExperimentReport from the experiment's outputs.
func Build(
	experimentID string,
	task types.TaskKind,
	state string,
	maximize bool,
	duration time.Duration,
	results []types.ResultRecord,
	snap metrics.Snapshot,
) *ExperimentReport {
	report := &ExperimentReport{
		Version:      types.Version,
		ExperimentID: experimentID,
		Task:         string(task),
		State:        state,
		Maximize:     maximize,
		DurationMs:   duration.Milliseconds(),
		Results:      results,
		Metrics:      &snap,
	}

	for i := range results {
		result := &results[i]
		if !result.Succeeded {
			continue
		}
		if report.Best == nil {
			report.Best = result
			continue
		}
		if (maximize && result.Score > report.Best.Score) ||
			(!maximize && result.Score < report.Best.Score) {
			report.Best = result
		}
	}

	return report
}

// Write writes the report as msgpack to the specified path.
func Write(report *ExperimentReport, path string) error {
	if path == "" {
		return errors.New("report path must not be empty")
	}

	data, err := msgpack.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}

// WriteJSON writes the report as indented JSON to the specified path.
// If path is "-", writes to stderr.
func WriteJSON(report *ExperimentReport, path string) error {
	if path == "" {
		return errors.New("report path must not be empty")
	}
	if path == "-" {
		return writeJSONTo(report, os.Stderr)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report at %s: %w", path, err)
	}
	if err := writeJSONTo(report, f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// writeJSONTo writes report JSON to any writer.
func writeJSONTo(report *ExperimentReport, w io.Writer) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Read reads a msgpack report from the specified path.
func Read(path string) (*ExperimentReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read report %s: %w", path, err)
	}

	var report ExperimentReport
	if err := msgpack.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("invalid report %s: %w", path, err)
	}
	return &report, nil
}
