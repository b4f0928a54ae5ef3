package search

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/justapithecus/prospect/log"
	"github.com/justapithecus/prospect/metrics"
	"github.com/justapithecus/prospect/types"
)

// earlyFailureLimit is the number of leading iterations that must all fail
// before the experiment aborts instead of burning the remaining budget.
const earlyFailureLimit = 3

// Oracle proposes the next candidate pipeline given the full history so far,
// in iteration order. A nil return means the search space is exhausted.
type Oracle interface {
	GetNextPipeline(
		scope *IterationScope,
		history []types.RunRecord,
		columns types.ColumnInfo,
		task types.TaskKind,
		maximize bool,
		cacheBeforeTrainer bool,
		logger *log.Logger,
		allowList []string,
	) *types.Pipeline
}

// IterationRunner executes training + evaluation for one candidate. It
// returns a Trial on completion (successful or failed training both count as
// completion), or an error when no run record could be produced. Errors are
// classified by IsCancellation: cancellation-shaped errors end the loop
// gracefully, anything else aborts the experiment.
type IterationRunner interface {
	Run(scope *IterationScope, pipeline types.Pipeline, artifactDir string, iteration int) (*Trial, error)
}

// Trial pairs the ledger view of one completed iteration with the
// caller-facing detail. The loop fills the detail's derived timing fields
// after the run returns.
type Trial struct {
	Record types.RunRecord
	Detail types.ResultRecord
}

// MetricsAgent judges evaluation scores. IsModelPerfect is the opaque
// predicate that ends the search early.
type MetricsAgent interface {
	IsModelPerfect(score float64) bool
}

// ProgressCallback receives each completed iteration's result, in iteration
// order. Best-effort: a panicking callback is logged and swallowed.
type ProgressCallback func(types.ResultRecord)

// Settings configures one experiment. Immutable for its lifetime.
type Settings struct {
	// MaxExperimentTime is the wall-clock budget. Zero arms no timer but
	// presets the time's-up condition, so exactly one iteration completes.
	MaxExperimentTime time.Duration
	// MaxModels is the hard cap on completed iterations.
	MaxModels int
	// CacheDirectory is the optional root for per-experiment artifacts.
	CacheDirectory string
	// CacheBeforeTrainer is a hint passed through to the oracle.
	CacheBeforeTrainer bool
	// Token is the externally-settable cooperative cancel flag. Optional.
	Token *CancellationToken
	// Seed is the parent seed for the per-iteration seed stream.
	// Nil means unseeded, non-deterministic iterations.
	Seed *int64
	// PropagationInterval overrides the external-cancellation poll interval.
	// Zero means DefaultPropagationInterval.
	PropagationInterval time.Duration
}

// Config bundles the settings with the experiment's collaborators.
type Config struct {
	Settings Settings

	Oracle  Oracle
	Runner  IterationRunner
	Metrics MetricsAgent

	// Task, Columns, Maximize and AllowList are passed through to the oracle.
	Task      types.TaskKind
	Columns   types.ColumnInfo
	Maximize  bool
	AllowList []string

	// Progress is the optional per-iteration result callback.
	Progress ProgressCallback

	// Logger overrides the default stderr logger (for testing).
	Logger *log.Logger
	// Collector records experiment metrics. Nil disables collection.
	Collector *metrics.Collector
}

// State is the experiment lifecycle state.
type State int32

// Experiment lifecycle states.
const (
	StateReady State = iota
	StateIterating
	StateStopped
	StateAborted
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateIterating:
		return "iterating"
	case StateStopped:
		return "stopped"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Experiment drives the model-search loop. One Execute call per experiment.
type Experiment struct {
	config *Config
	logger *log.Logger
	id     string
	state  atomic.Int32
}

// NewExperiment validates the configuration and creates an experiment in the
// Ready state.
func NewExperiment(config *Config) (*Experiment, error) {
	if config.Oracle == nil {
		return nil, fmt.Errorf("experiment requires an oracle")
	}
	if config.Runner == nil {
		return nil, fmt.Errorf("experiment requires an iteration runner")
	}
	if config.Metrics == nil {
		return nil, fmt.Errorf("experiment requires a metrics agent")
	}
	if config.Settings.MaxModels <= 0 {
		return nil, fmt.Errorf("max models must be positive, got %d", config.Settings.MaxModels)
	}
	if !config.Task.Valid() {
		return nil, fmt.Errorf("unrecognized task kind %q", config.Task)
	}

	id := "exp-" + uuid.NewString()
	logger := config.Logger
	if logger == nil {
		logger = log.NewLogger(id)
	}

	return &Experiment{
		config: config,
		logger: logger,
		id:     id,
	}, nil
}

// ID returns the experiment identifier.
func (e *Experiment) ID() string { return e.id }

// State returns the current lifecycle state.
func (e *Experiment) State() State {
	return State(e.state.Load())
}

// Execute runs the experiment to completion and returns the ordered
// caller-facing results, one per completed iteration. Not reentrant: a
// second call on the same Experiment fails.
//
// Graceful endings (perfect score, exhausted search space, cancellation,
// budget or iteration cap) return the partial results with a nil error.
// Systematic early failure and collaborator defects return the error.
func (e *Experiment) Execute(ctx context.Context) ([]types.ResultRecord, error) {
	if !e.state.CompareAndSwap(int32(StateReady), int32(StateIterating)) {
		return nil, fmt.Errorf("experiment %s already executed", e.id)
	}

	settings := e.config.Settings

	artifactDir, err := NewArtifactDir(settings.CacheDirectory)
	if err != nil {
		e.state.Store(int32(StateAborted))
		return nil, err
	}

	ledger := NewLedger()
	seeds := NewSeedStream(settings.Seed)
	coordinator := NewCoordinator(settings.Token, ledger, e.logger)
	coordinator.StartBudgetTimer(settings.MaxExperimentTime)
	coordinator.StartPropagationTimer(settings.PropagationInterval)
	defer coordinator.Stop()

	e.logger.Info("starting experiment", map[string]any{
		"task":         string(e.config.Task),
		"max_models":   settings.MaxModels,
		"budget":       settings.MaxExperimentTime.String(),
		"artifact_dir": artifactDir,
		"seeded":       settings.Seed != nil,
	})

	var results []types.ResultRecord
	for {
		iteration := ledger.Len() + 1
		seed, seeded := seeds.Next()
		scope := newIterationScope(iteration, seed, seeded, e.logger)
		coordinator.SetActive(scope)
		e.config.Collector.IncIterationStarted()

		started := time.Now()
		pipeline := e.config.Oracle.GetNextPipeline(
			scope,
			ledger.Snapshot(),
			e.config.Columns,
			e.config.Task,
			e.config.Maximize,
			settings.CacheBeforeTrainer,
			e.logger,
			e.config.AllowList,
		)
		selection := time.Since(started)
		if pipeline == nil {
			coordinator.ClearActive()
			scope.discard()
			e.logger.Info("search space exhausted", map[string]any{"iterations": ledger.Len()})
			e.state.Store(int32(StateStopped))
			return results, nil
		}
		e.config.Collector.IncPipelineProposed()

		trial, runErr := e.config.Runner.Run(scope, *pipeline, artifactDir, iteration)
		coordinator.ClearActive()
		scope.discard()

		if runErr != nil {
			// No run record was produced; nothing is appended.
			if IsCancellation(runErr) {
				e.config.Collector.IncTrialCancelled()
				e.logger.Warn("trial interrupted by cancellation", map[string]any{
					"iteration": iteration,
					"error":     runErr.Error(),
				})
				e.state.Store(int32(StateStopped))
				return results, nil
			}
			// A non-cancellation runner error is a collaborator defect, not
			// an expected interruption. Propagate it unchanged.
			e.state.Store(int32(StateAborted))
			return results, fmt.Errorf("iteration %d: %w", iteration, runErr)
		}

		ledger.Append(trial.Record)
		if trial.Record.Succeeded {
			e.config.Collector.IncIterationSucceeded()
			e.config.Collector.ObserveScore(iteration, trial.Record.Score)
		} else {
			e.config.Collector.IncIterationFailed()
		}

		detail := trial.Detail
		detail.Iteration = iteration
		detail.Duration = time.Since(started)
		detail.SelectionDuration = selection
		e.emitProgress(detail)
		results = append(results, detail)

		if trial.Record.Succeeded && e.config.Metrics.IsModelPerfect(trial.Record.Score) {
			e.logger.Info("perfect model found, stopping", map[string]any{
				"iteration": iteration,
				"score":     trial.Record.Score,
			})
			e.state.Store(int32(StateStopped))
			return results, nil
		}

		if ledger.Len() == earlyFailureLimit && ledger.AllFailed() {
			e.state.Store(int32(StateAborted))
			var cause error
			if trial.Record.Failure != nil {
				cause = trial.Record.Failure
			}
			return results, &EarlyFailureError{Trials: earlyFailureLimit, Cause: cause}
		}

		if ledger.Len() >= settings.MaxModels {
			e.logger.Info("model cap reached", map[string]any{"max_models": settings.MaxModels})
			break
		}
		if settings.Token.Requested() {
			e.logger.Info("external cancellation requested, stopping", nil)
			break
		}
		if coordinator.BudgetExpired() {
			e.logger.Info("experiment time budget reached", nil)
			break
		}
		if ctx.Err() != nil {
			e.logger.Warn("parent context done, stopping", map[string]any{"error": ctx.Err().Error()})
			break
		}
	}

	e.state.Store(int32(StateStopped))
	return results, nil
}

// emitProgress invokes the progress callback for one completed iteration.
// Callback panics are contained: they are logged as errors and never abort
// the loop.
func (e *Experiment) emitProgress(detail types.ResultRecord) {
	if e.config.Progress == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.config.Collector.IncCallbackFailure()
			e.logger.Error("progress callback failed", map[string]any{
				"iteration": detail.Iteration,
				"panic":     fmt.Sprint(r),
			})
		}
	}()
	e.config.Progress(detail)
}
