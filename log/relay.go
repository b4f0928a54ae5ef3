package log

import (
	"fmt"
	"sync"
)

// Severity is the message severity carried by relayed messages.
type Severity int

// Severities the relay contract recognizes. An iteration's collaborators may
// emit no other severity; a new kind must be added here and to Relay.Forward
// before any collaborator starts using it.
const (
	SeverityTrace Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityTrace:
		return "trace"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Message is one log message emitted inside an iteration, with positional
// formatting arguments. Messages are forwarded verbatim.
type Message struct {
	Severity Severity
	Format   string
	Args     []any
}

// Relay forwards every message from one iteration to the experiment's single
// logger. One relay is attached per iteration scope. Thread-safe: the opaque
// trainer may log from worker goroutines.
type Relay struct {
	sugar *SugaredLogger

	mu     sync.Mutex
	counts map[Severity]int64
}

// NewRelay creates a relay forwarding to logger, tagging every forwarded
// entry with the iteration index.
func NewRelay(logger *Logger, iteration int) *Relay {
	return &Relay{
		sugar:  logger.Sugar().With("iteration", iteration),
		counts: make(map[Severity]int64),
	}
}

// Forward forwards one message to the experiment logger.
//
// An unhandled severity is a programming-contract violation: it means a
// collaborator introduced a message kind the loop does not know how to
// forward. Forward panics rather than guessing a level.
func (r *Relay) Forward(msg Message) {
	r.mu.Lock()
	r.counts[msg.Severity]++
	r.mu.Unlock()

	switch msg.Severity {
	case SeverityTrace:
		r.sugar.Tracef(msg.Format, msg.Args...)
	case SeverityInfo:
		r.sugar.Infof(msg.Format, msg.Args...)
	case SeverityWarning:
		r.sugar.Warnf(msg.Format, msg.Args...)
	case SeverityError:
		r.sugar.Errorf(msg.Format, msg.Args...)
	default:
		panic(fmt.Sprintf("log: unhandled message severity %d", int(msg.Severity)))
	}
}

// Log is shorthand for Forward with a freshly built message.
func (r *Relay) Log(severity Severity, format string, args ...any) {
	r.Forward(Message{Severity: severity, Format: format, Args: args})
}

// Counts returns a copy of the per-severity forwarded message counts.
func (r *Relay) Counts() map[Severity]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[Severity]int64, len(r.counts))
	for k, v := range r.counts {
		counts[k] = v
	}
	return counts
}
