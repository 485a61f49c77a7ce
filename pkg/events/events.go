// Package events defines the boundary between a sync run and whatever is
// watching it. The runner publishes an ordered stream of progress, log and
// terminal events; presentation layers (CLI, GUI) implement Listener and
// make no assumption about the emitter beyond in-order delivery.
package events

import "fmt"

// 📊 OutcomeKind classifies how a run ended.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeCanceled
	OutcomeFailed
)

// String returns a string representation of OutcomeKind
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeCanceled:
		return "canceled"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 🏁 Outcome is the terminal result of a run. It is computed once, at
// stream EOF, and delivered exactly once. A canceled run is always
// Canceled regardless of the child's exit code.
type Outcome struct {
	Kind     OutcomeKind
	ExitCode int // meaningful only when Kind == OutcomeFailed
}

// Success reports whether the run completed cleanly.
func (o Outcome) Success() bool {
	return o.Kind == OutcomeSuccess
}

func (o Outcome) String() string {
	if o.Kind == OutcomeFailed {
		return fmt.Sprintf("failed (exit code %d)", o.ExitCode)
	}
	return o.Kind.String()
}

// 📈 Progress carries an overall completion percentage, 0 ≤ Percent ≤ 100.
// Progress lines are suppressed from the log stream.
type Progress struct {
	Percent int
}

// 📝 LogLine is a single non-blank line of tool output, trailing
// whitespace trimmed, surfaced verbatim.
type LogLine struct {
	Text string
}

// 👂 Listener receives run events. Calls arrive FIFO within a run: a line
// observed earlier is never reported after one observed later, and
// RunFinished arrives last, exactly once.
type Listener interface {
	OnProgress(p Progress)
	OnLog(line LogLine)
	OnRunFinished(outcome Outcome)
}

// 🔇 NopListener discards all events. Useful as a default and in tests.
type NopListener struct{}

func (NopListener) OnProgress(Progress)   {}
func (NopListener) OnLog(LogLine)         {}
func (NopListener) OnRunFinished(Outcome) {}

// 🔀 Multi fans events out to several listeners in registration order.
func Multi(listeners ...Listener) Listener {
	return multiListener(listeners)
}

type multiListener []Listener

func (m multiListener) OnProgress(p Progress) {
	for _, l := range m {
		l.OnProgress(p)
	}
}

func (m multiListener) OnLog(line LogLine) {
	for _, l := range m {
		l.OnLog(line)
	}
}

func (m multiListener) OnRunFinished(outcome Outcome) {
	for _, l := range m {
		l.OnRunFinished(outcome)
	}
}
