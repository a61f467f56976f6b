package diagnostics

import (
	"github.com/sirupsen/logrus"
)

// Tracer emits the enter/leave/msg call trace the original analyzer printed
// through its debugEnter/debugLeave/debugMsg macros. Purely ambient: nothing
// in the analyzer's control flow depends on whether tracing is enabled.
type Tracer struct {
	log   *logrus.Logger
	depth int
}

// NewTracer creates a Tracer. Pass verbose=false to silence it entirely
// (the default for normal compiler runs).
func NewTracer(verbose bool) *Tracer {
	log := logrus.New()
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.PanicLevel)
	}
	return &Tracer{log: log}
}

// Enter logs entry into an analyzer production, indented to the current
// nesting depth.
func (t *Tracer) Enter(production string) {
	t.log.WithField("depth", t.depth).Debug("-> " + production)
	t.depth++
}

// Leave logs exit from the production most recently entered.
func (t *Tracer) Leave() {
	if t.depth > 0 {
		t.depth--
	}
	t.log.WithField("depth", t.depth).Debug("<-")
}

// Msg logs a one-off trace note (e.g. "Empty", "Invalid" node classes that
// need no further analysis).
func (t *Tracer) Msg(message string) {
	t.log.WithField("depth", t.depth).Debug(message)
}

// Unhandled reports an internal invariant violation: the analyzer reached an
// AST/operator shape its switch doesn't know about. This is a programmer
// error, not a user diagnostic, so it is fatal rather than collected.
func (t *Tracer) Unhandled(where, kind, value string) {
	t.log.Fatalf("%s: unhandled %s %q", where, kind, value)
}
