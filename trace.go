package resolver

import (
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	successChar = "✓"
	failChar    = "✗"
	backChar    = "←"
)

// Tracer renders the Search Engine's progress as structured log lines,
// gated by Config.Trace so a disabled resolve pays no formatting cost.
// Indentation mirrors solution depth, the way a hand-written recursive
// trace would read.
type Tracer struct {
	enabled bool
	log     *logrus.Logger
}

// NewTracer builds a Tracer; when enabled is false every method is a no-op.
func NewTracer(enabled bool) *Tracer {
	l := logrus.New()
	l.SetLevel(logrus.DebugLevel)
	return &Tracer{enabled: enabled, log: l}
}

func tracePrefix(depth int) string {
	return strings.Repeat("| ", depth)
}

// Pop logs the frontier handing back solution s for further exploration.
func (t *Tracer) Pop(s *Solution) {
	if !t.enabled {
		return
	}
	t.log.Debugf("%s> pop #%d score=%d level=%d", tracePrefix(s.Level), s.ID, s.Score, s.Level)
}

// Pick logs which broken successor was chosen for repair, and its priority.
func (t *Tracer) Pick(rel *Element, priority int) {
	if !t.enabled {
		return
	}
	t.log.Debugf("  ? repair %s (priority=%d)", rel, priority)
}

// Fork logs a child solution branching off parent via action.
func (t *Tracer) Fork(parent, child *Solution, action Action) {
	if !t.enabled {
		return
	}
	t.log.Debugf("%s%s fork #%d -> #%d: %s = %s", tracePrefix(child.Level), successChar, parent.ID, child.ID, action.Package, action.NewElement)
}

// Mutate logs an in-place version swap on s (the single-repair-action case).
func (t *Tracer) Mutate(s *Solution, action Action) {
	if !t.enabled {
		return
	}
	t.log.Debugf("%s= mutate #%d: %s = %s", tracePrefix(s.Level), s.ID, action.Package, action.NewElement)
}

// Accept logs a soft relation's breakage being tolerated rather than fixed.
func (t *Tracer) Accept(s *Solution, rel *Element) {
	if !t.enabled {
		return
	}
	t.log.Debugf("%s~ accept breakage of %s in #%d", tracePrefix(s.Level), rel, s.ID)
}

// Prune logs a child solution discarded by the branch-and-bound bound.
func (t *Tracer) Prune(child *Solution, bound int64) {
	if !t.enabled {
		return
	}
	t.log.Debugf("%s%s prune #%d score=%d <= bound=%d", tracePrefix(child.Level), backChar, child.ID, child.Score, bound)
}

// Deadend logs a branch abandoned because rel has no surviving repair action.
func (t *Tracer) Deadend(s *Solution, rel *Element) {
	if !t.enabled {
		return
	}
	t.log.Debugf("%s%s deadend #%d: %s", tracePrefix(s.Level), failChar, s.ID, rel)
}

// Finish logs a solution reaching the Finished state.
func (t *Tracer) Finish(s *Solution) {
	if !t.enabled {
		return
	}
	t.log.Debugf("%s%s finished #%d score=%d", tracePrefix(s.Level), successChar, s.ID, s.Score)
}
