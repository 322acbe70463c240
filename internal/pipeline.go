package internal

import (
	"cmp"
	"fmt"
	"slices"
)

// Priority bands within a stage. Lower runs earlier. Framework built-ins
// register between PriorityEarly and PriorityLate so that plugin entries
// created with Before/After reliably bracket them.
const (
	// PriorityBefore places an entry ahead of default-priority built-ins.
	PriorityBefore = 100

	// PriorityEarly is the lower bound of the built-in band.
	PriorityEarly = 400

	// PriorityDefault is assigned when no explicit priority is given.
	PriorityDefault = 500

	// PriorityLate is the upper bound of the built-in band.
	PriorityLate = 600

	// PriorityAfter places an entry behind default-priority built-ins.
	PriorityAfter = 900
)

// Entry is a single middleware registration: a wrapper tagged with the
// stage and priority that determine its position in the composed chain.
// Entries are created at configuration time and never mutated afterwards.
type Entry struct {
	// Name identifies the entry in diagnostics. Optional.
	Name string

	// Owner identifies the component that registered the entry. Optional.
	Owner string

	// Stage is the coarse position. Priority only disambiguates entries
	// within the same stage.
	Stage Stage

	// Priority orders entries within a stage. Lower runs earlier.
	Priority int

	// Wrap is the middleware function itself.
	Wrap Middleware
}

// EntryOption configures an Entry created by NewEntry, Use, Before, or After.
type EntryOption func(*Entry)

// WithEntryName sets the diagnostic name.
func WithEntryName(name string) EntryOption {
	return func(e *Entry) {
		e.Name = name
	}
}

// WithEntryOwner sets the owning-component identifier.
func WithEntryOwner(owner string) EntryOption {
	return func(e *Entry) {
		e.Owner = owner
	}
}

// WithEntryPriority overrides the default priority.
func WithEntryPriority(priority int) EntryOption {
	return func(e *Entry) {
		e.Priority = priority
	}
}

// NewEntry creates an entry at the given stage with PriorityDefault,
// modified by options.
func NewEntry(stage Stage, mw Middleware, opts ...EntryOption) Entry {
	e := Entry{
		Stage:    stage,
		Priority: PriorityDefault,
		Wrap:     mw,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Stack collects middleware entries during application boot and composes
// them into a single handler chain.
//
// The stack is a configuration-time construct: entries are registered
// while the application is assembled on one goroutine, Build is called
// exactly once, and the composed handler is immutable afterwards. No
// internal locking exists because no concurrent writer exists after boot.
// Clear exists so tests can rebuild a stack.
type Stack struct {
	entries []Entry
	built   bool
}

// NewStack creates an empty middleware stack.
func NewStack() *Stack {
	return &Stack{}
}

// Add registers an entry exactly as constructed by the caller.
// Panics if called after Build; registration is boot-time only.
func (s *Stack) Add(e Entry) {
	if s.built {
		panic("intake: middleware registered after pipeline build")
	}
	s.entries = append(s.entries, e)
}

// Use registers mw at the given stage with PriorityDefault, modified by
// options.
func (s *Stack) Use(stage Stage, mw Middleware, opts ...EntryOption) {
	s.Add(NewEntry(stage, mw, opts...))
}

// Before registers mw ahead of the built-in band of the given stage.
func (s *Stack) Before(stage Stage, mw Middleware, opts ...EntryOption) {
	s.Add(NewEntry(stage, mw, append(opts, WithEntryPriority(PriorityBefore))...))
}

// After registers mw behind the built-in band of the given stage.
func (s *Stack) After(stage Stage, mw Middleware, opts ...EntryOption) {
	s.Add(NewEntry(stage, mw, append(opts, WithEntryPriority(PriorityAfter))...))
}

// Len returns the number of registered entries.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Entries returns a snapshot of the registered entries in insertion order.
func (s *Stack) Entries() []Entry {
	return slices.Clone(s.entries)
}

// Sorted returns the entries ordered by (stage, priority). The sort is
// stable: entries with equal stage and priority keep their registration
// order. The result is computed fresh on every call so it always reflects
// the current registry contents.
func (s *Stack) Sorted() []Entry {
	return sortEntries(s.entries)
}

// ForStage returns the entries registered at the given stage, ordered by
// priority with registration order as the tiebreak.
func (s *Stack) ForStage(stage Stage) []Entry {
	var out []Entry
	for _, e := range s.entries {
		if e.Stage == stage {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b Entry) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
	return out
}

// Clear removes all entries and allows a subsequent Build. Intended for
// test contexts; production stacks are built once and never cleared.
func (s *Stack) Clear() {
	s.entries = nil
	s.built = false
}

// Build composes the registered entries around the terminal handler and
// freezes the stack against further registration. Called once during boot.
func (s *Stack) Build(terminal HandlerFunc) HandlerFunc {
	s.built = true
	return Compose(s.Entries(), terminal)
}

// AsMiddleware freezes the stack and returns a single middleware that
// applies the whole sorted pipeline around whatever handler it wraps.
// The entry snapshot is taken once; the wrapped terminal is supplied by
// the router during setup.
func (s *Stack) AsMiddleware() Middleware {
	s.built = true
	entries := s.Entries()
	return func(next HandlerFunc) HandlerFunc {
		return Compose(entries, next)
	}
}

// Compose sorts entries by (stage, priority) and folds them around the
// terminal handler so that the first entry in sorted order becomes the
// outermost wrapper: it observes the request first and the response last.
//
// Composition is structural only: it performs no I/O and cannot fail. An
// empty entry list composes to the terminal handler unchanged. Duplicate
// entries are not detected; registering the same entry twice wraps the
// chain twice. An entry with a nil Wrap yields a chain that fails with an
// internal error at the first request rather than at composition time.
func Compose(entries []Entry, terminal HandlerFunc) HandlerFunc {
	sorted := sortEntries(entries)

	h := terminal
	for i := len(sorted) - 1; i >= 0; i-- {
		e := sorted[i]
		if e.Wrap == nil {
			name := e.Name
			if name == "" {
				name = fmt.Sprintf("%s/%d", e.Stage, e.Priority)
			}
			err := fmt.Errorf("pipeline: entry %q has no wrapper", name)
			h = func(c Context) error {
				return ErrInternal("middleware not configured", WithError(err))
			}
			continue
		}
		h = e.Wrap(h)
	}
	return h
}

// sortEntries returns a stable-sorted copy ordered by (stage, priority).
func sortEntries(entries []Entry) []Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b Entry) int {
		if c := cmp.Compare(a.Stage, b.Stage); c != 0 {
			return c
		}
		return cmp.Compare(a.Priority, b.Priority)
	})
	return out
}
