package internal

import (
	"errors"
	"net/http"
	"slices"
	"testing"
)

// traceMW returns a middleware that records its entry and exit in trace.
func traceMW(trace *[]string, name string) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(c Context) error {
			*trace = append(*trace, name+":in")
			err := next(c)
			*trace = append(*trace, name+":out")
			return err
		}
	}
}

func namesOf(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestComposeEmpty(t *testing.T) {
	calls := 0
	terminal := func(c Context) error {
		calls++
		return nil
	}

	h := Compose(nil, terminal)
	if err := h(nil); err != nil {
		t.Fatalf("Compose(nil)() error: %v", err)
	}
	if calls != 1 {
		t.Errorf("terminal calls = %d, want 1", calls)
	}
}

func TestComposeOrdering(t *testing.T) {
	t.Run("stages wrap outside-in", func(t *testing.T) {
		var trace []string
		terminal := func(c Context) error {
			trace = append(trace, "terminal")
			return nil
		}

		// Registered deliberately out of execution order.
		entries := []Entry{
			NewEntry(StageAuth, traceMW(&trace, "auth")),
			NewEntry(StageErrors, traceMW(&trace, "errors")),
			NewEntry(StageLogging, traceMW(&trace, "logging")),
			NewEntry(StageSecurity, traceMW(&trace, "security")),
		}

		if err := Compose(entries, terminal)(nil); err != nil {
			t.Fatalf("composed handler error: %v", err)
		}

		want := []string{
			"errors:in", "security:in", "logging:in", "auth:in",
			"terminal",
			"auth:out", "logging:out", "security:out", "errors:out",
		}
		if !slices.Equal(trace, want) {
			t.Errorf("trace = %v, want %v", trace, want)
		}
	})

	t.Run("stage beats priority", func(t *testing.T) {
		var trace []string
		terminal := func(c Context) error { return nil }

		entries := []Entry{
			NewEntry(StageAuth, traceMW(&trace, "auth"), WithEntryPriority(1)),
			NewEntry(StageSecurity, traceMW(&trace, "security"), WithEntryPriority(999)),
		}

		if err := Compose(entries, terminal)(nil); err != nil {
			t.Fatalf("composed handler error: %v", err)
		}

		want := []string{"security:in", "auth:in", "auth:out", "security:out"}
		if !slices.Equal(trace, want) {
			t.Errorf("trace = %v, want %v", trace, want)
		}
	})

	t.Run("registration order breaks ties", func(t *testing.T) {
		var trace []string
		terminal := func(c Context) error { return nil }

		entries := []Entry{
			NewEntry(StageApplication, traceMW(&trace, "first")),
			NewEntry(StageApplication, traceMW(&trace, "second")),
			NewEntry(StageApplication, traceMW(&trace, "third")),
		}

		if err := Compose(entries, terminal)(nil); err != nil {
			t.Fatalf("composed handler error: %v", err)
		}

		want := []string{
			"first:in", "second:in", "third:in",
			"third:out", "second:out", "first:out",
		}
		if !slices.Equal(trace, want) {
			t.Errorf("trace = %v, want %v", trace, want)
		}
	})
}

func TestComposeShortCircuit(t *testing.T) {
	var trace []string
	terminal := func(c Context) error {
		trace = append(trace, "terminal")
		return nil
	}

	deny := func(next HandlerFunc) HandlerFunc {
		return func(c Context) error {
			trace = append(trace, "deny")
			return errors.New("blocked")
		}
	}

	entries := []Entry{
		NewEntry(StageSecurity, traceMW(&trace, "outer")),
		NewEntry(StageAuth, deny),
		NewEntry(StageApplication, traceMW(&trace, "inner")),
	}

	err := Compose(entries, terminal)(nil)
	if err == nil || err.Error() != "blocked" {
		t.Fatalf("composed handler error = %v, want blocked", err)
	}

	want := []string{"outer:in", "deny", "outer:out"}
	if !slices.Equal(trace, want) {
		t.Errorf("trace = %v, want %v", trace, want)
	}
}

func TestComposeDuplicateEntries(t *testing.T) {
	var trace []string
	terminal := func(c Context) error { return nil }

	e := NewEntry(StageApplication, traceMW(&trace, "dup"))
	if err := Compose([]Entry{e, e}, terminal)(nil); err != nil {
		t.Fatalf("composed handler error: %v", err)
	}

	want := []string{"dup:in", "dup:in", "dup:out", "dup:out"}
	if !slices.Equal(trace, want) {
		t.Errorf("trace = %v, want %v", trace, want)
	}
}

func TestComposeNilWrapper(t *testing.T) {
	terminalCalled := false
	terminal := func(c Context) error {
		terminalCalled = true
		return nil
	}

	entries := []Entry{
		{Name: "broken", Stage: StageAuth, Priority: PriorityDefault},
	}

	// Composition itself must not fail; the error surfaces at invocation.
	h := Compose(entries, terminal)

	err := h(nil)
	if err == nil {
		t.Fatal("expected error from nil wrapper, got nil")
	}
	httpErr := AsHTTPError(err)
	if httpErr == nil {
		t.Fatalf("error type = %T, want *HTTPError", err)
	}
	if httpErr.Code != http.StatusInternalServerError {
		t.Errorf("Code = %d, want %d", httpErr.Code, http.StatusInternalServerError)
	}
	if terminalCalled {
		t.Error("terminal ran despite broken chain")
	}
}

func TestStackSorted(t *testing.T) {
	s := NewStack()
	s.Use(StageAuth, nopMiddleware(), WithEntryName("auth"))
	s.Use(StageErrors, nopMiddleware(), WithEntryName("errors"))
	s.Use(StageSecurity, nopMiddleware(), WithEntryName("sec-late"), WithEntryPriority(PriorityLate))
	s.Use(StageSecurity, nopMiddleware(), WithEntryName("sec-early"), WithEntryPriority(PriorityEarly))

	got := namesOf(s.Sorted())
	want := []string{"errors", "sec-early", "sec-late", "auth"}
	if !slices.Equal(got, want) {
		t.Errorf("Sorted() = %v, want %v", got, want)
	}

	// Insertion order is preserved by Entries.
	got = namesOf(s.Entries())
	want = []string{"auth", "errors", "sec-late", "sec-early"}
	if !slices.Equal(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
}

func TestStackForStage(t *testing.T) {
	s := NewStack()
	s.Use(StageAuth, nopMiddleware(), WithEntryName("csrf"))
	s.Use(StageSecurity, nopMiddleware(), WithEntryName("cors"))
	s.Before(StageAuth, nopMiddleware(), WithEntryName("rate-limit"))

	got := namesOf(s.ForStage(StageAuth))
	want := []string{"rate-limit", "csrf"}
	if !slices.Equal(got, want) {
		t.Errorf("ForStage(StageAuth) = %v, want %v", got, want)
	}

	if got := s.ForStage(StageAssets); len(got) != 0 {
		t.Errorf("ForStage(StageAssets) = %v, want empty", got)
	}
}

func TestStackBeforeAfter(t *testing.T) {
	var trace []string
	terminal := func(c Context) error { return nil }

	s := NewStack()
	s.Use(StageAuth, traceMW(&trace, "builtin"))
	s.After(StageAuth, traceMW(&trace, "after"))
	s.Before(StageAuth, traceMW(&trace, "before"))

	if err := s.Build(terminal)(nil); err != nil {
		t.Fatalf("built handler error: %v", err)
	}

	want := []string{
		"before:in", "builtin:in", "after:in",
		"after:out", "builtin:out", "before:out",
	}
	if !slices.Equal(trace, want) {
		t.Errorf("trace = %v, want %v", trace, want)
	}
}

func TestStackFreezesOnBuild(t *testing.T) {
	s := NewStack()
	s.Use(StageApplication, nopMiddleware())
	s.Build(func(c Context) error { return nil })

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Add after Build did not panic")
		}
		msg, ok := r.(string)
		if !ok || msg != "intake: middleware registered after pipeline build" {
			t.Errorf("panic = %v, want freeze message", r)
		}
	}()
	s.Use(StageApplication, nopMiddleware())
}

func TestStackClear(t *testing.T) {
	s := NewStack()
	s.Use(StageApplication, nopMiddleware())
	s.Build(func(c Context) error { return nil })

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", s.Len())
	}

	// Registration and a second Build work again after Clear.
	s.Use(StageApplication, nopMiddleware())
	if err := s.Build(func(c Context) error { return nil })(nil); err != nil {
		t.Fatalf("rebuilt handler error: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStackAsMiddleware(t *testing.T) {
	var trace []string

	s := NewStack()
	s.Use(StageSecurity, traceMW(&trace, "sec"))
	s.Use(StageApplication, traceMW(&trace, "app"))

	mw := s.AsMiddleware()
	h := mw(func(c Context) error {
		trace = append(trace, "terminal")
		return nil
	})

	if err := h(nil); err != nil {
		t.Fatalf("wrapped handler error: %v", err)
	}

	want := []string{"sec:in", "app:in", "terminal", "app:out", "sec:out"}
	if !slices.Equal(trace, want) {
		t.Errorf("trace = %v, want %v", trace, want)
	}

	// AsMiddleware freezes the stack just like Build.
	defer func() {
		if recover() == nil {
			t.Fatal("Add after AsMiddleware did not panic")
		}
	}()
	s.Use(StageApplication, nopMiddleware())
}

func nopMiddleware() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return next
	}
}
