package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestSession(id, token string) *Session {
	return New(id, token, time.Now().Add(time.Hour))
}

func TestMemoryStore_CreateGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	sess := newTestSession("id-1", "tok-1")
	sess.SetValue("theme", "dark")
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	got, err := store.Get(ctx, "tok-1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.ID != "id-1" {
		t.Errorf("ID = %q, want %q", got.ID, "id-1")
	}
	if v, _ := got.GetValue("theme"); v != "dark" {
		t.Errorf("theme = %v, want dark", v)
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	sess := newTestSession("id-1", "tok-1")
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	first, _ := store.Get(ctx, "tok-1")
	first.SetValue("mutated", true)

	second, _ := store.Get(ctx, "tok-1")
	if _, ok := second.GetValue("mutated"); ok {
		t.Error("mutation of a returned session leaked into the store")
	}
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemory()

	_, err := store.Get(context.Background(), "no-such-token")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_GetExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	sess := New("id-1", "tok-1", time.Now().Add(-time.Minute))
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	_, err := store.Get(ctx, "tok-1")
	if !errors.Is(err, ErrExpired) {
		t.Errorf("Get() error = %v, want ErrExpired", err)
	}
}

func TestMemoryStore_UpdateRotatesToken(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	sess := newTestSession("id-1", "tok-old")
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	sess.Token = "tok-new"
	if err := store.Update(ctx, sess); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	if _, err := store.Get(ctx, "tok-old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(old token) error = %v, want ErrNotFound", err)
	}

	got, err := store.Get(ctx, "tok-new")
	if err != nil {
		t.Fatalf("Get(new token) error: %v", err)
	}
	if got.ID != "id-1" {
		t.Errorf("ID = %q, want %q", got.ID, "id-1")
	}
}

func TestMemoryStore_UpdateMissing(t *testing.T) {
	store := NewMemory()

	err := store.Update(context.Background(), newTestSession("ghost", "tok"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	sess := newTestSession("id-1", "tok-1")
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := store.Delete(ctx, "id-1"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := store.Get(ctx, "tok-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}

	// Deleting a missing session is a no-op.
	if err := store.Delete(ctx, "id-1"); err != nil {
		t.Errorf("Delete() repeat error: %v", err)
	}
}

func TestMemoryStore_DeleteByUserID(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	userID := "user-1"
	for i, token := range []string{"tok-a", "tok-b"} {
		sess := newTestSession("id-"+token, token)
		sess.UserID = &userID
		if err := store.Create(ctx, sess); err != nil {
			t.Fatalf("Create(%d) error: %v", i, err)
		}
	}
	other := newTestSession("id-other", "tok-other")
	otherID := "user-2"
	other.UserID = &otherID
	if err := store.Create(ctx, other); err != nil {
		t.Fatalf("Create(other) error: %v", err)
	}

	if err := store.DeleteByUserID(ctx, userID); err != nil {
		t.Fatalf("DeleteByUserID() error: %v", err)
	}

	if _, err := store.Get(ctx, "tok-a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("user-1 session survived: %v", err)
	}
	if _, err := store.Get(ctx, "tok-other"); err != nil {
		t.Errorf("user-2 session removed: %v", err)
	}
}

func TestMemoryStore_Touch(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	sess := newTestSession("id-1", "tok-1")
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	stamp := time.Now().Add(30 * time.Minute)
	if err := store.Touch(ctx, "id-1", stamp); err != nil {
		t.Fatalf("Touch() error: %v", err)
	}

	got, _ := store.Get(ctx, "tok-1")
	if !got.LastActiveAt.Equal(stamp) {
		t.Errorf("LastActiveAt = %v, want %v", got.LastActiveAt, stamp)
	}

	if err := store.Touch(ctx, "ghost", stamp); !errors.Is(err, ErrNotFound) {
		t.Errorf("Touch(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	expired1 := New("id-1", "tok-1", time.Now().Add(-time.Hour))
	expired2 := New("id-2", "tok-2", time.Now().Add(-time.Minute))
	live := newTestSession("id-3", "tok-3")
	for _, s := range []*Session{expired1, expired2, live} {
		if err := store.Create(ctx, s); err != nil {
			t.Fatalf("Create(%s) error: %v", s.ID, err)
		}
	}

	removed, err := store.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("DeleteExpired() error: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
	if _, err := store.Get(ctx, "tok-3"); err != nil {
		t.Errorf("live session removed: %v", err)
	}
}
