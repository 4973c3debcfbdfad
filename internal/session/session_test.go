package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	token := NewToken()

	if _, err := store.Get(ctx, token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	want := Session{UserID: 3, Username: "joao", Role: "user", CreatedAt: time.Now()}
	if err := store.Set(ctx, token, want); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := store.Get(ctx, token)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.UserID != want.UserID || got.Username != want.Username || got.Role != want.Role {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	if err := store.Clear(ctx, token); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, err := store.Get(ctx, token); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after clear, got %v", err)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	current := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	_ = store.Set(ctx, "a", Session{UserID: 1})
	_ = store.Set(ctx, "b", Session{UserID: 2})

	current = current.Add(30 * time.Second)
	if _, err := store.Get(ctx, "a"); err != nil {
		t.Fatalf("expected session to be alive, got %v", err)
	}

	current = current.Add(time.Minute)
	if _, err := store.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected expired session, got %v", err)
	}

	store.Sweep()
	if len(store.sessions) != 0 {
		t.Errorf("expected sweep to drop expired sessions, %d left", len(store.sessions))
	}
}

func TestNewToken_Unique(t *testing.T) {
	seen := map[string]bool{}
	for range 100 {
		tok := NewToken()
		if seen[tok] {
			t.Fatalf("duplicate token %s", tok)
		}
		seen[tok] = true
	}
}
