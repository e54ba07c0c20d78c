package memory

import (
	"context"
	"testing"
	"time"

	"sparkmart-ai-be/pkg/store"
)

func TestSessionRoundTrip(t *testing.T) {
	repo := NewSessionRepository(time.Hour)
	ctx := context.Background()

	err := repo.Save(ctx, &store.Session{
		ID:        "sess-1",
		LastQuery: "winter jackets",
		LastRoute: "recommendation",
		Candidates: []store.Product{
			{Name: "Thermal Jacket", Category: "Clothing", Price: "14.99"},
		},
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := repo.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("session not found after Save")
	}
	if got.LastQuery != "winter jackets" || len(got.Candidates) != 1 {
		t.Errorf("session = %+v", got)
	}
}

func TestSessionMiss(t *testing.T) {
	repo := NewSessionRepository(time.Hour)

	got, err := repo.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Error("expected miss for unknown session")
	}
}

func TestSessionDelete(t *testing.T) {
	repo := NewSessionRepository(time.Hour)
	ctx := context.Background()

	repo.Save(ctx, &store.Session{ID: "sess-1"})
	if err := repo.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if got, _ := repo.Get(ctx, "sess-1"); got != nil {
		t.Error("session still present after Delete")
	}
}

func TestSessionExpiry(t *testing.T) {
	repo := NewSessionRepository(10 * time.Millisecond)
	ctx := context.Background()

	repo.Save(ctx, &store.Session{ID: "sess-1"})
	time.Sleep(30 * time.Millisecond)

	if got, _ := repo.Get(ctx, "sess-1"); got != nil {
		t.Error("session should have expired")
	}
}
