package auth

import (
	"context"
	"testing"
)

func TestUserIDFromContext_Anonymous(t *testing.T) {
	t.Parallel()

	id, ok := UserIDFromContext(context.Background())
	if ok {
		t.Error("expected anonymous context to carry no identity")
	}
	if id != 0 {
		t.Errorf("expected zero ID for anonymous, got %d", id)
	}
}

func TestUserIDFromContext_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := ContextWithUserID(context.Background(), 42)

	id, ok := UserIDFromContext(ctx)
	if !ok {
		t.Fatal("expected identity to be present")
	}
	if id != 42 {
		t.Errorf("expected ID 42, got %d", id)
	}
}
