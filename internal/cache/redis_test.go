package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewWithClient(client), srv
}

func TestDenySession(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	denied, err := c.SessionDenied(ctx, "01HV4QJ2N9")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if denied {
		t.Fatal("fresh session must not be denied")
	}

	if err := c.DenySession(ctx, "01HV4QJ2N9", time.Hour); err != nil {
		t.Fatalf("deny: %v", err)
	}

	denied, err = c.SessionDenied(ctx, "01HV4QJ2N9")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !denied {
		t.Fatal("denied session must report as denied")
	}
}

func TestDenySession_ExpiresWithToken(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestCache(t)

	if err := c.DenySession(ctx, "jti-1", time.Minute); err != nil {
		t.Fatalf("deny: %v", err)
	}

	srv.FastForward(2 * time.Minute)

	denied, err := c.SessionDenied(ctx, "jti-1")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if denied {
		t.Fatal("denylist entry must expire with the token")
	}
}

func TestSessionDenied_IsolatedPerJTI(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	if err := c.DenySession(ctx, "jti-a", time.Hour); err != nil {
		t.Fatalf("deny: %v", err)
	}

	denied, err := c.SessionDenied(ctx, "jti-b")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if denied {
		t.Fatal("denying one session must not affect another")
	}
}
