package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/coinboard/coinboard/internal/model"
	"github.com/coinboard/coinboard/internal/testutil"
)

func newTestRepository(t *testing.T, ctx context.Context) *Repository {
	t.Helper()

	databaseURL := testutil.RequireEnv(t, "DATABASE_URL")

	if err := Migrate(ctx, databaseURL); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repo, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire lock: %v", err)
	}
	t.Cleanup(func() {
		if err := unlock(); err != nil {
			t.Errorf("release lock: %v", err)
		}
	})

	if err := testutil.TruncateUsers(ctx, repo.Pool()); err != nil {
		t.Fatalf("truncate users: %v", err)
	}

	return repo
}

func newTestUser(suffix string) *model.User {
	return &model.User{
		Username:     "alice" + suffix,
		Email:        fmt.Sprintf("alice%s@example.com", suffix),
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestRepository_CreateAndGetUser(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	user := newTestUser("")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected assigned ID after create")
	}

	byID, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user by ID: %v", err)
	}
	if byID.Username != user.Username || byID.Email != user.Email {
		t.Fatalf("user mismatch: got %+v want %+v", byID, user)
	}
	if byID.PasswordHash != user.PasswordHash {
		t.Fatal("password hash not round-tripped")
	}

	byName, err := repo.GetUserByUsername(ctx, user.Username)
	if err != nil {
		t.Fatalf("get user by username: %v", err)
	}
	if byName.ID != user.ID {
		t.Fatalf("expected ID %d, got %d", user.ID, byName.ID)
	}
}

func TestRepository_GetUser_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	if _, err := repo.GetUserByUsername(ctx, "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.GetUserByID(ctx, 424242); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRepository_UsernameIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	user := newTestUser("")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := repo.GetUserByUsername(ctx, "ALICE"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected exact-match lookup to miss, got %v", err)
	}
}

func TestRepository_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	user := newTestUser("")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	dup := newTestUser("")
	dup.Email = "other@example.com"
	if err := repo.CreateUser(ctx, dup); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	user := newTestUser("")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	dup := newTestUser("")
	dup.Username = "bob"
	if err := repo.CreateUser(ctx, dup); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

// Two racing inserts with the same username must resolve atomically in the
// store: exactly one wins, the other sees the typed duplicate error.
func TestRepository_ConcurrentRegistration(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	const racers = 2
	errs := make([]error, racers)

	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := newTestUser("")
			u.Email = fmt.Sprintf("racer%d@example.com", i)
			errs[i] = repo.CreateUser(ctx, u)
		}(i)
	}
	wg.Wait()

	var created, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, ErrUsernameTaken):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if created != 1 || conflicts != racers-1 {
		t.Fatalf("expected exactly one insert to win, got %d created / %d conflicts", created, conflicts)
	}
}
