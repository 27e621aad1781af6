package store

import (
	"context"
	"testing"

	"github.com/dukerupert/basket/internal/database"
)

func setupUserTestDB(t *testing.T) *UserStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db)
}

// createTestUser inserts a user with a placeholder hash.
func createTestUser(t *testing.T, us *UserStore, email string) string {
	t.Helper()
	u, err := us.Create(context.Background(), email, "hash")
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u.ID
}

func TestUserCreate(t *testing.T) {
	us := setupUserTestDB(t)

	u, err := us.Create(context.Background(), "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", u.Email, "alice@example.com")
	}
	if u.ID == "" {
		t.Error("expected non-empty ID")
	}
	if u.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	us := setupUserTestDB(t)
	ctx := context.Background()

	if _, err := us.Create(ctx, "alice@example.com", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create(ctx, "ALICE@example.com", "hash"); err == nil {
		t.Fatal("expected error for duplicate email, got nil")
	}
}

func TestUserGetByEmail(t *testing.T) {
	us := setupUserTestDB(t)
	ctx := context.Background()
	id := createTestUser(t, us, "alice@example.com")

	u, err := us.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u == nil || u.ID != id {
		t.Fatalf("got %+v, want user %s", u, id)
	}

	missing, err := us.GetByEmail(ctx, "bob@example.com")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown email, got %+v", missing)
	}
}

func TestUserGetCredentials(t *testing.T) {
	us := setupUserTestDB(t)
	ctx := context.Background()

	if _, err := us.Create(ctx, "alice@example.com", "secret-hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	u, hash, err := us.GetCredentials(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("get credentials: %v", err)
	}
	if u == nil {
		t.Fatal("expected user")
	}
	if hash != "secret-hash" {
		t.Errorf("hash = %q, want %q", hash, "secret-hash")
	}

	u, hash, err = us.GetCredentials(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("get credentials: %v", err)
	}
	if u != nil || hash != "" {
		t.Errorf("expected no credentials, got %+v %q", u, hash)
	}
}

func TestUserGetByIDNotFound(t *testing.T) {
	us := setupUserTestDB(t)

	u, err := us.GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if u != nil {
		t.Errorf("expected nil, got %+v", u)
	}
}

