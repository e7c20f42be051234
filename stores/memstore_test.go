package stores

import (
	"context"
	"errors"
	"testing"

	"github.com/admitted/authkit"
)

func seedAccount(t *testing.T, s *MemStore, id, email string) {
	t.Helper()
	secret := "hash"
	err := s.CreateAccount(context.Background(),
		&authkit.Account{ID: id, Email: email, DisplayName: "Someone"},
		&authkit.AuthMethod{ID: id + "-m", AccountID: id, Kind: authkit.MethodLocal, ExternalID: email, Secret: &secret},
	)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
}

func TestMemStoreCreateAndLookup(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	seedAccount(t, s, "a1", "alice@example.com")

	account, err := s.AccountByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if account.ID != "a1" {
		t.Errorf("got id %q, want a1", account.ID)
	}
	if account.CreatedAt.IsZero() || account.UpdatedAt.IsZero() {
		t.Error("timestamps not set on create")
	}

	method, err := s.AuthMethodByExternalID(ctx, authkit.MethodLocal, "alice@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if method.AccountID != "a1" {
		t.Errorf("got account id %q, want a1", method.AccountID)
	}

	if _, err := s.AccountByEmail(ctx, "nobody@example.com"); !errors.Is(err, authkit.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if _, err := s.AccountByID(ctx, "missing"); !errors.Is(err, authkit.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestMemStoreConflicts(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	seedAccount(t, s, "a1", "alice@example.com")

	// Duplicate email
	err := s.CreateAccount(ctx,
		&authkit.Account{ID: "a2", Email: "alice@example.com", DisplayName: "Clone"},
		&authkit.AuthMethod{ID: "a2-m", AccountID: "a2", Kind: authkit.MethodLocal, ExternalID: "alice@example.com"},
	)
	if !errors.Is(err, authkit.ErrConflict) {
		t.Errorf("duplicate email: got %v, want ErrConflict", err)
	}
	if _, err := s.AccountByID(ctx, "a2"); !errors.Is(err, authkit.ErrNotFound) {
		t.Error("rejected create left a partial account behind")
	}

	// Duplicate (kind, external id)
	if err := s.AddAuthMethod(ctx, &authkit.AuthMethod{
		ID: "m2", AccountID: "a1", Kind: authkit.MethodLocal, ExternalID: "alice@example.com",
	}); !errors.Is(err, authkit.ErrConflict) {
		t.Errorf("duplicate method: got %v, want ErrConflict", err)
	}

	// Same external id under a different kind is fine
	if err := s.AddAuthMethod(ctx, &authkit.AuthMethod{
		ID: "m3", AccountID: "a1", Kind: authkit.MethodGoogle, ExternalID: "alice@example.com",
	}); err != nil {
		t.Errorf("distinct kind rejected: %v", err)
	}
}

func TestMemStoreCopies(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	seedAccount(t, s, "a1", "alice@example.com")

	account, _ := s.AccountByID(ctx, "a1")
	account.DisplayName = "Mutated"

	again, _ := s.AccountByID(ctx, "a1")
	if again.DisplayName != "Someone" {
		t.Error("mutation of a returned account leaked into the store")
	}
}

func TestMemStoreUpdateProfile(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	seedAccount(t, s, "a1", "alice@example.com")

	bio := "hi"
	account, err := s.UpdateProfile(ctx, "a1", &authkit.ProfilePatch{Bio: &bio})
	if err != nil {
		t.Fatal(err)
	}
	if account.Bio == nil || *account.Bio != "hi" {
		t.Errorf("bio not applied: %+v", account.Bio)
	}
	if account.DisplayName != "Someone" {
		t.Error("unrelated field changed")
	}

	if _, err := s.UpdateProfile(ctx, "missing", &authkit.ProfilePatch{Bio: &bio}); !errors.Is(err, authkit.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
