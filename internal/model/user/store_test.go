package user_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/aseed/a-seed/backend/internal/model/user"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	store, err := user.NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore err: %v", err)
	}

	created, err := store.Register("alice", "Alice", "s3cret")
	if err != nil {
		t.Fatalf("Register err: %v", err)
	}
	if created.ID != "alice" || created.DisplayName != "Alice" {
		t.Fatalf("unexpected user: %+v", created)
	}

	if _, ok := store.Authenticate("alice", "s3cret"); !ok {
		t.Fatal("expected correct password to authenticate")
	}
	if _, ok := store.Authenticate("alice", "wrong"); ok {
		t.Fatal("expected wrong password to fail")
	}
	if _, ok := store.Authenticate("bob", "s3cret"); ok {
		t.Fatal("expected unknown user to fail")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	store, err := user.NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore err: %v", err)
	}

	if _, err := store.Register("alice", "Alice", "pw"); err != nil {
		t.Fatalf("Register err: %v", err)
	}
	if _, err := store.Register("alice", "Other", "pw2"); !errors.Is(err, user.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}

func TestAccountsSurviveReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	store, err := user.NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore err: %v", err)
	}
	if _, err := store.Register("alice", "Alice", "s3cret"); err != nil {
		t.Fatalf("Register err: %v", err)
	}

	reloaded, err := user.NewFileStore(path)
	if err != nil {
		t.Fatalf("reload err: %v", err)
	}
	got, ok := reloaded.Authenticate("alice", "s3cret")
	if !ok {
		t.Fatal("expected reloaded store to authenticate")
	}
	if got.DisplayName != "Alice" {
		t.Fatalf("display name lost across reload: %+v", got)
	}
}
