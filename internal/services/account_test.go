package services

import (
	"context"
	"errors"
	"testing"

	"exptrk/internal/core"
)

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.register(t, "alice", "secret")

	_, err := env.accounts.Register(ctx, "alice", "other")
	if !errors.Is(err, core.ErrDuplicateUsername) {
		t.Fatalf("second register: got %v, want ErrDuplicateUsername", err)
	}

	// Store ends with exactly one alice, the first one.
	u, err := env.accounts.Login(ctx, "alice", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.ID != first.ID {
		t.Errorf("login identity = %d, want %d", u.ID, first.ID)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered := env.register(t, "alice", "secret")

	loggedIn, err := env.accounts.Login(ctx, "alice", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loggedIn.ID != registered.ID || loggedIn.Username != "alice" {
		t.Errorf("login returned %+v, registered %+v", loggedIn, registered)
	}

	if _, err := env.accounts.Login(ctx, "alice", "wrong"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	// Unknown user and wrong password are indistinguishable.
	_, err := env.accounts.Login(context.Background(), "nobody", "whatever")
	if !errors.Is(err, core.ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.accounts.Register(ctx, "", "secret"); !errors.Is(err, core.ErrEmptyUsername) {
		t.Errorf("empty username: got %v", err)
	}
	if _, err := env.accounts.Register(ctx, "alice", ""); !errors.Is(err, core.ErrEmptyPassword) {
		t.Errorf("empty password: got %v", err)
	}
	if _, err := env.accounts.Login(ctx, "", ""); !core.IsValidationError(err) {
		t.Errorf("empty login fields: got %v", err)
	}
}

func TestPasswordsAreNotStoredPlaintext(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "secret")

	_, hash, err := env.repo.GetUserByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if hash == "secret" {
		t.Fatal("credential stored in plaintext")
	}
	if len(hash) < 20 {
		t.Errorf("stored credential does not look like a bcrypt hash: %q", hash)
	}
}
