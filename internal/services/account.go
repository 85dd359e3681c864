// Package services implements the application's operations over the
// repository: accounts, the expense ledger, budgets, and reporting.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"exptrk/internal/core"
	"exptrk/internal/storage"
)

// AccountService registers and authenticates users. Credentials are stored
// as bcrypt hashes, never plaintext.
type AccountService struct {
	repo       *storage.Repository
	bcryptCost int
}

func NewAccountService(repo *storage.Repository, bcryptCost int) *AccountService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{repo: repo, bcryptCost: bcryptCost}
}

// Register creates a new user. A taken username reports
// core.ErrDuplicateUsername; missing fields report validation errors.
func (s *AccountService) Register(ctx context.Context, username, password string) (core.User, error) {
	if err := core.ValidateCredentials(username, password); err != nil {
		return core.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, username, string(hash))
	if err != nil {
		return core.User{}, err
	}

	return user, nil
}

// Login authenticates a user. Unknown usernames and wrong passwords both
// report core.ErrInvalidCredentials so usernames cannot be enumerated. On
// success the user's ledger is provisioned.
func (s *AccountService) Login(ctx context.Context, username, password string) (core.User, error) {
	if err := core.ValidateCredentials(username, password); err != nil {
		return core.User{}, err
	}

	user, hash, err := s.repo.GetUserByUsername(ctx, username)
	if errors.Is(err, core.ErrNotFound) {
		return core.User{}, core.ErrInvalidCredentials
	}
	if err != nil {
		return core.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return core.User{}, core.ErrInvalidCredentials
	}

	if err := s.repo.EnsureLedger(ctx, user.ID); err != nil {
		return core.User{}, fmt.Errorf("provision ledger: %w", err)
	}

	slog.InfoContext(ctx, "User logged in", "id", user.ID, "username", user.Username)

	return user, nil
}
