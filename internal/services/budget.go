package services

import (
	"context"
	"errors"
	"fmt"

	"exptrk/internal/core"
	"exptrk/internal/storage"
)

// BudgetService stores per-category ceilings and evaluates running totals
// against them.
type BudgetService struct {
	repo *storage.Repository
}

func NewBudgetService(repo *storage.Repository) *BudgetService {
	return &BudgetService{repo: repo}
}

// SetBudget sets the ceiling for one (user, category) pair, replacing any
// prior value.
func (s *BudgetService) SetBudget(ctx context.Context, userID int64, category, amount string) (core.Budget, error) {
	ceiling, err := core.ParseAmount(amount)
	if err != nil {
		return core.Budget{}, err
	}

	b := core.Budget{UserID: userID, Category: category, Ceiling: ceiling}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if err := s.requireKnownCategory(ctx, category); err != nil {
		return core.Budget{}, err
	}

	return s.repo.UpsertBudget(ctx, b)
}

// CheckBudget recomputes the category's running total from the ledger and
// compares it to the configured ceiling, if any. No caching: every call
// reads current data.
func (s *BudgetService) CheckBudget(ctx context.Context, userID int64, category string) (core.BudgetStatus, error) {
	spent, err := s.repo.SumByCategory(ctx, userID, category)
	if err != nil {
		return core.BudgetStatus{}, err
	}

	status := core.BudgetStatus{Category: category, Spent: spent}

	budget, err := s.repo.GetBudget(ctx, userID, category)
	if errors.Is(err, core.ErrNotFound) {
		return status, nil // no ceiling configured
	}
	if err != nil {
		return core.BudgetStatus{}, err
	}

	status.Ceiling = &budget.Ceiling
	status.Exceeded = spent.GreaterThan(budget.Ceiling)
	return status, nil
}

func (s *BudgetService) requireKnownCategory(ctx context.Context, category string) error {
	known, err := s.repo.CategoryExists(ctx, category)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !known {
		return fmt.Errorf("%q: %w", category, core.ErrUnknownCategory)
	}
	return nil
}
