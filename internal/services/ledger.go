package services

import (
	"context"
	"log/slog"

	"exptrk/internal/amqp"
	"exptrk/internal/core"
	"exptrk/internal/storage"
)

// AlertPublisher delivers budget-exceeded advisories to interested
// consumers. *amqp.Client implements it; a nil publisher disables delivery.
type AlertPublisher interface {
	PublishBudgetAlert(ctx context.Context, msg *amqp.BudgetAlertMessage) error
}

// LedgerService records, lists, and deletes a user's expenses.
type LedgerService struct {
	repo    *storage.Repository
	budgets *BudgetService
	alerts  AlertPublisher
}

func NewLedgerService(repo *storage.Repository, budgets *BudgetService, alerts AlertPublisher) *LedgerService {
	return &LedgerService{repo: repo, budgets: budgets, alerts: alerts}
}

// AddExpense validates and records one expense, stamped with today's date at
// the server clock. After a successful insert the category's budget is
// checked; the returned status is an advisory signal, never an error, and
// the expense stays recorded regardless. When the ceiling is exceeded an
// alert is also published to the broker, if one is configured.
func (s *LedgerService) AddExpense(ctx context.Context, userID int64, category, description, amount string) (core.Expense, *core.BudgetStatus, error) {
	parsed, err := core.ParseAmount(amount)
	if err != nil {
		return core.Expense{}, nil, err
	}

	e := core.Expense{
		UserID:      userID,
		Date:        core.Today(),
		Category:    category,
		Description: description,
		Amount:      parsed,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, nil, err
	}
	known, err := s.repo.CategoryExists(ctx, category)
	if err != nil {
		return core.Expense{}, nil, err
	}
	if !known {
		return core.Expense{}, nil, core.ErrUnknownCategory
	}

	saved, err := s.repo.InsertExpense(ctx, e)
	if err != nil {
		return core.Expense{}, nil, err
	}

	status, err := s.budgets.CheckBudget(ctx, userID, category)
	if err != nil {
		// The write already succeeded; a failed advisory check is logged,
		// not surfaced.
		slog.WarnContext(ctx, "Budget check failed after insert",
			"user_id", userID, "category", category, "error", err)
		return saved, nil, nil
	}

	if status.Exceeded {
		s.publishAlert(ctx, status, userID)
	}

	return saved, &status, nil
}

// ListExpenses returns the user's full ledger in insertion order. A fresh
// ledger yields an empty slice.
func (s *LedgerService) ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error) {
	return s.repo.ListExpenses(ctx, userID)
}

// DeleteExpense removes one expense by id, scoped to its owner. Deleting a
// row that never existed reports core.ErrNotFound.
func (s *LedgerService) DeleteExpense(ctx context.Context, userID, expenseID int64) error {
	return s.repo.DeleteExpense(ctx, userID, expenseID)
}

func (s *LedgerService) publishAlert(ctx context.Context, status core.BudgetStatus, userID int64) {
	slog.WarnContext(ctx, "Budget exceeded",
		"user_id", userID,
		"category", status.Category,
		"spent_cents", status.Spent.Cents,
		"ceiling_cents", status.Ceiling.Cents)

	if s.alerts == nil {
		return
	}

	msg := amqp.NewBudgetAlertMessage(userID, status.Category, status.Spent.Cents, status.Ceiling.Cents)
	if err := s.alerts.PublishBudgetAlert(ctx, msg); err != nil {
		// Advisory delivery is best effort.
		slog.ErrorContext(ctx, "Failed to publish budget alert",
			"user_id", userID, "category", status.Category, "error", err)
	}
}
