package services

import (
	"context"
	"errors"
	"testing"

	"exptrk/internal/core"
)

func TestSetBudgetValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "alice", "pw")

	if _, err := env.budgets.SetBudget(ctx, u.ID, "", "100"); !errors.Is(err, core.ErrEmptyCategory) {
		t.Errorf("empty category: got %v", err)
	}
	if _, err := env.budgets.SetBudget(ctx, u.ID, "Food", ""); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("missing amount: got %v", err)
	}
	if _, err := env.budgets.SetBudget(ctx, u.ID, "Food", "-10"); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("negative ceiling: got %v", err)
	}
	if _, err := env.budgets.SetBudget(ctx, u.ID, "Yachts", "100"); !errors.Is(err, core.ErrUnknownCategory) {
		t.Errorf("unknown category: got %v", err)
	}
}

func TestSetBudgetReplacesPriorCeiling(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "alice", "pw")

	if _, err := env.budgets.SetBudget(ctx, u.ID, "Food", "100"); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if _, err := env.budgets.SetBudget(ctx, u.ID, "Food", "250.50"); err != nil {
		t.Fatalf("second set: %v", err)
	}

	status, err := env.budgets.CheckBudget(ctx, u.ID, "Food")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if status.Ceiling == nil || status.Ceiling.Cents != 25050 {
		t.Errorf("ceiling = %+v, want 250.50 (latest value wins)", status.Ceiling)
	}
}

func TestCheckBudgetWithoutCeiling(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "alice", "pw")

	if _, _, err := env.ledger.AddExpense(ctx, u.ID, "Food", "", "42.00"); err != nil {
		t.Fatalf("add: %v", err)
	}

	status, err := env.budgets.CheckBudget(ctx, u.ID, "Food")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if status.Ceiling != nil {
		t.Errorf("no ceiling configured, got %+v", status.Ceiling)
	}
	if status.Exceeded {
		t.Error("exceeded must be false without a ceiling")
	}
	if status.Spent.Cents != 4200 {
		t.Errorf("spent = %d, want 4200", status.Spent.Cents)
	}
}

func TestCheckBudgetExactCeilingIsNotExceeded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "alice", "pw")

	if _, err := env.budgets.SetBudget(ctx, u.ID, "Food", "100"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, _, err := env.ledger.AddExpense(ctx, u.ID, "Food", "", "100"); err != nil {
		t.Fatalf("add: %v", err)
	}

	status, err := env.budgets.CheckBudget(ctx, u.ID, "Food")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	// Exceeded only when spent is strictly greater than the ceiling.
	if status.Exceeded {
		t.Error("spent == ceiling should not be exceeded")
	}
}

func TestBudgetsAreScopedPerUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "pw")
	bob := env.register(t, "bob", "pw")

	if _, err := env.budgets.SetBudget(ctx, alice.ID, "Food", "50"); err != nil {
		t.Fatalf("set: %v", err)
	}

	status, err := env.budgets.CheckBudget(ctx, bob.ID, "Food")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if status.Ceiling != nil {
		t.Errorf("bob inherited alice's ceiling: %+v", status.Ceiling)
	}
}
