package services

import (
	"context"
	"errors"
	"testing"

	"exptrk/internal/core"
)

func TestAddExpenseEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// register bob -> login -> add Rent 1200.00 -> list -> summarize.
	env.register(t, "bob", "pw1")
	bob, err := env.accounts.Login(ctx, "bob", "pw1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	saved, status, err := env.ledger.AddExpense(ctx, bob.ID, "Rent", "May", "1200.00")
	if err != nil {
		t.Fatalf("add expense: %v", err)
	}
	if saved.ID == 0 {
		t.Error("expected non-zero expense id")
	}
	if status == nil || status.Exceeded {
		t.Errorf("no budget set, advisory should exist and not be exceeded: %+v", status)
	}

	list, err := env.ledger.ListExpenses(ctx, bob.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d rows, want 1", len(list))
	}
	row := list[0]
	if row.Category != "Rent" || row.Description != "May" || row.Amount.String() != "1200.00" {
		t.Errorf("unexpected row: %+v", row)
	}
	if row.Date.String() != core.Today().String() {
		t.Errorf("date = %s, want today (%s)", row.Date, core.Today())
	}

	totals, err := env.reports.SummarizeByCategory(ctx, bob.ID)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(totals) != 1 || totals["Rent"].Cents != 120000 {
		t.Errorf("summary = %v, want {Rent: 1200.00}", totals)
	}
}

func TestAddExpenseValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "alice", "pw")

	tests := []struct {
		name     string
		category string
		amount   string
		wantErr  error
	}{
		{name: "negative amount", category: "Food", amount: "-5", wantErr: core.ErrInvalidAmount},
		{name: "zero amount", category: "Food", amount: "0", wantErr: core.ErrInvalidAmount},
		{name: "missing amount", category: "Food", amount: "", wantErr: core.ErrInvalidAmount},
		{name: "empty category", category: "", amount: "5.00", wantErr: core.ErrEmptyCategory},
		{name: "unknown category", category: "Yachts", amount: "5.00", wantErr: core.ErrUnknownCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := env.ledger.AddExpense(ctx, u.ID, tt.category, "", tt.amount)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Nothing was recorded.
	list, err := env.ledger.ListExpenses(ctx, u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("rejected expenses were recorded: %d rows", len(list))
	}
}

func TestBudgetExceededAdvisory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "alice", "pw")

	if _, err := env.budgets.SetBudget(ctx, u.ID, "Food", "100"); err != nil {
		t.Fatalf("set budget: %v", err)
	}

	// 80 against a 100 ceiling: not exceeded.
	_, status, err := env.ledger.AddExpense(ctx, u.ID, "Food", "groceries", "80")
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	if status == nil || status.Exceeded {
		t.Fatalf("first insert should not exceed: %+v", status)
	}
	if status.Ceiling == nil || status.Ceiling.Cents != 10000 {
		t.Errorf("ceiling = %+v, want 100.00", status.Ceiling)
	}
	if len(env.alerts.alerts) != 0 {
		t.Fatalf("no alert expected yet, got %d", len(env.alerts.alerts))
	}

	// +30 pushes the running total to 110: exceeded, expense still recorded.
	saved, status, err := env.ledger.AddExpense(ctx, u.ID, "Food", "takeout", "30")
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if status == nil || !status.Exceeded {
		t.Fatalf("second insert should exceed: %+v", status)
	}
	if status.Spent.Cents != 11000 {
		t.Errorf("spent = %d, want 11000", status.Spent.Cents)
	}
	if saved.ID == 0 {
		t.Error("exceeding the ceiling must not block the write")
	}

	if len(env.alerts.alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(env.alerts.alerts))
	}
	alert := env.alerts.alerts[0]
	if alert.UserID != u.ID || alert.Category != "Food" || alert.SpentCents != 11000 || alert.CeilingCents != 10000 {
		t.Errorf("unexpected alert: %+v", alert)
	}
}

func TestAddExpenseWithoutPublisher(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "alice", "pw")

	// No broker configured: the advisory still works, nothing panics.
	ledger := NewLedgerService(env.repo, env.budgets, nil)
	if _, err := env.budgets.SetBudget(ctx, u.ID, "Food", "10"); err != nil {
		t.Fatalf("set budget: %v", err)
	}
	_, status, err := ledger.AddExpense(ctx, u.ID, "Food", "", "25")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if status == nil || !status.Exceeded {
		t.Errorf("expected exceeded advisory, got %+v", status)
	}
}

func TestDeleteExpense(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "alice", "pw")

	first, _, err := env.ledger.AddExpense(ctx, u.ID, "Food", "", "10.00")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, _, err := env.ledger.AddExpense(ctx, u.ID, "Food", "", "20.00"); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := env.ledger.DeleteExpense(ctx, u.ID, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// Deleting removes exactly its amount from the category total.
	totals, err := env.reports.SummarizeByCategory(ctx, u.ID)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if totals["Food"].Cents != 2000 {
		t.Errorf("Food total = %d, want 2000", totals["Food"].Cents)
	}

	if err := env.ledger.DeleteExpense(ctx, u.ID, first.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("deleting a missing row: got %v, want ErrNotFound", err)
	}
	if err := env.ledger.DeleteExpense(ctx, u.ID, 424242); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("deleting an unknown id: got %v, want ErrNotFound", err)
	}
}

func TestListExpensesFreshUser(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "fresh", "pw")

	list, err := env.ledger.ListExpenses(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("fresh user should get an empty sequence, got %#v", list)
	}
}
