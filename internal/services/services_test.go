package services

import (
	"context"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"exptrk/internal/amqp"
	"exptrk/internal/core"
	"exptrk/internal/storage"
)

// fakeAlertPublisher records budget alerts instead of talking to a broker.
type fakeAlertPublisher struct {
	alerts []*amqp.BudgetAlertMessage
}

func (f *fakeAlertPublisher) PublishBudgetAlert(_ context.Context, msg *amqp.BudgetAlertMessage) error {
	f.alerts = append(f.alerts, msg)
	return nil
}

type testEnv struct {
	repo     *storage.Repository
	accounts *AccountService
	budgets  *BudgetService
	ledger   *LedgerService
	reports  *ReportService
	alerts   *fakeAlertPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo, err := storage.Open(filepath.Join(t.TempDir(), "exptrk.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	alerts := &fakeAlertPublisher{}
	budgets := NewBudgetService(repo)
	return &testEnv{
		repo:     repo,
		accounts: NewAccountService(repo, bcrypt.MinCost),
		budgets:  budgets,
		ledger:   NewLedgerService(repo, budgets, alerts),
		reports:  NewReportService(repo),
		alerts:   alerts,
	}
}

func (env *testEnv) register(t *testing.T, username, password string) core.User {
	t.Helper()

	u, err := env.accounts.Register(context.Background(), username, password)
	if err != nil {
		t.Fatalf("register %q: %v", username, err)
	}
	return u
}
