// Package storage implements the SQLite persistence layer: schema
// migrations, the expense/budget/user repository, and schema reflection
// for the inspector utility.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"exptrk/internal/core"

	_ "modernc.org/sqlite"
)

// Repository is the single durable store behind every service. All rows are
// partitioned by owning user id; there are no per-user tables.
type Repository struct {
	db *sql.DB
}

// Open prepares the database file, runs pending migrations, and returns a
// ready repository. Foreign key enforcement is enabled on every pooled
// connection via the DSN pragma.
func Open(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

// OpenReadOnly opens the database without running migrations, for
// diagnostic tools that must not mutate the store.
func OpenReadOnly(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping verifies connectivity, used by readiness checks.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

const timeLayout = time.RFC3339

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure on the given column ("table.column").
func isUniqueViolation(err error, column string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+column)
}

// CreateUser inserts a new user row. The password hash is opaque to the
// storage layer. A username collision maps to core.ErrDuplicateUsername.
func (r *Repository) CreateUser(ctx context.Context, username, passwordHash string) (core.User, error) {
	createdAt := time.Now().UTC()

	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?) RETURNING id`,
		username, passwordHash, createdAt.Format(timeLayout),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "users.username") {
			return core.User{}, core.ErrDuplicateUsername
		}
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}

	slog.InfoContext(ctx, "User created", "id", id, "username", username)

	return core.User{ID: id, Username: username, CreatedAt: createdAt}, nil
}

// GetUserByUsername returns the user row and its password hash, or
// core.ErrNotFound when the username is unknown.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (core.User, string, error) {
	var (
		u         core.User
		hash      string
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &hash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, "", core.ErrNotFound
	}
	if err != nil {
		return core.User{}, "", fmt.Errorf("select user: %w", err)
	}
	if t, err := time.Parse(timeLayout, createdAt); err == nil {
		u.CreatedAt = t
	}
	return u, hash, nil
}

// EnsureLedger is the per-user provisioning hook invoked after a successful
// login. Expenses live in one owner-partitioned table, so the container
// always exists; the hook verifies the owner row and is idempotent.
func (r *Repository) EnsureLedger(ctx context.Context, userID int64) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("ensure ledger for user %d: %w", userID, core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("ensure ledger for user %d: %w", userID, err)
	}
	return nil
}

// ListCategories returns the shared reference categories in name order.
func (r *Repository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CategoryExists reports whether name is a known reference category.
func (r *Repository) CategoryExists(ctx context.Context, name string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM categories WHERE name = ?`, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("select category %q: %w", name, err)
	}
	return true, nil
}

// InsertExpense appends one expense row and returns it with its identity.
func (r *Repository) InsertExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO expenses (user_id, date, category, description, amount_cents, created_at)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		e.UserID, e.Date.String(), e.Category, e.Description, e.Amount.Cents,
		time.Now().UTC().Format(timeLayout),
	).Scan(&id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	e.ID = id

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"user_id", e.UserID,
		"category", e.Category,
		"amount_cents", e.Amount.Cents,
		"date", e.Date.String())

	return e, nil
}

// ListExpenses returns all of a user's expenses in insertion order.
func (r *Repository) ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, date, category, COALESCE(description, ''), amount_cents
		 FROM expenses WHERE user_id = ? ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var (
			e       core.Expense
			dateStr string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &dateStr, &e.Category, &e.Description, &e.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Date, err = core.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("parse expense date %q: %w", dateStr, err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// DeleteExpense removes the row matching both owner and id. Deleting a row
// that does not exist (or belongs to another user) reports core.ErrNotFound.
func (r *Repository) DeleteExpense(ctx context.Context, userID, expenseID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE user_id = ? AND id = ?`, userID, expenseID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Expense deleted", "id", expenseID, "user_id", userID)
	return nil
}

// SumByCategory returns the total cents a user has spent in one category.
// A category with no expenses sums to zero.
func (r *Repository) SumByCategory(ctx context.Context, userID int64, category string) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM expenses WHERE user_id = ? AND category = ?`,
		userID, category,
	).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum expenses by category: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// SummarizeByCategory groups a user's expenses by category and sums their
// amounts, ordered by category name for stable output.
func (r *Repository) SummarizeByCategory(ctx context.Context, userID int64) ([]core.CategoryAmount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, SUM(amount_cents) FROM expenses
		 WHERE user_id = ? GROUP BY category ORDER BY category`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("summarize expenses: %w", err)
	}
	defer rows.Close()

	var sums []core.CategoryAmount
	for rows.Next() {
		var ca core.CategoryAmount
		if err := rows.Scan(&ca.Name, &ca.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		sums = append(sums, ca)
	}
	return sums, rows.Err()
}

// UpsertBudget sets the single ceiling for (user, category), replacing any
// prior value.
func (r *Repository) UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO budgets (user_id, category, amount_cents) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, category) DO UPDATE SET amount_cents = excluded.amount_cents
		 RETURNING id`,
		b.UserID, b.Category, b.Ceiling.Cents,
	).Scan(&id)
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}

	b.ID = id

	slog.InfoContext(ctx, "Budget set",
		"id", b.ID,
		"user_id", b.UserID,
		"category", b.Category,
		"ceiling_cents", b.Ceiling.Cents)

	return b, nil
}

// GetBudget returns the ceiling for (user, category), or core.ErrNotFound
// when none is configured.
func (r *Repository) GetBudget(ctx context.Context, userID int64, category string) (core.Budget, error) {
	b := core.Budget{UserID: userID, Category: category}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, amount_cents FROM budgets WHERE user_id = ? AND category = ?`,
		userID, category,
	).Scan(&b.ID, &b.Ceiling.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("select budget: %w", err)
	}
	return b, nil
}
