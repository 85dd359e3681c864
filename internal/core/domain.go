package core

import (
	"errors"
	"strings"
	"time"
)

// DefaultCategories is the fixed category list offered to users. The
// categories table is seeded with these names by the initial migration.
var DefaultCategories = []string{
	"Food",
	"Transportation",
	"Entertainment",
	"Utilities",
	"Rent",
	"Miscellaneous",
}

type (
	Date struct {
		time.Time
	}

	User struct {
		ID        int64     `json:"id"`
		Username  string    `json:"username"`
		CreatedAt time.Time `json:"created_at"`
	}

	Category struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	Expense struct {
		ID          int64  `json:"id"`
		UserID      int64  `json:"user_id"`
		Date        Date   `json:"date"`
		Category    string `json:"category"`
		Description string `json:"description,omitempty"`
		Amount      Money  `json:"amount"`
	}

	Budget struct {
		ID       int64  `json:"id"`
		UserID   int64  `json:"user_id"`
		Category string `json:"category"`
		Ceiling  Money  `json:"ceiling"`
	}

	// BudgetStatus reports how a category's running total compares to its
	// ceiling. Ceiling is nil when no budget is set for the category.
	// Exceeded is an advisory signal, never an error.
	BudgetStatus struct {
		Category string `json:"category"`
		Ceiling  *Money `json:"ceiling,omitempty"`
		Spent    Money  `json:"spent"`
		Exceeded bool   `json:"exceeded"`
	}
)

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotFound           = errors.New("not found")

	ErrEmptyUsername      = errors.New("empty username")
	ErrEmptyPassword      = errors.New("empty password")
	ErrEmptyCategory      = errors.New("empty category")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
)

// IsValidationError reports whether err is one of the field validation
// sentinels, as opposed to an infrastructure failure.
func IsValidationError(err error) bool {
	for _, sentinel := range []error{
		ErrEmptyUsername,
		ErrEmptyPassword,
		ErrEmptyCategory,
		ErrUnknownCategory,
		ErrInvalidAmount,
		ErrDescriptionTooLong,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

const dateLayout = "2006-01-02"

// Today returns the current calendar date at the server clock, truncated to
// day precision in UTC.
func Today() Date {
	return NewDate(time.Now().UTC().Date())
}

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ValidateCredentials checks the presence rules shared by register and login.
func ValidateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return ErrEmptyUsername
	}
	if password == "" {
		return ErrEmptyPassword
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if len(e.Description) > 200 {
		return ErrDescriptionTooLong
	}
	return e.Amount.Validate()
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	return b.Ceiling.Validate()
}
