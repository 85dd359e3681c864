package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// Summary is the per-user spending breakdown consumed by chart renderers:
// the overall total plus one row per category with recorded expenses.
type Summary struct {
	Total      Money            `json:"total"`
	ByCategory []CategoryAmount `json:"by_category"`
}
