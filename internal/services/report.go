package services

import (
	"context"

	"exptrk/internal/core"
	"exptrk/internal/storage"
)

// ReportService aggregates a user's ledger for chart rendering. It holds no
// state of its own; every call reads the current ledger.
type ReportService struct {
	repo *storage.Repository
}

func NewReportService(repo *storage.Repository) *ReportService {
	return &ReportService{repo: repo}
}

// SummarizeByCategory returns category name -> total amount for the user.
// A user with no expenses gets an empty map, not an error.
func (s *ReportService) SummarizeByCategory(ctx context.Context, userID int64) (map[string]core.Money, error) {
	sums, err := s.repo.SummarizeByCategory(ctx, userID)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]core.Money, len(sums))
	for _, ca := range sums {
		totals[ca.Name] = ca.Amount
	}
	return totals, nil
}

// Overview returns the grand total plus the per-category breakdown in
// category-name order, the shape chart renderers consume directly.
func (s *ReportService) Overview(ctx context.Context, userID int64) (core.Summary, error) {
	sums, err := s.repo.SummarizeByCategory(ctx, userID)
	if err != nil {
		return core.Summary{}, err
	}

	summary := core.Summary{ByCategory: sums}
	for _, ca := range sums {
		summary.Total = summary.Total.Add(ca.Amount)
	}
	return summary, nil
}
