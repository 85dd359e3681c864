package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"exptrk/internal/core"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// expenseRequest carries the amount as raw JSON so both "1200.00" and
// 1200.00 are accepted; parsing and validation happen in the service.
type expenseRequest struct {
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      json.RawMessage `json:"amount"`
}

type budgetRequest struct {
	Category string          `json:"category"`
	Amount   json.RawMessage `json:"amount"`
}

// createExpenseResponse pairs the recorded expense with the budget advisory.
// Warning is set when the category's ceiling was exceeded; the expense is
// recorded either way.
type createExpenseResponse struct {
	Expense core.Expense       `json:"expense"`
	Budget  *core.BudgetStatus `json:"budget,omitempty"`
	Warning string             `json:"warning,omitempty"`
}

func rawAmount(raw json.RawMessage) string {
	return strings.Trim(strings.TrimSpace(string(raw)), `"`)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps domain sentinels to HTTP statuses.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrDuplicateUsername):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, core.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case core.IsValidationError(err):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := s.accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := s.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	expense, status, err := s.ledger.AddExpense(r.Context(), userID(r.Context()), req.Category, req.Description, rawAmount(req.Amount))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	resp := createExpenseResponse{Expense: expense, Budget: status}
	if status != nil && status.Exceeded {
		resp.Warning = "you have exceeded your budget for " + status.Category
	}

	respondJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.ledger.ListExpenses(r.Context(), userID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	if err := s.ledger.DeleteExpense(r.Context(), userID(r.Context()), id); err != nil {
		respondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	budget, err := s.budgets.SetBudget(r.Context(), userID(r.Context()), req.Category, rawAmount(req.Amount))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, budget)
}

func (s *Server) handleCheckBudget(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	status, err := s.budgets.CheckBudget(r.Context(), userID(r.Context()), category)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	totals, err := s.reports.SummarizeByCategory(r.Context(), userID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, totals)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	summary, err := s.reports.Overview(r.Context(), userID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.repo.ListCategories(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	respondJSON(w, http.StatusOK, names)
}
