package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/services"
	"kharcha/internal/suggest"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

type expenseResponse struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	AmountPaise int64  `json:"amount_paise"`
	Category    string `json:"category"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

func toExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Date:        e.Date.String(),
		Amount:      strconv.FormatFloat(e.Amount.Rupees(), 'f', 2, 64),
		AmountPaise: e.Amount.Paise,
		Category:    string(e.Category),
		Description: e.Description,
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type createExpenseRequest struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
		return
	}
	paise, err := core.ParseDecimalToPaise(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}
	category, err := core.ParseCategory(req.Category)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "unknown category")
		return
	}

	expense := core.Expense{
		Date:        date,
		Amount:      core.Money{Paise: paise},
		Category:    category,
		Description: sanitizeInput(req.Description),
	}

	saved, err := s.expenses.AddExpense(r.Context(), expense)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Expense create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save expense")
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusCreated, toExpenseResponse(saved))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	year, month := yearMonthParams(r)

	var category core.Category
	if v := strings.TrimSpace(r.URL.Query().Get("category")); v != "" {
		parsed, err := core.ParseCategory(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "unknown category")
			return
		}
		category = parsed
	}

	expenses, err := s.expenses.ListMonth(r.Context(), year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense list failed", "error", err, "year", year, "month", month)
		writeError(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		if category != "" && e.Category != category {
			continue
		}
		out = append(out, toExpenseResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	if err := s.expenses.DeleteExpense(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrExpenseNotFound) {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		slog.ErrorContext(r.Context(), "Expense delete failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete expense")
		return
	}

	s.invalidateCaches()
	w.WriteHeader(http.StatusNoContent)
}

type suggestResponse struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	description := r.URL.Query().Get("description")

	var amount core.Money
	if v := strings.TrimSpace(r.URL.Query().Get("amount")); v != "" {
		paise, err := core.ParseDecimalToPaise(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid amount")
			return
		}
		amount = core.Money{Paise: paise}
	}

	suggestion := s.expenses.Suggest(description, amount)
	writeJSON(w, http.StatusOK, suggestResponse{
		Category:   string(suggestion.Category),
		Confidence: suggestion.Confidence,
		Source:     suggestion.Source,
	})
}

type retrainResponse struct {
	Samples int `json:"samples"`
}

func (s *Server) handleRetrain(w http.ResponseWriter, r *http.Request) {
	count, err := s.expenses.Retrain(r.Context())
	if err != nil {
		if errors.Is(err, suggest.ErrInsufficientHistory) {
			writeError(w, http.StatusConflict, "not enough labeled history to train the model")
			return
		}
		slog.ErrorContext(r.Context(), "Retrain failed", "error", err)
		writeError(w, http.StatusInternalServerError, "retrain failed")
		return
	}
	writeJSON(w, http.StatusOK, retrainResponse{Samples: count})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	year, month := yearMonthParams(r)
	key := s.cacheKey(year, month)

	if snapshot, ok := s.snapshotCache.Get(key); ok {
		slog.DebugContext(r.Context(), "Dashboard cache hit", "year", year, "month", month)
		writeJSON(w, http.StatusOK, snapshot)
		return
	}

	snapshot, err := s.dashboard.Snapshot(r.Context(), year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard snapshot failed", "error", err, "year", year, "month", month)
		writeError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	s.snapshotCache.Set(key, snapshot)
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	const key = "insights"
	if insights, ok := s.insightsCache.Get(key); ok {
		slog.DebugContext(r.Context(), "Insights cache hit")
		writeJSON(w, http.StatusOK, insights)
		return
	}

	expenses, err := s.expenses.ListAll(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Insights history load failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to analyze spending")
		return
	}

	insights := services.AnalyzeSpending(expenses)
	s.insightsCache.Set(key, insights)
	writeJSON(w, http.StatusOK, insights)
}

// yearMonthParams reads year and month query parameters, defaulting to the
// current month and correcting out-of-range months.
func yearMonthParams(r *http.Request) (int, int) {
	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			month = m
		}
	}
	if month < 1 || month > 12 {
		month = int(now.Month())
	}
	return year, month
}

// sanitizeInput removes control characters and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrUnknownCategory) ||
		errors.Is(err, core.ErrEmptyDescription)
}
