package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/core"
)

// expenseRequest is the mutable-field payload shared by create and
// update. Amounts arrive as JSON numbers in currency units and are
// converted to cents before validation.
type expenseRequest struct {
	Amount   json.Number `json:"amount"`
	Category string      `json:"category"`
	Date     string      `json:"date"`
	Note     string      `json:"note"`
}

type expenseResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	Date      string    `json:"date"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type summaryResponse struct {
	Total      float64            `json:"total"`
	ByCategory []categoryTotalDTO `json:"byCategory"`
	ByMonth    []monthTotalDTO    `json:"byMonth"`
}

type categoryTotalDTO struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

type monthTotalDTO struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

func toExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		Amount:    e.Amount.Units(),
		Category:  e.Category,
		Date:      e.Date.String(),
		Note:      e.Note,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// toExpense converts the request payload into a domain expense owned by
// userID. Field errors come back as validation sentinels.
func (req expenseRequest) toExpense(userID int64) (core.Expense, error) {
	cents, err := core.ParseDecimalToCents(req.Amount.String())
	if err != nil {
		return core.Expense{}, err
	}
	date := core.DateOf(time.Now())
	if req.Date != "" {
		date, err = core.ParseDate(req.Date)
		if err != nil {
			return core.Expense{}, err
		}
	}
	e := core.Expense{
		UserID:   userID,
		Amount:   core.Money{Cents: cents},
		Category: req.Category,
		Date:     date,
		Note:     req.Note,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing authorization header")
		return
	}

	expenses, err := s.expenses.List(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing authorization header")
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expense, err := req.toExpense(userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	stored, err := s.expenses.Create(r.Context(), expense)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toExpenseResponse(stored))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing authorization header")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusNotFound, core.ErrNotFound.Error())
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// Update is a full replacement; unlike create there is no default
	// for an omitted date.
	if req.Date == "" {
		respondError(w, r, core.ErrInvalidDate)
		return
	}

	expense, err := req.toExpense(userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	expense.ID = id

	stored, err := s.expenses.Update(r.Context(), expense)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toExpenseResponse(stored))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing authorization header")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusNotFound, core.ErrNotFound.Error())
		return
	}

	if err := s.expenses.Delete(r.Context(), userID, id); err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "expense deleted"})
}

// handleExpenseSummary aggregates the caller's expenses, optionally
// narrowed to one category with ?category=.
func (s *Server) handleExpenseSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing authorization header")
		return
	}

	expenses, err := s.expenses.List(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	expenses = core.FilterByCategory(expenses, r.URL.Query().Get("category"))

	resp := summaryResponse{
		Total:      core.TotalAmount(expenses).Units(),
		ByCategory: []categoryTotalDTO{},
		ByMonth:    []monthTotalDTO{},
	}
	for _, ct := range core.CategoryTotals(expenses) {
		resp.ByCategory = append(resp.ByCategory, categoryTotalDTO{
			Category: ct.Category,
			Total:    ct.Total.Units(),
			Count:    ct.Count,
		})
	}
	for _, mt := range core.MonthTotals(expenses) {
		resp.ByMonth = append(resp.ByMonth, monthTotalDTO{
			Month: mt.Month,
			Total: mt.Total.Units(),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
