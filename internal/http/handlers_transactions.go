package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"kassa/internal/core"
	"kassa/internal/store"
)

type createTransactionRequest struct {
	Type        string `json:"type"`
	Category    string `json:"category"`
	Amount      string `json:"amount"` // decimal text, parsed at the boundary
	Description string `json:"description"`
	Date        string `json:"date"`
	MemberID    string `json:"memberId"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		txs, err := s.store.ListTransactions(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "List transactions failed", "error", err)
			writeError(w, http.StatusInternalServerError, "list transactions failed")
			return
		}
		writeJSON(w, http.StatusOK, txs)

	case http.MethodPost:
		s.handleCreateTransaction(w, r)

	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ty, err := core.ParseTransactionType(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, "type must be income or expense")
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	category := sanitizeInput(req.Category)
	switch ty {
	case core.Income:
		if !core.ValidIncomeCategory(category) {
			writeError(w, http.StatusBadRequest, "unknown income category")
			return
		}
	case core.Expense:
		if !core.ValidExpenseCategory(category) {
			writeError(w, http.StatusBadRequest, "unknown expense category")
			return
		}
	}

	date := sanitizeInput(req.Date)
	if date == "" {
		date = s.now().Format(core.DateLayout)
	}

	// Attribution only exists for income; an expense never references a member.
	memberID := sanitizeInput(req.MemberID)
	if ty == core.Expense {
		memberID = ""
	}

	t := core.Transaction{
		Type:        ty,
		Category:    category,
		Amount:      amount,
		Description: sanitizeInput(req.Description),
		Date:        date,
		MemberID:    memberID,
		CreatedBy:   identity(r),
	}

	id, err := s.ledger.CreateTransaction(r.Context(), t)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Create transaction failed", "error", err)
		writeError(w, http.StatusInternalServerError, "create transaction failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := pathID(r, "/api/transactions/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}

	err := s.ledger.DeleteTransaction(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Delete transaction failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "delete transaction failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidType) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrEmptyDescription) ||
		errors.Is(err, core.ErrDescriptionTooLong) ||
		errors.Is(err, core.ErrEmptyName) ||
		errors.Is(err, core.ErrNameTooLong)
}
