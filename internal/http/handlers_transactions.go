package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"moneydrain/internal/core"
	"moneydrain/internal/currency"
	"moneydrain/internal/ledger"
	"moneydrain/internal/log"
)

type transactionRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Date        *time.Time      `json:"date"`
}

type transactionPatch struct {
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Type        *string          `json:"type"`
	Category    *string          `json:"category"`
	Date        *time.Time       `json:"date"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.addTransaction(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	account, err := parseAccount(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	st, _ := s.store(r)
	txs, err := st.List(r.Context(), account)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) addTransaction(w http.ResponseWriter, r *http.Request) {
	account, err := parseAccount(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	draft := ledger.Draft{
		Description: sanitizeInput(req.Description),
		Amount:      req.Amount,
		Type:        core.Type(req.Type),
		Category:    strings.TrimSpace(req.Category),
	}
	if req.Date != nil {
		draft.Date = *req.Date
	}
	// early rejection; the store validates again on its own
	if _, err := draft.Validate(s.now()); err != nil {
		writeError(w, r, err)
		return
	}

	st, id := s.store(r)
	t, err := st.Add(r.Context(), account, draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports(id)

	slog.InfoContext(r.Context(), "Transaction created",
		log.FieldTransactionID, t.ID,
		log.FieldAccount, account,
		"type", string(t.Type),
		log.FieldCategory, t.Category)
	writeJSON(w, http.StatusCreated, t)
}

// handleTransactionOps routes /api/transactions/{id} plus the account-wide
// clear and convert operations.
func (s *Server) handleTransactionOps(w http.ResponseWriter, r *http.Request) {
	tail := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	switch tail {
	case "clear":
		s.clearTransactions(w, r)
		return
	case "convert":
		s.convertTransactions(w, r)
		return
	case "":
		writeJSON(w, http.StatusNotFound, errorResponse{Error: core.ErrNotFound.Error()})
		return
	}

	switch r.Method {
	case http.MethodPatch, http.MethodPut:
		s.updateTransaction(w, r, tail)
	case http.MethodDelete:
		s.removeTransaction(w, r, tail)
	default:
		methodNotAllowed(w, "PATCH, PUT, DELETE")
	}
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request, id string) {
	var req transactionPatch
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	patch := ledger.Patch{
		Amount: req.Amount,
		Date:   req.Date,
	}
	if req.Description != nil {
		desc := sanitizeInput(*req.Description)
		patch.Description = &desc
	}
	if req.Type != nil {
		t := core.Type(*req.Type)
		patch.Type = &t
	}
	if req.Category != nil {
		c := strings.TrimSpace(*req.Category)
		patch.Category = &c
	}
	if err := patch.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	st, callerID := s.store(r)
	if err := st.Update(r.Context(), id, patch); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports(callerID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeTransaction(w http.ResponseWriter, r *http.Request, id string) {
	st, callerID := s.store(r)
	if err := st.Remove(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports(callerID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	account, err := parseAccount(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	st, id := s.store(r)
	if err := st.Clear(r.Context(), account); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports(id)

	slog.InfoContext(r.Context(), "Account cleared", log.FieldAccount, account)
	w.WriteHeader(http.StatusNoContent)
}

type convertRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (s *Server) convertTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	account, err := parseAccount(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	from, err := currency.Parse(req.From)
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := currency.Parse(req.To)
	if err != nil {
		writeError(w, r, err)
		return
	}

	st, id := s.store(r)
	if err := st.ConvertAll(r.Context(), account, from, to); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports(id)

	slog.InfoContext(r.Context(), "Account converted",
		log.FieldAccount, account,
		"from", string(from),
		"to", string(to))
	w.WriteHeader(http.StatusNoContent)
}
