package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"moneydrain/internal/core"
	"moneydrain/internal/currency"
	"moneydrain/internal/ledger"
	"moneydrain/internal/log"
	"moneydrain/internal/period"
	"moneydrain/internal/report"
)

// reportScope is the parsed (account, period, query) triple shared by the
// report endpoints.
type reportScope struct {
	account int
	period  period.Period
	query   string
}

func parseReportScope(r *http.Request) (reportScope, error) {
	account, err := parseAccount(r)
	if err != nil {
		return reportScope{}, err
	}
	p := period.All
	if v := strings.TrimSpace(r.URL.Query().Get("period")); v != "" {
		p, err = period.Parse(v)
		if err != nil {
			return reportScope{}, err
		}
	}
	return reportScope{
		account: account,
		period:  p,
		query:   strings.TrimSpace(r.URL.Query().Get("q")),
	}, nil
}

type reportResponse struct {
	Account int                `json:"account"`
	Period  period.Period      `json:"period"`
	Summary report.Summary     `json:"summary"`
	Recent  []core.Transaction `json:"recent"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	scope, err := parseReportScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	st, id := s.store(r)
	view, err := s.loadReport(r, st, id, scope.account, scope.period, scope.query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reportResponse{
		Account: scope.account,
		Period:  scope.period,
		Summary: view.Wrapped.Summary,
		Recent:  view.Recent,
	})
}

func (s *Server) handleWrapped(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	scope, err := parseReportScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	st, id := s.store(r)
	view, err := s.loadReport(r, st, id, scope.account, scope.period, scope.query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view.Wrapped)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	scope, err := parseReportScope(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	cur := currency.USD
	if v := strings.TrimSpace(r.URL.Query().Get("currency")); v != "" {
		cur, err = currency.Parse(v)
		if err != nil {
			writeError(w, r, err)
			return
		}
	}
	format := strings.TrimSpace(r.URL.Query().Get("format"))
	if format == "" {
		format = "csv"
	}

	st, id := s.store(r)
	view, err := s.loadReport(r, st, id, scope.account, scope.period, scope.query)
	if err != nil {
		writeError(w, r, err)
		return
	}

	now := s.now()
	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", report.Filename(scope.account, scope.period, "csv", now)))
		if err := report.WriteCSV(w, view.Recent); err != nil {
			slog.ErrorContext(r.Context(), "Failed to write CSV export", log.FieldError, err)
		}
	case "json":
		doc := report.BuildDocument(scope.account, scope.period, cur, view.Recent, now)
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", report.Filename(scope.account, scope.period, "json", now)))
		writeJSON(w, http.StatusOK, doc)
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unsupported export format"})
	}
}

type importRequest struct {
	Accounts []int `json:"accounts"`
}

// handleImport is the explicit local-to-remote replay. Signing in never
// migrates anonymous data by itself; this endpoint is the only bridge.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	st, id := s.store(r)
	if !id.IsAuthenticated() {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "import requires authentication"})
		return
	}

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	accounts := req.Accounts
	if len(accounts) == 0 {
		for a := 1; a <= core.MaxAccounts; a++ {
			accounts = append(accounts, a)
		}
	}
	for _, a := range accounts {
		if !core.ValidAccount(a) {
			writeError(w, r, core.ErrInvalidAccount)
			return
		}
	}

	res, err := ledger.Import(r.Context(), s.selector.Local(), st, accounts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports(id)

	slog.InfoContext(r.Context(), "Local ledger imported",
		log.FieldUserID, id.Subject,
		"transactions", res.Transactions,
		"categories", res.Categories)
	writeJSON(w, http.StatusOK, res)
}
