// Package http exposes the ledger core as a JSON API. Everything here is
// plumbing: parsing, identity resolution, error mapping and a short-lived
// summary cache. The ledger semantics live below in internal/ledger.
package http

import (
	"net/http"
	"strconv"
	"time"

	"moneydrain/internal/backend"
	"moneydrain/internal/cache"
	"moneydrain/internal/core"
	"moneydrain/internal/identity"
	"moneydrain/internal/ledger"
	"moneydrain/internal/log"
	"moneydrain/internal/period"
	"moneydrain/internal/report"
)

// reportView is one cached report computation: the wrapped statistics plus
// the date-sorted listing, both derived from the same filtered set.
type reportView struct {
	Wrapped report.Wrapped
	Recent  []core.Transaction
}

// Server routes API requests to the mode-selected ledger store.
type Server struct {
	selector *backend.Selector
	provider identity.Provider
	reports  *cache.LRU[reportView]
	now      func() time.Time
}

// Options configures the API server.
type Options struct {
	CacheSize int
	CacheTTL  time.Duration
}

// NewServer wires the API around a backend selector and identity provider.
func NewServer(addr string, sel *backend.Selector, provider identity.Provider, logger *log.Logger, opts Options) *http.Server {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Second
	}
	s := &Server{
		selector: sel,
		provider: provider,
		reports:  cache.NewLRU[reportView](opts.CacheSize, opts.CacheTTL),
		now:      time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.HandleFunc("/api/transactions/", s.handleTransactionOps)
	mux.HandleFunc("/api/categories", s.handleCategories)
	mux.HandleFunc("/api/categories/", s.handleCategoryByID)
	mux.HandleFunc("/api/report", s.handleReport)
	mux.HandleFunc("/api/report/wrapped", s.handleWrapped)
	mux.HandleFunc("/api/report/export", s.handleExport)
	mux.HandleFunc("/api/import", s.handleImport)

	return &http.Server{
		Addr:    addr,
		Handler: log.Middleware(logger, mux),
	}
}

// store resolves the caller's identity and picks the backing store. This is
// the only place the API touches the mode decision.
func (s *Server) store(r *http.Request) (ledger.Store, identity.Identity) {
	id := s.provider.Identify(r)
	return s.selector.StoreFor(id), id
}

// scopeKey prefixes cache keys so one caller's mutations only invalidate
// that caller's cached reports.
func scopeKey(id identity.Identity) string {
	if !id.IsAuthenticated() {
		return "anon"
	}
	return "user:" + id.Subject
}

// invalidateReports drops the caller's cached report views. The trailing
// separator keeps one subject's invalidation from clipping another subject
// whose id merely extends the prefix.
func (s *Server) invalidateReports(id identity.Identity) {
	s.reports.Invalidate(scopeKey(id) + "|")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// loadReport filters, searches and aggregates one account's transactions,
// memoizing the result for the cache TTL.
func (s *Server) loadReport(r *http.Request, st ledger.Store, id identity.Identity, account int, p period.Period, query string) (reportView, error) {
	key := scopeKey(id) + "|" + strconv.Itoa(account) + "|" + string(p) + "|" + query
	if view, ok := s.reports.Get(key); ok {
		return view, nil
	}

	txs, err := st.List(r.Context(), account)
	if err != nil {
		return reportView{}, err
	}
	filtered := period.Filter(txs, p, s.now())
	filtered = report.Search(filtered, query)

	view := reportView{
		Wrapped: report.Wrap(filtered),
		Recent:  report.Recent(filtered),
	}
	s.reports.Set(key, view)
	return view, nil
}
