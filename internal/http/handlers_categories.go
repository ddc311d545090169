package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"moneydrain/internal/core"
	"moneydrain/internal/log"
)

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listCategories(w, r)
	case http.MethodPost:
		s.createCategory(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	t := core.Type(strings.TrimSpace(r.URL.Query().Get("type")))
	if t == "" {
		t = core.Expense
	}
	if !t.Valid() {
		writeError(w, r, core.ErrInvalidType)
		return
	}
	st, _ := s.store(r)
	cats, err := st.Categories(r.Context(), t)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

type categoryRequest struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	t := core.Type(req.Type)
	if !t.Valid() {
		writeError(w, r, core.ErrInvalidType)
		return
	}

	st, _ := s.store(r)
	c, err := st.CreateCategory(r.Context(), t, sanitizeInput(req.Name), req.Icon, req.Color)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Custom category created",
		log.FieldCategory, c.ID,
		"type", string(t))
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleCategoryByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/categories/")
	if id == "" {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: core.ErrNotFound.Error()})
		return
	}

	st, callerID := s.store(r)
	// deleting a missing, foreign or built-in id is a no-op
	if err := st.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateReports(callerID)
	w.WriteHeader(http.StatusNoContent)
}
