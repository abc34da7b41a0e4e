package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"kassa/internal/core"
	"kassa/internal/report"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	view, ok := s.deriveView(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	view, ok := s.deriveView(w, r)
	if !ok {
		return
	}

	body := s.formatter.Render(view)
	filename := report.Filename(view.GeneratedAt)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// deriveView recomputes the derived view from the current snapshots. On
// failure it writes the error response and reports false.
func (s *Server) deriveView(w http.ResponseWriter, r *http.Request) (core.DerivedView, bool) {
	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list transactions failed")
		return core.DerivedView{}, false
	}
	members, err := s.store.ListMembers(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List members failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list members failed")
		return core.DerivedView{}, false
	}
	return core.Derive(members, txs, s.now(), identity(r)), true
}
