package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"kassa/internal/store"
)

type createMemberRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		members, err := s.store.ListMembers(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "List members failed", "error", err)
			writeError(w, http.StatusInternalServerError, "list members failed")
			return
		}
		writeJSON(w, http.StatusOK, members)

	case http.MethodPost:
		var req createMemberRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		id, err := s.ledger.CreateMember(r.Context(), sanitizeInput(req.Name))
		if err != nil {
			if isValidationError(err) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			slog.ErrorContext(r.Context(), "Create member failed", "error", err)
			writeError(w, http.StatusInternalServerError, "create member failed")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})

	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleMemberByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := pathID(r, "/api/members/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing member id")
		return
	}

	err := s.ledger.DeleteMember(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Delete member failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "delete member failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
