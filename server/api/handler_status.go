package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJson(w, map[string]string{
		"status":  "healthy",
		"service": "docmark",
	})
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentId")

	writeJson(w, h.hub.Status(documentID))
}
