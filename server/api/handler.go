package api

import (
	"encoding/json"
	"net/http"

	"github.com/docmark/docmark/config"
	"github.com/docmark/docmark/pkg/conversion"
	"github.com/docmark/docmark/pkg/status"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	*config.Config

	service *conversion.Service
	hub     *status.Hub
}

func New(cfg *config.Config, service *conversion.Service, hub *status.Hub) (*Handler, error) {
	h := &Handler{
		Config: cfg,

		service: service,
		hub:     hub,
	}

	return h, nil
}

func (h *Handler) Attach(r chi.Router) {
	r.Get("/health", h.handleHealth)

	r.Post("/api/documents/convert", h.handleConvert)
	r.Post("/api/documents/upload-convert", h.handleUploadConvert)

	r.Get("/api/documents/status/{documentId}", h.handleStatus)

	r.Get("/ws/{clientId}", h.handleSocket)
}

func writeJson(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.WriteHeader(code)

	text := http.StatusText(code)

	if err != nil {
		text = err.Error()
	}

	w.Write([]byte(text))
}
