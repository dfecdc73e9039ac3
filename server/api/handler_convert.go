package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
)

type convertRequest struct {
	DocumentID string            `json:"documentId"`
	FilePath   string            `json:"filePath"`
	Options    map[string]string `json:"options"`
}

func (h *Handler) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if req.DocumentID == "" || req.FilePath == "" {
		writeError(w, http.StatusBadRequest, errors.New("documentId and filePath are required"))
		return
	}

	path := req.FilePath

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, errors.New("File not found: "+path))
		return
	}

	job := h.service.Convert(r.Context(), req.DocumentID, path, req.Options)

	writeJson(w, job)
}
