package api

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/docmark/docmark/pkg/conversion"

	"github.com/google/uuid"
)

func (h *Handler) handleUploadConvert(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	documentID := r.FormValue("documentId")

	if documentID == "" {
		documentID = uuid.NewString()
	}

	file, header, err := r.FormFile("file")

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	defer file.Close()

	name := filepath.Base(header.Filename)

	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		writeError(w, http.StatusBadRequest, errors.New("Only PDF files are supported"))
		return
	}

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	path := filepath.Join(h.UploadDir, name)

	staged, err := os.Create(path)

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if _, err := io.Copy(staged, file); err != nil {
		staged.Close()

		writeError(w, http.StatusInternalServerError, err)
		return
	}

	staged.Close()

	job := h.service.Convert(r.Context(), documentID, path, nil)

	// a rejected encrypted upload is not worth keeping around
	if job.Status == conversion.StatusFailed && slices.Contains(job.Errors, "PDF is encrypted") {
		os.Remove(path)
	}

	writeJson(w, job)
}
