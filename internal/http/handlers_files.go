package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"benefits/internal/amqp"
	"benefits/internal/ingest"
	"benefits/internal/storage"
)

// Invoice exports are modest; anything bigger is a wrong upload.
const maxUploadBytes = 10 << 20

// handleListFiles serves the uploaded invoice files, newest first.
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.files.ListInvoiceFiles(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List invoice files failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list invoice files")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": toInvoiceFileViews(files)})
}

// handleUploadFile accepts a multipart CSV upload and queues it for
// ingestion. The plan_name field must follow the CARRIER-MONTH-YEAR
// convention; ingestion itself happens in the worker.
func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	if s.publisher == nil {
		writeError(w, http.StatusServiceUnavailable, "invoice ingestion is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	planName := strings.TrimSpace(r.FormValue("plan_name"))
	if _, err := ingest.ParsePlanName(planName); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	if len(content) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "uploaded file is empty")
		return
	}

	msg := amqp.NewInvoiceIngestMessage(planName, header.Filename, content)
	if err := s.publisher.PublishInvoiceIngest(r.Context(), msg); err != nil {
		slog.ErrorContext(r.Context(), "Failed to queue invoice for ingestion",
			"plan_name", planName,
			"file_name", header.Filename,
			"error", err)
		writeError(w, http.StatusServiceUnavailable, "failed to queue file for ingestion")
		return
	}

	// Resolved groups will include the new records once the worker has
	// processed them; expire the cache early.
	s.invalidateGroups()

	writeJSON(w, http.StatusAccepted, map[string]any{
		"plan_name": planName,
		"file_name": header.Filename,
		"status":    "queued",
	})
}

// handleDeleteFile removes an invoice file and all charge records
// ingested from it.
func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	planName := r.PathValue("plan")
	if planName == "" {
		writeError(w, http.StatusBadRequest, "plan name is required")
		return
	}

	if err := s.files.DeleteInvoiceFile(r.Context(), planName); err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			writeError(w, http.StatusNotFound, "invoice file not found")
			return
		}
		slog.ErrorContext(r.Context(), "Delete invoice file failed",
			"plan_name", planName,
			"error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete invoice file")
		return
	}

	s.invalidateGroups()
	w.WriteHeader(http.StatusNoContent)
}
