package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/docsift/docsift/internal/parser"
	"github.com/docsift/docsift/internal/pipeline"
	"github.com/docsift/docsift/internal/task"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// handleAnalyze accepts a task descriptor plus document files as one
// multipart request and queues an analysis job.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	taskJSON := r.FormValue("task")
	if taskJSON == "" {
		jsonError(w, "task is required", http.StatusBadRequest)
		return
	}
	desc, err := task.Parse(strings.NewReader(taskJSON))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	fileHeaders := r.MultipartForm.File["documents"]
	if len(fileHeaders) == 0 {
		jsonError(w, "at least one document is required", http.StatusBadRequest)
		return
	}

	var files []pipeline.DocumentFile
	for _, fh := range fileHeaders {
		filename := sanitizeFilename(fh.Filename)
		if !parser.IsSupportedExtension(filename) {
			jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
			return
		}

		f, err := fh.Open()
		if err != nil {
			jsonError(w, "failed to open "+filename, http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil {
			jsonError(w, "failed to read "+filename, http.StatusInternalServerError)
			return
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			jsonError(w, fmt.Sprintf("%s exceeds max size (%d bytes)", filename, s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}

		files = append(files, pipeline.DocumentFile{Name: filename, Data: data})
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:        uuid.NewString(),
		Status:    pipeline.StatusQueued,
		Phase:     "queued",
		Task:      desc,
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.SetFiles(files)

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/analyze/%s/status", job.ID),
	})
}

func (s *Server) handleAnalyzeStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   snap.ID,
		"status":   snap.Status,
		"phase":    snap.Phase,
		"progress": snap.Progress,
	})
}

func (s *Server) handleAnalyzeResult(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}

	result := job.Result()
	if result == nil {
		snap := job.Snapshot()
		jsonError(w, fmt.Sprintf("result not ready (status: %s)", snap.Status), http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
