package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/rstreport/internal/pipeline"
)

type scanRequest struct {
	Dir string `json:"dir"`
}

// handleScan queues a directory scan job. The directory must be visible to the
// server; each discovered annotation file gets a sibling report.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Dir == "" {
		jsonError(w, "dir is required", http.StatusBadRequest)
		return
	}
	info, err := os.Stat(req.Dir)
	if err != nil {
		jsonError(w, "dir not accessible: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !info.IsDir() {
		jsonError(w, fmt.Sprintf("not a directory: %s", req.Dir), http.StatusBadRequest)
		return
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:        pipeline.NewJobID(req.Dir, now),
		Dir:       req.Dir,
		Status:    pipeline.StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"dir":      job.Dir,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/scan/%s/status", job.ID),
	})
}

func (s *Server) handleScanStatus(w http.ResponseWriter, r *http.Request) {
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
		"dir":      snap.Dir,
		"status":   snap.Status,
		"phase":    snap.Phase,
		"progress": snap.Progress,
	})
}
