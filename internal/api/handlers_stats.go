package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleEmbeddingStats(w http.ResponseWriter, r *http.Request) {
	if s.provider == nil || s.provider.Stats == nil {
		jsonError(w, "embedding stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model": s.provider.Model(),
		"stats": s.provider.Stats.SnapshotNow(),
	})
}
