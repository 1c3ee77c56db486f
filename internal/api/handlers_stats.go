package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleKitedStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "kited stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"kited_url": s.cfg.KitedURL,
		"window":    s.cfg.StatsWindow.String(),
		"stats":     s.stats.Snapshot(),
	})
}
