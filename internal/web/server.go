package web

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"journal_bot/internal/journal"
	"journal_bot/internal/models"
)

// Server exposes the keep-alive ping endpoint plus a couple of read-only
// JSON views over the journal.
type Server struct {
	journal   *journal.Service
	port      string
	startTime time.Time
}

func NewServer(svc *journal.Service, port string) *Server {
	return &Server{
		journal:   svc,
		port:      port,
		startTime: time.Now(),
	}
}

func (s *Server) Start() {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/leaderboard", s.handleLeaderboard)

	log.Printf("🌐 Web server starting on http://localhost:%s", s.port)
	go func() {
		if err := http.ListenAndServe(":"+s.port, mux); err != nil {
			log.Printf("Web server error: %v", err)
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	total, err := s.journal.TotalTrades(r.Context())
	if err != nil {
		log.Printf("⚠️ Health trade count failed: %v", err)
	}

	writeJSON(w, map[string]interface{}{
		"status":       "ok",
		"uptime_sec":   int(time.Since(s.startTime).Seconds()),
		"total_trades": total,
		"timestamp":    time.Now().Unix(),
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	metric := models.MetricProfit
	if r.URL.Query().Get("metric") == string(models.MetricTotalRR) {
		metric = models.MetricTotalRR
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	entries, err := s.journal.Leaderboard(ctx, metric, journal.DefaultTopN)
	if err != nil {
		http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"metric":  metric,
		"entries": entries,
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Web response encode error: %v", err)
	}
}
