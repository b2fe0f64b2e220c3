// ABOUTME: Read-only JSON API server
// ABOUTME: Serves dashboard, scoreboard, forecast, pipeline, and funnel endpoints
package web

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/harperreed/dealdesk/analytics"
	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/scoring"
)

const historicalWindowDays = 180

type Server struct {
	db     *sql.DB
	engine *scoring.Engine
}

func NewServer(database *sql.DB) *Server {
	return &Server{
		db:     database,
		engine: scoring.NewEngine(scoring.Config{}),
	}
}

func (s *Server) Start(port int) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/dashboard", s.handleDashboard)
	mux.HandleFunc("/api/scoreboard", s.handleScoreboard)
	mux.HandleFunc("/api/forecast", s.handleForecast)
	mux.HandleFunc("/api/pipeline", s.handlePipeline)
	mux.HandleFunc("/api/funnel", s.handleFunnel)
	mux.HandleFunc("/api/activity", s.handleActivity)

	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting API server at http://localhost%s", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := analytics.GenerateDashboardStats(s.db)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, stats)
}

func (s *Server) handleScoreboard(w http.ResponseWriter, r *http.Request) {
	contexts, err := analytics.GatherDealContexts(s.db, nil)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	ranked, err := s.engine.RankDeals(contexts, time.Now())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", limitStr))
			return
		}
		if len(ranked) > limit {
			ranked = ranked[:limit]
		}
	}

	s.writeJSON(w, map[string]interface{}{
		"deals": ranked,
		"count": len(ranked),
	})
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	period := scoring.PeriodNextQuarter
	if p := r.URL.Query().Get("period"); p != "" {
		period = scoring.Period(p)
	}
	method := scoring.MethodWeightedPipeline
	if m := r.URL.Query().Get("method"); m != "" {
		method = scoring.Method(m)
	}

	closedWon, err := db.ClosedWonSince(s.db, time.Now().AddDate(0, 0, -historicalWindowDays))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	historical := make([]scoring.ClosedDeal, len(closedWon))
	for i, deal := range closedWon {
		historical[i] = scoring.ClosedDeal{Amount: deal.Amount, CloseDate: deal.CloseDate}
	}

	summaries, err := db.StageSummaries(s.db)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	pipeline := make([]scoring.StagePipeline, len(summaries))
	for i, summary := range summaries {
		pipeline[i] = scoring.StagePipeline{
			Stage:          summary.Stage,
			DealCount:      summary.DealCount,
			TotalAmount:    summary.TotalAmount,
			AvgProbability: summary.AvgProbability,
		}
	}

	result, err := s.engine.Forecast(historical, pipeline, period, method)
	if err != nil {
		var paramErr *scoring.InvalidParameterError
		if errors.As(err, &paramErr) {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, result)
}

func (s *Server) handlePipeline(w http.ResponseWriter, r *http.Request) {
	summaries, err := db.StageSummaries(s.db)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	var total int64
	var weighted float64
	for _, summary := range summaries {
		total += summary.TotalAmount
		weighted += float64(summary.TotalAmount) * summary.AvgProbability / 100
	}

	s.writeJSON(w, map[string]interface{}{
		"stages":            summaries,
		"total_pipeline":    total,
		"weighted_pipeline": weighted,
	})
}

func (s *Server) handleFunnel(w http.ResponseWriter, r *http.Request) {
	windowDays := 90
	if windowStr := r.URL.Query().Get("window"); windowStr != "" {
		parsed, err := strconv.Atoi(windowStr)
		if err != nil || parsed < 1 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid window %q", windowStr))
			return
		}
		windowDays = parsed
	}

	report, err := analytics.GenerateFunnelReport(s.db, windowDays)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, report)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	windowDays := 30
	if windowStr := r.URL.Query().Get("window"); windowStr != "" {
		parsed, err := strconv.Atoi(windowStr)
		if err != nil || parsed < 1 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid window %q", windowStr))
			return
		}
		windowDays = parsed
	}

	counts, err := db.TypeCountsSince(s.db, time.Now().AddDate(0, 0, -windowDays))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, analytics.ActivitySummary(counts))
}
