package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/legionffl/cpr/internal/engine"
	"github.com/legionffl/cpr/internal/persistence"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// runParams resolves league and season from query parameters, falling back
// to the server defaults.
func (s *Server) runParams(r *http.Request) (string, int, error) {
	leagueID := r.URL.Query().Get("league_id")
	if leagueID == "" {
		leagueID = s.league
	}
	if leagueID == "" {
		return "", 0, errors.New("league_id is required")
	}

	season := s.season
	if raw := r.URL.Query().Get("season"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return "", 0, errors.New("season must be a positive integer")
		}
		season = parsed
	}
	return leagueID, season, nil
}

func wantsCached(r *http.Request) bool {
	cached, _ := strconv.ParseBool(r.URL.Query().Get("cached"))
	return cached
}

// serveStored writes the latest persisted run for the league, season and
// kind, reporting whether one was found.
func (s *Server) serveStored(w http.ResponseWriter, r *http.Request, kind persistence.RunKind, leagueID string, season int) bool {
	if s.store == nil {
		return false
	}
	run, err := s.store.LatestRun(r.Context(), leagueID, season, kind)
	if errors.Is(err, persistence.ErrRunNotFound) {
		return false
	}
	if err != nil {
		log.Error().Err(err).Str("league_id", leagueID).Msg("failed to load stored run")
		return false
	}
	w.Header().Set("X-Run-Source", "store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(run.Payload); err != nil {
		log.Error().Err(err).Str("run_id", run.RunID).Msg("failed to write stored run")
	}
	return true
}

func (s *Server) handleTeamRankings(w http.ResponseWriter, r *http.Request) {
	leagueID, season, err := s.runParams(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if wantsCached(r) {
		if !s.serveStored(w, r, persistence.RunKindTeams, leagueID, season) {
			s.writeError(w, http.StatusNotFound, "no_stored_run", "no persisted team run for this league and season")
		}
		return
	}

	started := time.Now()
	snap, err := s.source.Snapshot(r.Context(), leagueID, season)
	if err != nil {
		s.recordRun("teams", "fetch_error", started)
		if s.serveStored(w, r, persistence.RunKindTeams, leagueID, season) {
			log.Warn().Err(err).Msg("upstream fetch failed, served stored team run")
			return
		}
		s.writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
		return
	}

	rankings, err := s.engine.RankTeams(*snap)
	if err != nil {
		s.recordRun("teams", "invalid_input", started)
		s.writeError(w, http.StatusUnprocessableEntity, "invalid_snapshot", err.Error())
		return
	}
	s.recordRun("teams", "success", started)
	if s.metrics != nil {
		s.metrics.TeamsRanked.Set(float64(len(rankings.Results)))
		s.metrics.LeagueHealth.Set(rankings.LeagueHealth)
	}

	s.persist(r, persistence.RunKindTeams, rankings.RunMeta, rankings)
	s.writeJSON(w, http.StatusOK, rankings)
}

func (s *Server) handlePlayerRankings(w http.ResponseWriter, r *http.Request) {
	leagueID, season, err := s.runParams(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if wantsCached(r) {
		if !s.serveStored(w, r, persistence.RunKindPlayers, leagueID, season) {
			s.writeError(w, http.StatusNotFound, "no_stored_run", "no persisted player run for this league and season")
		}
		return
	}

	started := time.Now()
	snap, err := s.source.Snapshot(r.Context(), leagueID, season)
	if err != nil {
		s.recordRun("players", "fetch_error", started)
		if s.serveStored(w, r, persistence.RunKindPlayers, leagueID, season) {
			log.Warn().Err(err).Msg("upstream fetch failed, served stored player run")
			return
		}
		s.writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
		return
	}

	rankings, err := s.engine.RankPlayers(*snap)
	if err != nil {
		s.recordRun("players", "invalid_input", started)
		s.writeError(w, http.StatusUnprocessableEntity, "invalid_snapshot", err.Error())
		return
	}
	s.recordRun("players", "success", started)
	if s.metrics != nil {
		s.metrics.PlayersRanked.Set(float64(len(rankings.Results)))
	}

	s.persist(r, persistence.RunKindPlayers, rankings.RunMeta, rankings)
	s.writeJSON(w, http.StatusOK, rankings)
}

// persist stores a completed run when a store is configured. Persistence
// failures are logged, never surfaced to the API caller.
func (s *Server) persist(r *http.Request, kind persistence.RunKind, meta engine.RunMeta, payload interface{}) {
	if s.store == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("run_id", meta.RunID).Msg("failed to marshal run payload")
		return
	}
	_, err = s.store.SaveRun(r.Context(), persistence.Run{
		RunID:       meta.RunID,
		LeagueID:    meta.LeagueID,
		Season:      meta.Season,
		Kind:        kind,
		Payload:     data,
		GeneratedAt: meta.GeneratedAt,
	})
	if err != nil {
		log.Error().Err(err).Str("run_id", meta.RunID).Msg("failed to persist run")
		return
	}
	if s.retention > 0 {
		if _, err := s.store.PruneRuns(r.Context(), s.retention); err != nil {
			log.Error().Err(err).Msg("failed to prune stored runs")
		}
	}
}

func (s *Server) recordRun(kind, outcome string, started time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RunsTotal.WithLabelValues(kind, outcome).Inc()
	if outcome == "success" {
		s.metrics.RunDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	s.writeError(w, http.StatusNotFound, "not_found", "unknown route: "+r.URL.Path)
}
