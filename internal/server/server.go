// Package server exposes the reconciliation and scoring engine as a thin
// JSON API. No scoring or matching logic lives here.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"lobby-tracker/internal/api"
	"lobby-tracker/internal/domain"
	"lobby-tracker/internal/reconcile"
	"lobby-tracker/internal/repository"
	"lobby-tracker/internal/service"

	"github.com/rs/zerolog"
)

// 10 MB per screenshot upload.
const maxUploadBytes = 10 << 20

type Server struct {
	extraction  *service.ExtractionService
	results     *service.ResultService
	tournaments *service.TournamentService
	logger      zerolog.Logger
}

func New(extraction *service.ExtractionService, results *service.ResultService, tournaments *service.TournamentService, logger zerolog.Logger) *Server {
	return &Server{extraction: extraction, results: results, tournaments: tournaments, logger: logger}
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/tournaments", s.handleCreateTournament)
	mux.HandleFunc("GET /api/v1/tournaments/{id}", s.handleGetTournament)
	mux.HandleFunc("PUT /api/v1/tournaments/{id}/points-system", s.handleUpdatePointsSystem)

	mux.HandleFunc("POST /api/v1/tournaments/{id}/teams", s.handleRegisterTeam)
	mux.HandleFunc("GET /api/v1/tournaments/{id}/teams", s.handleListTeams)

	mux.HandleFunc("POST /api/v1/tournaments/{id}/extract", s.handleExtract)
	mux.HandleFunc("POST /api/v1/tournaments/{id}/reconcile", s.handleReconcile)
	mux.HandleFunc("POST /api/v1/tournaments/{id}/results", s.handleSubmitResults)
	mux.HandleFunc("POST /api/v1/tournaments/{id}/results/score", s.handleScoreEntry)

	mux.HandleFunc("GET /api/v1/tournaments/{id}/standings", s.handleStandings)
	mux.HandleFunc("GET /api/v1/tournaments/{id}/players/top", s.handleTopPlayers)

	return mux
}

type createTournamentRequest struct {
	Name         string                   `json:"name"`
	Game         string                   `json:"game"`
	PointsSystem []domain.PlacementPoints `json:"points_system"`
	KillPoints   int                      `json:"kill_points"`
}

func (s *Server) handleCreateTournament(w http.ResponseWriter, r *http.Request) {
	var req createTournamentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ps := domain.PointsSystem{Placements: req.PointsSystem, KillPointMultiplier: req.KillPoints}
	tournament, err := s.tournaments.Create(r.Context(), req.Name, req.Game, ps)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, tournamentResponse(tournament))
}

func (s *Server) handleGetTournament(w http.ResponseWriter, r *http.Request) {
	tournament, err := s.tournaments.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	body := tournamentResponse(tournament)
	if count, err := s.tournaments.SubmissionCount(r.Context(), tournament.ID); err == nil {
		body["submissions"] = count
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleUpdatePointsSystem(w http.ResponseWriter, r *http.Request) {
	var req createTournamentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ps := domain.PointsSystem{Placements: req.PointsSystem, KillPointMultiplier: req.KillPoints}
	if err := s.tournaments.UpdatePointsSystem(r.Context(), r.PathValue("id"), ps); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type registerTeamRequest struct {
	Name    string   `json:"team_name"`
	Members []string `json:"members"`
}

func (s *Server) handleRegisterTeam(w http.ResponseWriter, r *http.Request) {
	var req registerTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	team, err := s.tournaments.RegisterTeam(r.Context(), r.PathValue("id"), req.Name, req.Members)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, teamResponse(*team))
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	tournamentID := r.PathValue("id")

	var (
		teams []domain.RegisteredTeam
		err   error
	)
	if query := r.URL.Query().Get("query"); query != "" {
		teams, err = s.tournaments.SearchTeams(r.Context(), tournamentID, query)
	} else {
		teams, err = s.tournaments.ListTeams(r.Context(), tournamentID)
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(teams))
	for _, t := range teams {
		out = append(out, teamResponse(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"teams": out})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	var images []api.ImageFile
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["images"] {
			f, err := fh.Open()
			if err != nil {
				writeError(w, http.StatusBadRequest, "unreadable image upload")
				return
			}
			data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
			f.Close()
			if err != nil {
				writeError(w, http.StatusBadRequest, "unreadable image upload")
				return
			}
			images = append(images, api.ImageFile{
				Name:        fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Data:        data,
			})
		}
	}
	if len(images) == 0 {
		writeError(w, http.StatusBadRequest, "no images uploaded")
		return
	}

	opts := api.ExtractOptions{LobbyID: r.PathValue("id")}
	results, err := s.extraction.ExtractResults(r.Context(), images, opts)
	if err != nil {
		writeError(w, http.StatusBadGateway, "extraction failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

type reconcileRequest struct {
	Results []domain.ExtractionResult `json:"results"`
}

type mappingRow struct {
	EntryIndex int     `json:"entry_index"`
	TeamID     string  `json:"team_id"`
	TeamName   string  `json:"team_name"`
	Auto       bool    `json:"auto"`
	Confidence float64 `json:"confidence"`
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	var req reconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, teams, err := s.results.Reconcile(r.Context(), r.PathValue("id"), req.Results)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	namesByID := make(map[string]string, len(teams))
	for _, t := range teams {
		namesByID[t.ID] = t.Name
	}

	rows := make([]mappingRow, 0, m.Assigned())
	for i := 0; i < m.Len(); i++ {
		if a, ok := m.Get(i); ok {
			rows = append(rows, mappingRow{
				EntryIndex: i,
				TeamID:     a.TeamID,
				TeamName:   namesByID[a.TeamID],
				Auto:       a.Auto,
				Confidence: a.Score,
			})
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"mapping":  rows,
		"unmapped": m.Unmapped(),
		"complete": m.Complete(),
	})
}

type submitResultsRequest struct {
	// AI path: extraction results plus the operator-confirmed mapping.
	Results     []domain.ExtractionResult `json:"results"`
	Assignments map[string]string         `json:"assignments"`

	// Manual path: pre-scored entries.
	Entries []domain.MatchResultEntry `json:"entries"`
}

func (s *Server) handleSubmitResults(w http.ResponseWriter, r *http.Request) {
	var req submitResultsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tournamentID := r.PathValue("id")

	entries := req.Entries
	if len(req.Assignments) > 0 {
		assignments := make(map[int]string, len(req.Assignments))
		for k, v := range req.Assignments {
			idx, err := strconv.Atoi(k)
			if err != nil {
				writeError(w, http.StatusBadRequest, "assignment keys must be entry indices")
				return
			}
			assignments[idx] = v
		}

		built, err := s.results.BuildEntries(r.Context(), tournamentID, req.Results, assignments)
		if err != nil {
			switch {
			case errors.Is(err, reconcile.ErrTeamClaimed):
				writeError(w, http.StatusConflict, err.Error())
			case errors.Is(err, service.ErrEntryOutOfRange):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				s.writeServiceError(w, err)
			}
			return
		}
		entries = append(entries, built...)
	}

	report, err := s.results.Submit(r.Context(), tournamentID, entries)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	status := http.StatusOK
	if len(report.Failed) > 0 {
		// partial failure is reported, not retried
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, submitReportResponse(report))
}

func (s *Server) handleScoreEntry(w http.ResponseWriter, r *http.Request) {
	var entry domain.MatchResultEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	scored, err := s.results.ScoreManualEntry(r.Context(), r.PathValue("id"), entry)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scored)
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	rows, err := s.tournaments.Standings(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"standings": rows})
}

func (s *Server) handleTopPlayers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := s.tournaments.TopPlayers(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": rows})
}

func tournamentResponse(t *domain.Tournament) map[string]any {
	return map[string]any{
		"id":            t.ID,
		"name":          t.Name,
		"game":          t.Game,
		"points_system": t.PointsSystem.Placements,
		"kill_points":   t.PointsSystem.KillPointMultiplier,
	}
}

func teamResponse(t domain.RegisteredTeam) map[string]any {
	return map[string]any{
		"id":           t.ID,
		"team_name":    t.Name,
		"members":      t.Members,
		"total_points": t.Stats,
	}
}

func submitReportResponse(report *service.SubmitReport) map[string]any {
	succeeded := make([]map[string]any, 0, len(report.Succeeded))
	for _, o := range report.Succeeded {
		succeeded = append(succeeded, map[string]any{
			"team_id":   o.TeamID,
			"team_name": o.TeamName,
			"match_id":  o.MatchID,
		})
	}
	failed := make([]map[string]any, 0, len(report.Failed))
	for _, o := range report.Failed {
		failed = append(failed, map[string]any{
			"team_id":   o.TeamID,
			"team_name": o.TeamName,
			"match_id":  o.MatchID,
			"error":     o.Err.Error(),
		})
	}
	return map[string]any{
		"succeeded": succeeded,
		"failed":    failed,
	}
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrDuplicateSubmission):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
