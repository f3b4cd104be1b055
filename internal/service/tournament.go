package service

import (
	"context"
	"fmt"

	"lobby-tracker/internal/constants"
	"lobby-tracker/internal/domain"
	"lobby-tracker/internal/scoring"

	"github.com/rs/zerolog"
)

// TournamentWriter extends the read-only TournamentStore with the
// operations tournament management needs.
type TournamentWriter interface {
	TournamentStore
	Create(ctx context.Context, t *domain.Tournament) error
	UpdatePointsSystem(ctx context.Context, id string, ps domain.PointsSystem) error
}

// TeamWriter extends TeamStore with registration and search.
type TeamWriter interface {
	TeamStore
	Create(ctx context.Context, team *domain.RegisteredTeam) error
	Search(ctx context.Context, tournamentID, query string, limit int) ([]domain.RegisteredTeam, error)
}

// SubmissionCounter reports how many match results a tournament has absorbed.
type SubmissionCounter interface {
	CountByTournament(ctx context.Context, tournamentID string) (int, error)
}

type TournamentService struct {
	tournaments TournamentWriter
	teams       TeamWriter
	submissions SubmissionCounter
	logger      zerolog.Logger
}

func NewTournamentService(tournaments TournamentWriter, teams TeamWriter, submissions SubmissionCounter, logger zerolog.Logger) *TournamentService {
	return &TournamentService{tournaments: tournaments, teams: teams, submissions: submissions, logger: logger}
}

func (s *TournamentService) Create(ctx context.Context, name, game string, ps domain.PointsSystem) (*domain.Tournament, error) {
	if name == "" {
		return nil, fmt.Errorf("tournament name is required")
	}
	if err := ps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid points system: %w", err)
	}

	t := &domain.Tournament{Name: name, Game: game, PointsSystem: ps}
	if err := s.tournaments.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info().Str("tournament_id", t.ID).Str("name", name).Msg("tournament created")
	return t, nil
}

func (s *TournamentService) Get(ctx context.Context, id string) (*domain.Tournament, error) {
	return s.tournaments.GetByID(ctx, id)
}

// SubmissionCount is the number of per-team match results recorded so far.
func (s *TournamentService) SubmissionCount(ctx context.Context, id string) (int, error) {
	return s.submissions.CountByTournament(ctx, id)
}

func (s *TournamentService) UpdatePointsSystem(ctx context.Context, id string, ps domain.PointsSystem) error {
	if err := ps.Validate(); err != nil {
		return fmt.Errorf("invalid points system: %w", err)
	}
	return s.tournaments.UpdatePointsSystem(ctx, id, ps)
}

// RegisterTeam enters a team into a tournament with a zeroed-stat roster.
func (s *TournamentService) RegisterTeam(ctx context.Context, tournamentID, name string, memberNames []string) (*domain.RegisteredTeam, error) {
	if name == "" {
		return nil, fmt.Errorf("team name is required")
	}
	if _, err := s.tournaments.GetByID(ctx, tournamentID); err != nil {
		return nil, err
	}

	members := make([]domain.Player, 0, len(memberNames))
	for _, n := range memberNames {
		if n == "" {
			continue
		}
		members = append(members, domain.Player{Name: n})
	}

	team := &domain.RegisteredTeam{
		TournamentID: tournamentID,
		Name:         name,
		Members:      members,
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("tournament_id", tournamentID).
		Str("team_id", team.ID).
		Str("name", name).
		Int("member_count", len(members)).
		Msg("team registered")
	return team, nil
}

func (s *TournamentService) ListTeams(ctx context.Context, tournamentID string) ([]domain.RegisteredTeam, error) {
	return s.teams.ListByTournament(ctx, tournamentID)
}

func (s *TournamentService) SearchTeams(ctx context.Context, tournamentID, query string) ([]domain.RegisteredTeam, error) {
	return s.teams.Search(ctx, tournamentID, query, constants.TeamSearchLimit)
}

// Standings computes the current tournament table from persisted stats.
func (s *TournamentService) Standings(ctx context.Context, tournamentID string) ([]scoring.TeamStanding, error) {
	teams, err := s.teams.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	return scoring.Standings(teams), nil
}

// TopPlayers computes the cumulative player-kill leaderboard.
func (s *TournamentService) TopPlayers(ctx context.Context, tournamentID string, limit int) ([]scoring.PlayerRank, error) {
	teams, err := s.teams.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	if limit <= 0 {
		limit = constants.TopPlayersLimit
	}
	return scoring.TopPlayers(teams, limit), nil
}
