package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"lobby-tracker/internal/constants"
	"lobby-tracker/internal/domain"
	"lobby-tracker/internal/reconcile"
	"lobby-tracker/internal/scoring"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// TeamStore is the slice of the team repository the result service needs.
type TeamStore interface {
	Get(ctx context.Context, id string) (*domain.RegisteredTeam, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]domain.RegisteredTeam, error)
	UpdateStats(ctx context.Context, id string, stats domain.TeamStats, members []domain.Player) error
}

// SubmissionStore claims and releases (team, match) submission slots.
type SubmissionStore interface {
	Record(ctx context.Context, tournamentID, teamID, matchID string) error
	Release(ctx context.Context, teamID, matchID string) error
}

// TournamentStore is the slice of the tournament repository used here.
type TournamentStore interface {
	GetByID(ctx context.Context, id string) (*domain.Tournament, error)
}

// ErrEntryOutOfRange marks an assignment index with no extraction entry
// behind it. Caller input, not an internal fault.
var ErrEntryOutOfRange = errors.New("assignment index out of range")

type ResultService struct {
	teams       TeamStore
	submissions SubmissionStore
	tournaments TournamentStore
	logger      zerolog.Logger
}

func NewResultService(teams TeamStore, submissions SubmissionStore, tournaments TournamentStore, logger zerolog.Logger) *ResultService {
	return &ResultService{teams: teams, submissions: submissions, tournaments: tournaments, logger: logger}
}

// Reconcile proposes a mapping from an extraction batch onto the
// tournament's registered teams. Advisory; the operator edits it before
// entries are built.
func (s *ResultService) Reconcile(ctx context.Context, tournamentID string, results []domain.ExtractionResult) (*reconcile.Mapping, []domain.RegisteredTeam, error) {
	teams, err := s.teams.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load registered teams: %w", err)
	}

	m := reconcile.Reconcile(results, teams)
	s.logger.Info().
		Str("tournament_id", tournamentID).
		Int("extracted", m.Len()).
		Int("auto_mapped", m.Assigned()).
		Msg("reconciliation proposed")
	return m, teams, nil
}

// BuildEntries turns a confirmed mapping into scoring-ready match results.
// Assignments are operator input, so a team claimed twice fails the build.
func (s *ResultService) BuildEntries(ctx context.Context, tournamentID string, results []domain.ExtractionResult, assignments map[int]string) ([]domain.MatchResultEntry, error) {
	tournament, err := s.tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament: %w", err)
	}

	claimed := make(map[string]int, len(assignments))
	for i, teamID := range assignments {
		if prev, dup := claimed[teamID]; dup {
			return nil, fmt.Errorf("entries %d and %d both claim team %s: %w", prev, i, teamID, reconcile.ErrTeamClaimed)
		}
		claimed[teamID] = i
	}

	indices := make([]int, 0, len(assignments))
	for i := range assignments {
		if i < 0 || i >= len(results) {
			return nil, fmt.Errorf("assignment index %d with %d entries: %w", i, len(results), ErrEntryOutOfRange)
		}
		indices = append(indices, i)
	}
	sort.Ints(indices)

	entries := make([]domain.MatchResultEntry, 0, len(indices))
	for _, i := range indices {
		team, err := s.teams.Get(ctx, assignments[i])
		if err != nil {
			return nil, fmt.Errorf("failed to load team %s: %w", assignments[i], err)
		}
		entry, err := scoring.BuildEntry(results[i], *team, tournament.PointsSystem)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ScoreManualEntry scores an operator-entered result for one team. Member
// kills, when present, drive the team total. Entries without a match ID get
// a fresh one so the scored entry can go straight to Submit.
func (s *ResultService) ScoreManualEntry(ctx context.Context, tournamentID string, entry domain.MatchResultEntry) (domain.MatchResultEntry, error) {
	tournament, err := s.tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return domain.MatchResultEntry{}, fmt.Errorf("failed to load tournament: %w", err)
	}

	if entry.MatchID == "" {
		matchID, err := gonanoid.New()
		if err != nil {
			return domain.MatchResultEntry{}, fmt.Errorf("failed to generate match id: %w", err)
		}
		entry.MatchID = matchID
	}

	hasMemberKills := false
	for _, m := range entry.Members {
		if m.Kills > 0 {
			hasMemberKills = true
			break
		}
	}
	if hasMemberKills {
		return scoring.RecalculateKills(entry, tournament.PointsSystem), nil
	}

	if entry.Kills < 0 {
		entry.Kills = 0
	}
	bd := scoring.Score(entry.Position, entry.Kills, tournament.PointsSystem)
	entry.PlacementPoints = bd.PlacementPoints
	entry.KillPoints = bd.KillPoints
	entry.TotalPoints = bd.TotalPoints
	return entry, nil
}

// TeamOutcome is the per-team result of one submission fan-out.
type TeamOutcome struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	MatchID  string `json:"match_id"`
	Err      error  `json:"-"`
}

// SubmitReport is the consolidated outcome of a submission. Partial failure
// is a normal outcome, not an error: the submission log keeps a retry from
// double-counting the teams that succeeded.
type SubmitReport struct {
	Succeeded []TeamOutcome
	Failed    []TeamOutcome
}

// Submit folds finalized match results into persisted cumulative stats.
// Reconciliation guarantees at most one entry per team per batch, so the
// per-team updates run in parallel.
func (s *ResultService) Submit(ctx context.Context, tournamentID string, entries []domain.MatchResultEntry) (*SubmitReport, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no entries to submit")
	}

	outcomes := make([]TeamOutcome, len(entries))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(constants.SubmitConcurrency)

	for i, entry := range entries {
		g.Go(func() error {
			err := s.submitOne(gCtx, tournamentID, entry)
			mu.Lock()
			outcomes[i] = TeamOutcome{TeamID: entry.TeamID, TeamName: entry.TeamName, MatchID: entry.MatchID, Err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	report := &SubmitReport{}
	for _, o := range outcomes {
		if o.Err != nil {
			report.Failed = append(report.Failed, o)
		} else {
			report.Succeeded = append(report.Succeeded, o)
		}
	}

	s.logger.Info().
		Str("tournament_id", tournamentID).
		Int("succeeded", len(report.Succeeded)).
		Int("failed", len(report.Failed)).
		Msg("results submitted")
	return report, nil
}

func (s *ResultService) submitOne(ctx context.Context, tournamentID string, entry domain.MatchResultEntry) error {
	if entry.TeamID == "" {
		return fmt.Errorf("entry has no team id")
	}
	if entry.MatchID == "" {
		return fmt.Errorf("entry has no match id")
	}

	// claim before touching stats
	if err := s.submissions.Record(ctx, tournamentID, entry.TeamID, entry.MatchID); err != nil {
		return err
	}

	team, err := s.teams.Get(ctx, entry.TeamID)
	if err == nil {
		newStats := scoring.ApplyResult(team.Stats, entry)
		newMembers := scoring.ApplyToRoster(team.Members, entry)
		err = s.teams.UpdateStats(ctx, entry.TeamID, newStats, newMembers)
	}
	if err != nil {
		// release the claim so a retry can go through
		if relErr := s.submissions.Release(ctx, entry.TeamID, entry.MatchID); relErr != nil {
			s.logger.Error().Err(relErr).
				Str("team_id", entry.TeamID).
				Str("match_id", entry.MatchID).
				Msg("failed to release submission claim after error")
		}
		s.logger.Error().Err(err).Str("team_id", entry.TeamID).Msg("failed to apply result")
		return err
	}
	return nil
}
