package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"lobby-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type TeamRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewTeamRepository(db *sql.DB, logger zerolog.Logger) *TeamRepository {
	return &TeamRepository{db: db, logger: logger}
}

func (r *TeamRepository) Create(ctx context.Context, team *domain.RegisteredTeam) error {
	if team.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate team id: %w", err)
		}
		team.ID = id
	}
	if team.Members == nil {
		team.Members = []domain.Player{}
	}

	members, err := json.Marshal(team.Members)
	if err != nil {
		return fmt.Errorf("failed to marshal members: %w", err)
	}
	stats, err := json.Marshal(team.Stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	now := time.Now()
	team.CreatedAt = now
	team.UpdatedAt = now

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO tournament_teams (id, tournament_id, team_name, members, total_points, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		team.ID, team.TournamentID, team.Name, string(members), string(stats), team.CreatedAt, team.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("team_id", team.ID).Msg("failed to insert team")
		return fmt.Errorf("failed to insert team: %w", err)
	}
	return nil
}

func (r *TeamRepository) Get(ctx context.Context, id string) (*domain.RegisteredTeam, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, tournament_id, team_name, members, total_points, created_at, updated_at
		FROM tournament_teams WHERE id = ?`, id,
	)
	team, err := scanTeam(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("team %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

func (r *TeamRepository) ListByTournament(ctx context.Context, tournamentID string) ([]domain.RegisteredTeam, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tournament_id, team_name, members, total_points, created_at, updated_at
		FROM tournament_teams WHERE tournament_id = ? ORDER BY created_at, id`, tournamentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []domain.RegisteredTeam
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, *team)
	}
	return teams, rows.Err()
}

func (r *TeamRepository) Search(ctx context.Context, tournamentID, query string, limit int) ([]domain.RegisteredTeam, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tournament_id, team_name, members, total_points, created_at, updated_at
		FROM tournament_teams
		WHERE tournament_id = ? AND team_name LIKE ?
		ORDER BY team_name LIMIT ?`,
		tournamentID, "%"+query+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search teams: %w", err)
	}
	defer rows.Close()

	var teams []domain.RegisteredTeam
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, *team)
	}
	return teams, rows.Err()
}

// UpdateStats writes back a team's cumulative totals and roster after a
// submission. The two columns always move together.
func (r *TeamRepository) UpdateStats(ctx context.Context, id string, stats domain.TeamStats, members []domain.Player) error {
	if members == nil {
		members = []domain.Player{}
	}
	membersJSON, err := json.Marshal(members)
	if err != nil {
		return fmt.Errorf("failed to marshal members: %w", err)
	}
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE tournament_teams SET total_points = ?, members = ?, updated_at = ? WHERE id = ?`,
		string(statsJSON), string(membersJSON), time.Now(), id,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("team_id", id).Msg("failed to update team stats")
		return fmt.Errorf("failed to update team stats: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("team %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tournament_teams WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("team %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTeam(row rowScanner) (*domain.RegisteredTeam, error) {
	var team domain.RegisteredTeam
	var members, stats string
	err := row.Scan(&team.ID, &team.TournamentID, &team.Name, &members, &stats, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		return nil, err
	}

	// members tolerates both player objects and bare name strings; the
	// domain.Player unmarshaller handles the union.
	if err := json.Unmarshal([]byte(members), &team.Members); err != nil {
		return nil, fmt.Errorf("malformed members column for team %s: %w", team.ID, err)
	}
	if stats != "" && stats != "{}" {
		if err := json.Unmarshal([]byte(stats), &team.Stats); err != nil {
			return nil, fmt.Errorf("malformed total_points column for team %s: %w", team.ID, err)
		}
	}
	return &team, nil
}
