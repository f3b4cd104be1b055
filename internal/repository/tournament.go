package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lobby-tracker/internal/constants"
	"lobby-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("not found")

// withTimeout bounds one repository write.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, constants.DatabaseTimeout)
}

type TournamentRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewTournamentRepository(db *sql.DB, logger zerolog.Logger) *TournamentRepository {
	return &TournamentRepository{db: db, logger: logger}
}

func (r *TournamentRepository) Create(ctx context.Context, t *domain.Tournament) error {
	if t.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate tournament id: %w", err)
		}
		t.ID = id
	}

	ps, err := json.Marshal(t.PointsSystem.Placements)
	if err != nil {
		return fmt.Errorf("failed to marshal points system: %w", err)
	}

	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO tournaments (id, name, game, points_system, kill_points, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Game, string(ps), t.PointsSystem.KillPointMultiplier, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("tournament_id", t.ID).Msg("failed to insert tournament")
		return fmt.Errorf("failed to insert tournament: %w", err)
	}
	return nil
}

func (r *TournamentRepository) GetByID(ctx context.Context, id string) (*domain.Tournament, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, game, points_system, kill_points, created_at, updated_at
		FROM tournaments WHERE id = ?`, id,
	)

	var t domain.Tournament
	var ps string
	err := row.Scan(&t.ID, &t.Name, &t.Game, &ps, &t.PointsSystem.KillPointMultiplier, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("tournament %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}

	if err := json.Unmarshal([]byte(ps), &t.PointsSystem.Placements); err != nil {
		r.logger.Warn().Err(err).Str("tournament_id", id).Msg("malformed points_system column, using empty table")
		t.PointsSystem.Placements = nil
	}
	return &t, nil
}

func (r *TournamentRepository) UpdatePointsSystem(ctx context.Context, id string, ps domain.PointsSystem) error {
	placements, err := json.Marshal(ps.Placements)
	if err != nil {
		return fmt.Errorf("failed to marshal points system: %w", err)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE tournaments SET points_system = ?, kill_points = ?, updated_at = ? WHERE id = ?`,
		string(placements), ps.KillPointMultiplier, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update points system: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("tournament %s: %w", id, ErrNotFound)
	}
	return nil
}
