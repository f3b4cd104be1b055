package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// ErrDuplicateSubmission marks an attempt to apply the same match result to
// the same team twice.
var ErrDuplicateSubmission = errors.New("match result already submitted for this team")

// SubmissionRepository logs which (team, match) pairs have already been
// folded into cumulative stats, so a re-submission after partial failure
// cannot double-count.
type SubmissionRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSubmissionRepository(db *sql.DB, logger zerolog.Logger) *SubmissionRepository {
	return &SubmissionRepository{db: db, logger: logger}
}

// Record claims the (team, match) pair. The table's UNIQUE constraint
// keeps concurrent submitters from both winning.
func (r *SubmissionRepository) Record(ctx context.Context, tournamentID, teamID, matchID string) error {
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate submission id: %w", err)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO submissions (id, tournament_id, team_id, match_id, submitted_at)
		VALUES (?, ?, ?, ?, ?)`,
		id, tournamentID, teamID, matchID, time.Now(),
	)
	if err != nil {
		r.logger.Error().Err(err).Str("team_id", teamID).Str("match_id", matchID).Msg("failed to record submission")
		return fmt.Errorf("failed to record submission: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDuplicateSubmission
	}
	return nil
}

// Release drops a claim so the pair can be submitted again.
func (r *SubmissionRepository) Release(ctx context.Context, teamID, matchID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		DELETE FROM submissions WHERE team_id = ? AND match_id = ?`,
		teamID, matchID,
	)
	if err != nil {
		return fmt.Errorf("failed to release submission: %w", err)
	}
	return nil
}

// CountByTournament reports how many per-team submissions a tournament has
// accumulated.
func (r *SubmissionRepository) CountByTournament(ctx context.Context, tournamentID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM submissions WHERE tournament_id = ?`, tournamentID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return n, nil
}
