package constants

import "time"

// Matching thresholds for reconciling extracted names against the
// registered roster.
const (
	// TeamMatchThreshold is the minimum name similarity for pass 1 of
	// reconciliation (extracted team name against registered team names).
	TeamMatchThreshold = 0.8

	// PlayerMatchThreshold is the minimum name similarity when matching an
	// extracted player against a team's roster (pass 2 and member-kill
	// attribution).
	PlayerMatchThreshold = 0.85

	// RosterOverlapMin is how many extracted players must fuzzy-match a
	// team's roster before pass 2 accepts the team.
	RosterOverlapMin = 2
)

const (
	// ExternalAPITimeout bounds one vision-extraction call; screenshot
	// batches take a while to run through the model.
	ExternalAPITimeout = 60 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 90 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	TeamSearchLimit = 10
	TopPlayersLimit = 10

	// SubmitConcurrency caps how many per-team stat updates run at once
	// during a submission fan-out.
	SubmitConcurrency = 8
)
