package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Player is one roster member of a registered team. The numeric fields are
// cumulative across every submitted match.
type Player struct {
	Name          string `json:"name"`
	Kills         int    `json:"kills"`
	MatchesPlayed int    `json:"matches_played"`
	Wins          int    `json:"wwcd"`
}

// UnmarshalJSON accepts both the object form and a bare name string; older
// rosters stored members as plain strings.
func (p *Player) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*p = Player{Name: name}
		return nil
	}

	type player Player
	var obj player
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("member is neither a string nor a player object: %w", err)
	}
	*p = Player(obj)
	return nil
}

// RegisteredTeam is a team entered into a tournament. The ID is stable for
// the tournament's lifetime; Members may be empty.
type RegisteredTeam struct {
	ID           string
	TournamentID string
	Name         string
	Members      []Player
	Stats        TeamStats
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TeamStats holds the cumulative per-team totals. Every field only ever
// grows; the accumulator merges by addition.
type TeamStats struct {
	MatchesPlayed   int `json:"matches_played"`
	Wins            int `json:"wins"`
	KillPoints      int `json:"kill_points"`
	PlacementPoints int `json:"placement_points"`
}

func (s TeamStats) TotalPoints() int {
	return s.KillPoints + s.PlacementPoints
}

// PlacementPoints awards a fixed number of points for one finishing rank.
type PlacementPoints struct {
	Placement int `json:"placement"`
	Points    int `json:"points"`
}

// PointsSystem is the tournament's scoring configuration. Placements absent
// from the table score zero.
type PointsSystem struct {
	Placements          []PlacementPoints
	KillPointMultiplier int
}

// PointsFor returns the configured points for a finishing position, or 0
// when the position is unset or unlisted.
func (ps PointsSystem) PointsFor(position int) int {
	if position <= 0 {
		return 0
	}
	for _, p := range ps.Placements {
		if p.Placement == position {
			return p.Points
		}
	}
	return 0
}

// Validate rejects duplicate placement ranks and non-positive placements.
func (ps PointsSystem) Validate() error {
	seen := make(map[int]struct{}, len(ps.Placements))
	for _, p := range ps.Placements {
		if p.Placement <= 0 {
			return fmt.Errorf("placement must be positive, got %d", p.Placement)
		}
		if _, dup := seen[p.Placement]; dup {
			return fmt.Errorf("duplicate placement %d in points system", p.Placement)
		}
		seen[p.Placement] = struct{}{}
	}
	return nil
}

type Tournament struct {
	ID           string
	Name         string
	Game         string
	PointsSystem PointsSystem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ExtractedPlayer is one player row as read from a screenshot.
type ExtractedPlayer struct {
	Name  string `json:"name"`
	Kills int    `json:"kills"`
}

// ExtractionResult is one team as read from a screenshot batch. It is
// transient: consumed during reconciliation and never persisted.
type ExtractionResult struct {
	TeamNameRaw string            `json:"team_name"`
	Rank        int               `json:"rank"`
	Kills       int               `json:"kills"`
	Players     []ExtractedPlayer `json:"players"`
}

// MemberKills records one player's kills within a single match result.
type MemberKills struct {
	Name  string `json:"name"`
	Kills int    `json:"kills"`
}

// MatchResultEntry is the finalized, scoring-ready record for one team in
// one match. Immutable once submitted; a resubmission is a new entry with a
// new MatchID.
type MatchResultEntry struct {
	MatchID         string        `json:"match_id"`
	TeamID          string        `json:"team_id"`
	TeamName        string        `json:"team_name"`
	Position        int           `json:"position"` // 0 means unset
	Kills           int           `json:"kills"`
	PlacementPoints int           `json:"placement_points"`
	KillPoints      int           `json:"kill_points"`
	TotalPoints     int           `json:"total_points"`
	Members         []MemberKills `json:"members"`
}
