// Package scoring computes placement and kill points for reconciled match
// results and folds submitted results into cumulative team and player
// statistics. Every function here is pure; persistence happens elsewhere.
package scoring

import (
	"fmt"

	"lobby-tracker/internal/constants"
	"lobby-tracker/internal/domain"
	"lobby-tracker/internal/names"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// PointsBreakdown is the scored outcome for one team in one match.
type PointsBreakdown struct {
	PlacementPoints int `json:"placement_points"`
	KillPoints      int `json:"kill_points"`
	TotalPoints     int `json:"total_points"`
}

// Score computes the points for a finishing position and kill count under
// the tournament's points system. An unset position (0) or one outside the
// configured table earns zero placement points.
func Score(position, kills int, ps domain.PointsSystem) PointsBreakdown {
	placement := ps.PointsFor(position)
	killPts := kills * ps.KillPointMultiplier
	return PointsBreakdown{
		PlacementPoints: placement,
		KillPoints:      killPts,
		TotalPoints:     placement + killPts,
	}
}

// IsWin reports whether a finishing position counts as a match win.
func IsWin(position int) bool {
	return position == 1
}

// BuildEntry turns one confirmed mapping row into a scoring-ready match
// result. Extracted player names are canonicalized onto the registered
// roster where they fuzzy-match, so accumulation can use exact equality.
// Each entry gets a fresh match ID.
func BuildEntry(res domain.ExtractionResult, team domain.RegisteredTeam, ps domain.PointsSystem) (domain.MatchResultEntry, error) {
	matchID, err := gonanoid.New()
	if err != nil {
		return domain.MatchResultEntry{}, fmt.Errorf("failed to generate match id: %w", err)
	}

	memberName := func(p domain.Player) string { return p.Name }

	members := make([]domain.MemberKills, 0, len(res.Players))
	for _, p := range res.Players {
		name := p.Name
		if match, ok := names.Best(p.Name, team.Members, memberName, constants.PlayerMatchThreshold); ok {
			name = match.Item.Name
		}
		kills := p.Kills
		if kills < 0 {
			kills = 0
		}
		members = append(members, domain.MemberKills{Name: name, Kills: kills})
	}

	kills := res.Kills
	if kills < 0 {
		kills = 0
	}

	bd := Score(res.Rank, kills, ps)
	return domain.MatchResultEntry{
		MatchID:         matchID,
		TeamID:          team.ID,
		TeamName:        team.Name,
		Position:        res.Rank,
		Kills:           kills,
		PlacementPoints: bd.PlacementPoints,
		KillPoints:      bd.KillPoints,
		TotalPoints:     bd.TotalPoints,
		Members:         members,
	}, nil
}

// RecalculateKills derives the team total from its per-member kill entries
// and rescores. Once any member kill exists the team total is the member
// sum, never edited independently.
func RecalculateKills(entry domain.MatchResultEntry, ps domain.PointsSystem) domain.MatchResultEntry {
	total := 0
	for _, m := range entry.Members {
		if m.Kills > 0 {
			total += m.Kills
		}
	}
	entry.Kills = total

	bd := Score(entry.Position, entry.Kills, ps)
	entry.PlacementPoints = bd.PlacementPoints
	entry.KillPoints = bd.KillPoints
	entry.TotalPoints = bd.TotalPoints
	return entry
}
