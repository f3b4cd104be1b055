package scoring

import (
	"sort"

	"lobby-tracker/internal/domain"
)

// TeamStanding is one row of the tournament standings table.
type TeamStanding struct {
	Rank            int    `json:"rank"`
	TeamID          string `json:"team_id"`
	TeamName        string `json:"team_name"`
	MatchesPlayed   int    `json:"matches_played"`
	Wins            int    `json:"wins"`
	KillPoints      int    `json:"kill_points"`
	PlacementPoints int    `json:"placement_points"`
	TotalPoints     int    `json:"total_points"`
}

// Standings orders teams by total points, breaking ties by wins, then
// placement points, then name for a stable table. Ranks are 1-based in
// the returned order.
func Standings(teams []domain.RegisteredTeam) []TeamStanding {
	rows := make([]TeamStanding, 0, len(teams))
	for _, t := range teams {
		rows = append(rows, TeamStanding{
			TeamID:          t.ID,
			TeamName:        t.Name,
			MatchesPlayed:   t.Stats.MatchesPlayed,
			Wins:            t.Stats.Wins,
			KillPoints:      t.Stats.KillPoints,
			PlacementPoints: t.Stats.PlacementPoints,
			TotalPoints:     t.Stats.TotalPoints(),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalPoints != rows[j].TotalPoints {
			return rows[i].TotalPoints > rows[j].TotalPoints
		}
		if rows[i].Wins != rows[j].Wins {
			return rows[i].Wins > rows[j].Wins
		}
		if rows[i].PlacementPoints != rows[j].PlacementPoints {
			return rows[i].PlacementPoints > rows[j].PlacementPoints
		}
		return rows[i].TeamName < rows[j].TeamName
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// PlayerRank is one row of the cumulative player leaderboard.
type PlayerRank struct {
	Rank          int    `json:"rank"`
	Name          string `json:"name"`
	TeamID        string `json:"team_id"`
	TeamName      string `json:"team_name"`
	Kills         int    `json:"kills"`
	MatchesPlayed int    `json:"matches_played"`
	Wins          int    `json:"wwcd"`
}

// TopPlayers ranks every rostered player across the tournament by
// cumulative kills, breaking ties by wins then matches played (fewer
// matches for the same kills ranks higher). n <= 0 returns all players.
func TopPlayers(teams []domain.RegisteredTeam, n int) []PlayerRank {
	var rows []PlayerRank
	for _, t := range teams {
		for _, p := range t.Members {
			rows = append(rows, PlayerRank{
				Name:          p.Name,
				TeamID:        t.ID,
				TeamName:      t.Name,
				Kills:         p.Kills,
				MatchesPlayed: p.MatchesPlayed,
				Wins:          p.Wins,
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Kills != rows[j].Kills {
			return rows[i].Kills > rows[j].Kills
		}
		if rows[i].Wins != rows[j].Wins {
			return rows[i].Wins > rows[j].Wins
		}
		if rows[i].MatchesPlayed != rows[j].MatchesPlayed {
			return rows[i].MatchesPlayed < rows[j].MatchesPlayed
		}
		return rows[i].Name < rows[j].Name
	})

	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
