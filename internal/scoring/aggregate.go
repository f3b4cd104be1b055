package scoring

import (
	"lobby-tracker/internal/domain"
	"lobby-tracker/internal/names"
)

// ApplyResult merges one submitted match result into a team's cumulative
// stats. Purely additive: every output field is >= its input. Callers guard
// against applying the same match twice.
func ApplyResult(stats domain.TeamStats, entry domain.MatchResultEntry) domain.TeamStats {
	stats.MatchesPlayed++
	if IsWin(entry.Position) {
		stats.Wins++
	}
	stats.KillPoints += entry.KillPoints
	stats.PlacementPoints += entry.PlacementPoints
	return stats
}

// ApplyToRoster folds one match result into the team's roster. Members are
// matched against the entry's kill rows by exact post-normalization name
// equality (BuildEntry already canonicalized the names). Matched members
// gain kills and, on a win, a WWCD; every member gains a match played, with
// or without a kill row. Rows naming nobody on the roster are appended as
// new members.
func ApplyToRoster(members []domain.Player, entry domain.MatchResultEntry) []domain.Player {
	out := make([]domain.Player, len(members))
	copy(out, members)

	win := IsWin(entry.Position)

	matched := make(map[int]bool, len(entry.Members))
	for i := range out {
		out[i].MatchesPlayed++
	}

	for _, mk := range entry.Members {
		idx := -1
		key := names.Normalize(mk.Name)
		for i := range out {
			if !matched[i] && names.Normalize(out[i].Name) == key {
				idx = i
				break
			}
		}

		if idx >= 0 {
			kills := mk.Kills
			if kills < 0 {
				kills = 0
			}
			out[idx].Kills += kills
			if win {
				out[idx].Wins++
			}
			matched[idx] = true
			continue
		}

		newcomer := domain.Player{
			Name:          mk.Name,
			Kills:         mk.Kills,
			MatchesPlayed: 1,
		}
		if newcomer.Kills < 0 {
			newcomer.Kills = 0
		}
		if win {
			newcomer.Wins = 1
		}
		out = append(out, newcomer)
	}

	return out
}
