package scoring

import (
	"testing"

	"lobby-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandings(t *testing.T) {
	teams := []domain.RegisteredTeam{
		{ID: "b", Name: "Beta", Stats: domain.TeamStats{MatchesPlayed: 4, Wins: 1, KillPoints: 12, PlacementPoints: 20}},
		{ID: "a", Name: "Alpha", Stats: domain.TeamStats{MatchesPlayed: 4, Wins: 2, KillPoints: 20, PlacementPoints: 22}},
		{ID: "c", Name: "Ceta", Stats: domain.TeamStats{MatchesPlayed: 4, Wins: 2, KillPoints: 14, PlacementPoints: 18}},
	}

	rows := Standings(teams)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"a", "b", "c"}, []string{rows[0].TeamID, rows[1].TeamID, rows[2].TeamID})
	assert.Equal(t, []int{1, 2, 3}, []int{rows[0].Rank, rows[1].Rank, rows[2].Rank})
	assert.Equal(t, 42, rows[0].TotalPoints)
}

func TestStandingsTieBreaksByWins(t *testing.T) {
	teams := []domain.RegisteredTeam{
		{ID: "a", Name: "Alpha", Stats: domain.TeamStats{Wins: 1, KillPoints: 10, PlacementPoints: 10}},
		{ID: "b", Name: "Beta", Stats: domain.TeamStats{Wins: 2, KillPoints: 12, PlacementPoints: 8}},
	}

	rows := Standings(teams)
	assert.Equal(t, "b", rows[0].TeamID)
}

func TestStandingsEmpty(t *testing.T) {
	assert.Empty(t, Standings(nil))
}

func TestTopPlayers(t *testing.T) {
	teams := []domain.RegisteredTeam{
		{
			ID: "a", Name: "Alpha",
			Members: []domain.Player{
				{Name: "Rex", Kills: 20, MatchesPlayed: 5, Wins: 2},
				{Name: "Juno", Kills: 8, MatchesPlayed: 5, Wins: 2},
			},
		},
		{
			ID: "b", Name: "Beta",
			Members: []domain.Player{
				{Name: "Ash", Kills: 20, MatchesPlayed: 4, Wins: 2},
			},
		},
	}

	rows := TopPlayers(teams, 2)
	require.Len(t, rows, 2)

	// Same kills and wins: fewer matches played ranks higher.
	assert.Equal(t, "Ash", rows[0].Name)
	assert.Equal(t, "Rex", rows[1].Name)
	assert.Equal(t, 1, rows[0].Rank)

	all := TopPlayers(teams, 0)
	assert.Len(t, all, 3)
}
