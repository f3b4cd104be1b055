package scoring

import (
	"testing"

	"lobby-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyResult(t *testing.T) {
	stats := domain.TeamStats{MatchesPlayed: 2, Wins: 0, KillPoints: 10, PlacementPoints: 8}
	entry := domain.MatchResultEntry{Position: 1, KillPoints: 5, PlacementPoints: 10}

	got := ApplyResult(stats, entry)

	assert.Equal(t, domain.TeamStats{
		MatchesPlayed:   3,
		Wins:            1,
		KillPoints:      15,
		PlacementPoints: 18,
	}, got)
}

func TestApplyResultNoWinBelowFirst(t *testing.T) {
	got := ApplyResult(domain.TeamStats{}, domain.MatchResultEntry{Position: 2, KillPoints: 3})
	assert.Equal(t, 0, got.Wins)
	assert.Equal(t, 1, got.MatchesPlayed)
}

func TestApplyResultMonotonic(t *testing.T) {
	stats := domain.TeamStats{MatchesPlayed: 5, Wins: 2, KillPoints: 40, PlacementPoints: 31}
	entries := []domain.MatchResultEntry{
		{Position: 1, KillPoints: 4, PlacementPoints: 10},
		{Position: 0, KillPoints: 0, PlacementPoints: 0},
		{Position: 9, KillPoints: 1, PlacementPoints: 0},
	}
	for _, e := range entries {
		next := ApplyResult(stats, e)
		assert.GreaterOrEqual(t, next.MatchesPlayed, stats.MatchesPlayed)
		assert.GreaterOrEqual(t, next.Wins, stats.Wins)
		assert.GreaterOrEqual(t, next.KillPoints, stats.KillPoints)
		assert.GreaterOrEqual(t, next.PlacementPoints, stats.PlacementPoints)
		stats = next
	}
}

func TestApplyToRoster(t *testing.T) {
	members := []domain.Player{
		{Name: "Rex", Kills: 10, MatchesPlayed: 3, Wins: 1},
		{Name: "Juno", Kills: 4, MatchesPlayed: 3, Wins: 1},
		{Name: "Piper", Kills: 0, MatchesPlayed: 2, Wins: 0},
	}
	entry := domain.MatchResultEntry{
		Position: 1,
		Members: []domain.MemberKills{
			{Name: "Rex", Kills: 5},
			{Name: "juno!", Kills: 2}, // matches by normalized name
		},
	}

	got := ApplyToRoster(members, entry)
	require.Len(t, got, 3)

	assert.Equal(t, domain.Player{Name: "Rex", Kills: 15, MatchesPlayed: 4, Wins: 2}, got[0])
	assert.Equal(t, domain.Player{Name: "Juno", Kills: 6, MatchesPlayed: 4, Wins: 2}, got[1])
	// Piper had no kill row: attendance still counts, kills and wins do not move.
	assert.Equal(t, domain.Player{Name: "Piper", Kills: 0, MatchesPlayed: 3, Wins: 0}, got[2])
}

func TestApplyToRosterLearnsNewPlayers(t *testing.T) {
	members := []domain.Player{{Name: "Rex", MatchesPlayed: 1}}
	entry := domain.MatchResultEntry{
		Position: 1,
		Members: []domain.MemberKills{
			{Name: "Rex", Kills: 2},
			{Name: "Substitute", Kills: 7},
		},
	}

	got := ApplyToRoster(members, entry)
	require.Len(t, got, 2)
	assert.Equal(t, domain.Player{Name: "Substitute", Kills: 7, MatchesPlayed: 1, Wins: 1}, got[1])
}

func TestApplyToRosterDoesNotMutateInput(t *testing.T) {
	members := []domain.Player{{Name: "Rex", Kills: 1, MatchesPlayed: 1}}
	_ = ApplyToRoster(members, domain.MatchResultEntry{
		Position: 1,
		Members:  []domain.MemberKills{{Name: "Rex", Kills: 9}},
	})
	assert.Equal(t, domain.Player{Name: "Rex", Kills: 1, MatchesPlayed: 1}, members[0])
}

func TestApplyToRosterDuplicateResultRows(t *testing.T) {
	// Two extraction rows resolving to the same roster name: the first row
	// credits the member, the second is treated as a newcomer rather than
	// double-crediting.
	members := []domain.Player{{Name: "Rex"}}
	entry := domain.MatchResultEntry{
		Members: []domain.MemberKills{
			{Name: "Rex", Kills: 3},
			{Name: "rex", Kills: 4},
		},
	}

	got := ApplyToRoster(members, entry)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].Kills)
	assert.Equal(t, 1, got[0].MatchesPlayed)
}
