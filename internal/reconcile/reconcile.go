// Package reconcile maps extracted team records onto registered teams.
// Rosters are more stable than display names, so a roster-overlap fallback
// recovers matches that name similarity alone would miss.
package reconcile

import (
	"errors"

	"lobby-tracker/internal/constants"
	"lobby-tracker/internal/domain"
	"lobby-tracker/internal/names"
)

// ErrTeamClaimed is returned when an assignment targets a registered team
// already claimed by a different extraction entry in the same batch.
var ErrTeamClaimed = errors.New("registered team already claimed by another entry")

// Assignment is one proposed or confirmed mapping row.
type Assignment struct {
	TeamID string
	// Auto marks engine-proposed rows, as opposed to operator assignments.
	Auto bool
	// Score is the similarity confidence of an auto assignment, 0 for
	// operator assignments.
	Score float64
}

// Mapping associates extraction entries (by index) with registered team
// IDs. Within one batch each registered team is claimed at most once; the
// mutators enforce that invariant.
type Mapping struct {
	entries   int
	byEntry   map[int]Assignment
	claimedBy map[string]int
}

func newMapping(entries int) *Mapping {
	return &Mapping{
		entries:   entries,
		byEntry:   make(map[int]Assignment),
		claimedBy: make(map[string]int),
	}
}

// Reconcile proposes a mapping for one extraction batch against the
// registered team list. Pass 1 matches team names. Pass 2 revisits
// unresolved entries that list players and claims the first unclaimed team
// whose roster fuzzy-matches at least RosterOverlapMin of them. Entries
// unresolved by both passes stay unmapped for operator confirmation.
func Reconcile(results []domain.ExtractionResult, teams []domain.RegisteredTeam) *Mapping {
	m := newMapping(len(results))

	teamName := func(t domain.RegisteredTeam) string { return t.Name }

	for i, res := range results {
		match, ok := names.Best(res.TeamNameRaw, teams, teamName, constants.TeamMatchThreshold)
		if !ok || m.Claimed(match.Item.ID) {
			continue
		}
		m.set(i, Assignment{TeamID: match.Item.ID, Auto: true, Score: match.Score})
	}

	for i, res := range results {
		if _, mapped := m.byEntry[i]; mapped || len(res.Players) == 0 {
			continue
		}
		for _, team := range teams {
			if m.Claimed(team.ID) || len(team.Members) == 0 {
				continue
			}
			count, avg := rosterOverlap(res.Players, team.Members)
			if count >= constants.RosterOverlapMin {
				m.set(i, Assignment{TeamID: team.ID, Auto: true, Score: avg})
				break
			}
		}
	}

	return m
}

// rosterOverlap counts how many extracted players fuzzy-match a roster
// member, and averages the similarity of the hits.
func rosterOverlap(players []domain.ExtractedPlayer, members []domain.Player) (int, float64) {
	memberName := func(p domain.Player) string { return p.Name }

	count := 0
	total := 0.0
	for _, p := range players {
		if match, ok := names.Best(p.Name, members, memberName, constants.PlayerMatchThreshold); ok {
			count++
			total += match.Score
		}
	}
	if count == 0 {
		return 0, 0
	}
	return count, total / float64(count)
}

func (m *Mapping) set(entry int, a Assignment) {
	m.byEntry[entry] = a
	m.claimedBy[a.TeamID] = entry
}

// Assign maps an extraction entry to a registered team on the operator's
// behalf. A team claimed by a different entry is refused and the prior
// state kept.
func (m *Mapping) Assign(entry int, teamID string) error {
	if holder, claimed := m.claimedBy[teamID]; claimed && holder != entry {
		return ErrTeamClaimed
	}
	m.Clear(entry)
	m.set(entry, Assignment{TeamID: teamID})
	return nil
}

// Clear removes an entry's mapping, releasing its claim so the team can be
// reassigned.
func (m *Mapping) Clear(entry int) {
	if a, ok := m.byEntry[entry]; ok {
		delete(m.claimedBy, a.TeamID)
		delete(m.byEntry, entry)
	}
}

// Get returns the assignment for an extraction entry, if any.
func (m *Mapping) Get(entry int) (Assignment, bool) {
	a, ok := m.byEntry[entry]
	return a, ok
}

// Claimed reports whether a registered team is already a mapping target.
func (m *Mapping) Claimed(teamID string) bool {
	_, ok := m.claimedBy[teamID]
	return ok
}

// Complete reports whether every extraction entry has a mapping target.
func (m *Mapping) Complete() bool {
	return len(m.byEntry) == m.entries
}

// Len returns the number of extraction entries in the batch.
func (m *Mapping) Len() int { return m.entries }

// Assigned returns the number of mapped entries.
func (m *Mapping) Assigned() int { return len(m.byEntry) }

// Unmapped lists the extraction entries still needing operator attention.
func (m *Mapping) Unmapped() []int {
	var out []int
	for i := 0; i < m.entries; i++ {
		if _, ok := m.byEntry[i]; !ok {
			out = append(out, i)
		}
	}
	return out
}
