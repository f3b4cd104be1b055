// Package extraction converts raw vision-API payloads into uniform
// ExtractionResult records. The API is loose about shape: the team array
// may live under "teams" or "results" or be the payload itself, and ranks
// come as numbers or decorated strings ("#1", "Rank 1").
package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"lobby-tracker/internal/domain"
)

// scalar captures a JSON value that may arrive as a number or a string.
type scalar struct {
	raw string
	set bool
}

func (s *scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		s.raw = str
		s.set = true
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		s.raw = num.String()
		s.set = true
		return nil
	}
	// booleans, objects, arrays: ignore rather than fail the whole payload
	return nil
}

// Int parses the scalar as an integer, tolerating decimal noise ("5.0").
func (s scalar) Int() (int, bool) {
	if !s.set {
		return 0, false
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s.raw)); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s.raw), 64); err == nil {
		return int(f), true
	}
	return 0, false
}

// Rank strips every non-digit character and parses the remainder, so "#1"
// and "Rank 1" both yield 1.
func (s scalar) Rank() (int, bool) {
	if !s.set {
		return 0, false
	}
	var b strings.Builder
	for _, r := range s.raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(b.String())
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

type rawPlayer struct {
	Name  string `json:"name"`
	Kills scalar `json:"kills"`
}

type rawTeam struct {
	TeamName string      `json:"team_name"`
	Name     string      `json:"name"`
	Position scalar      `json:"position"`
	Rank     scalar      `json:"rank"`
	Kills    scalar      `json:"kills"`
	Players  []rawPlayer `json:"players"`
}

type rawPayload struct {
	Teams   []rawTeam `json:"teams"`
	Results []rawTeam `json:"results"`
}

// Parse converts a raw vision-API payload into an order-preserving list of
// extraction results. No recognizable team array yields an empty list,
// never an error.
func Parse(payload []byte) []domain.ExtractionResult {
	teams := teamArray(payload)
	if len(teams) == 0 {
		return nil
	}

	results := make([]domain.ExtractionResult, 0, len(teams))
	for i, t := range teams {
		results = append(results, convert(t, i))
	}
	return results
}

func teamArray(payload []byte) []rawTeam {
	var wrapped rawPayload
	if err := json.Unmarshal(payload, &wrapped); err == nil {
		if len(wrapped.Teams) > 0 {
			return wrapped.Teams
		}
		if len(wrapped.Results) > 0 {
			return wrapped.Results
		}
	}

	var bare []rawTeam
	if err := json.Unmarshal(payload, &bare); err == nil {
		return bare
	}
	return nil
}

func convert(t rawTeam, index int) domain.ExtractionResult {
	players := make([]domain.ExtractedPlayer, 0, len(t.Players))
	playerKills := 0
	for _, p := range t.Players {
		kills, _ := p.Kills.Int()
		if kills < 0 {
			kills = 0
		}
		playerKills += kills
		players = append(players, domain.ExtractedPlayer{Name: p.Name, Kills: kills})
	}

	kills, ok := t.Kills.Int()
	if !ok || kills < 0 {
		kills = playerKills
	}

	rank, ok := t.Position.Rank()
	if !ok {
		rank, ok = t.Rank.Rank()
	}
	if !ok {
		rank = index + 1
	}

	name := t.TeamName
	if name == "" {
		name = t.Name
	}
	if name == "" {
		if len(players) > 0 && players[0].Name != "" {
			name = fmt.Sprintf("%s's Team", players[0].Name)
		} else {
			name = fmt.Sprintf("Team #%d", rank)
		}
	}

	return domain.ExtractionResult{
		TeamNameRaw: name,
		Rank:        rank,
		Kills:       kills,
		Players:     players,
	}
}
