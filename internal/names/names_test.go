package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"mixed punctuation", "Team-Alpha!", "teamalpha"},
		{"spaces", "team alpha", "teamalpha"},
		{"underscores and caps", "TEAM_ALPHA", "teamalpha"},
		{"digits kept", "Squad 47", "squad47"},
		{"empty", "", ""},
		{"only punctuation", "!!! ---", ""},
		{"unicode stripped", "Tëam", "tam"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Team-Alpha!", "  spaced out  ", "MiXeD123", "", "ÆØÅ"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalize(normalize(%q))", in)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "Alpha", "Alpha", 1},
		{"identical after normalization", "Team-Alpha!", "team alpha", 1},
		{"both empty", "", "", 1},
		{"one empty", "abc", "", 0},
		{"other empty", "", "abc", 0},
		{"single substitution", "Alpha", "Alpka", 1 - 1.0/5},
		{"doubled letter", "Alphaa", "Alpha", 1 - 1.0/6},
		{"disjoint", "abc", "xyz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"Alpha", "Alpka"},
		{"Team Rocket", "teamrockt"},
		{"", "nonempty"},
		{"short", "a much longer name"},
	}
	for _, p := range pairs {
		assert.Equal(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]), "similarity(%q,%q)", p[0], p[1])
	}
}

func TestBest(t *testing.T) {
	type team struct {
		ID   int
		Name string
	}
	teams := []team{
		{1, "Alpha"},
		{2, "Beta"},
		{3, "Gamma Squad"},
	}
	nameOf := func(tm team) string { return tm.Name }

	t.Run("typo matches above threshold", func(t *testing.T) {
		m, ok := Best("Alphaa", teams, nameOf, 0.8)
		assert.True(t, ok)
		assert.Equal(t, 1, m.Item.ID)
		assert.GreaterOrEqual(t, m.Score, 0.8)
	})

	t.Run("no candidate above threshold", func(t *testing.T) {
		_, ok := Best("Omega", teams, nameOf, 0.8)
		assert.False(t, ok)
	})

	t.Run("never returns a score below threshold", func(t *testing.T) {
		for _, name := range []string{"Alp", "Gama", "Betta", "zzz", ""} {
			if m, ok := Best(name, teams, nameOf, 0.8); ok {
				assert.GreaterOrEqual(t, m.Score, 0.8, "name %q", name)
			}
		}
	})

	t.Run("tie goes to the first candidate", func(t *testing.T) {
		dupes := []team{{10, "Echo"}, {11, "Echo"}}
		m, ok := Best("Echo", dupes, nameOf, 0.8)
		assert.True(t, ok)
		assert.Equal(t, 10, m.Item.ID)
		assert.Equal(t, 0, m.Index)
	})

	t.Run("empty candidate list", func(t *testing.T) {
		_, ok := Best("Alpha", nil, nameOf, 0.8)
		assert.False(t, ok)
	})
}
