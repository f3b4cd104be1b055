package service

import (
	"testing"

	"lobby-tracker/internal/domain"
	"lobby-tracker/internal/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultCycleHappyPath(t *testing.T) {
	c := NewResultCycle()
	assert.Equal(t, StateExtracting, c.State())

	results := []domain.ExtractionResult{{TeamNameRaw: "Alpha", Rank: 1}}
	teams := []domain.RegisteredTeam{{ID: "t1", Name: "Alpha"}}

	require.NoError(t, c.SetParsed(results))
	assert.Equal(t, StateParsed, c.State())

	m := reconcile.Reconcile(results, teams)
	require.NoError(t, c.BeginMapping(m))
	assert.Equal(t, StateMapping, c.State())

	require.NoError(t, c.MarkReviewed())
	require.NoError(t, c.SetScored([]domain.MatchResultEntry{{MatchID: "m1", TeamID: "t1"}}))
	require.NoError(t, c.MarkSubmitted())
	assert.Equal(t, StateSubmitted, c.State())
}

func TestResultCycleIncompleteMappingCannotBeReviewed(t *testing.T) {
	c := NewResultCycle()
	results := []domain.ExtractionResult{{TeamNameRaw: "Nobody Registered", Rank: 1}}

	require.NoError(t, c.SetParsed(results))
	require.NoError(t, c.BeginMapping(reconcile.Reconcile(results, nil)))

	err := c.MarkReviewed()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StateMapping, c.State())
}

func TestResultCycleSubmittedIsTerminal(t *testing.T) {
	c := NewResultCycle()
	require.NoError(t, c.SetParsed(nil))
	require.NoError(t, c.BeginMapping(reconcile.Reconcile(nil, nil)))
	require.NoError(t, c.MarkReviewed())
	require.NoError(t, c.SetScored(nil))
	require.NoError(t, c.MarkSubmitted())

	assert.ErrorIs(t, c.SetParsed(nil), ErrInvalidTransition)
	assert.ErrorIs(t, c.MarkSubmitted(), ErrInvalidTransition)
}

func TestResultCycleOutOfOrder(t *testing.T) {
	c := NewResultCycle()
	assert.ErrorIs(t, c.MarkReviewed(), ErrInvalidTransition)
	assert.ErrorIs(t, c.SetScored(nil), ErrInvalidTransition)
	assert.ErrorIs(t, c.MarkSubmitted(), ErrInvalidTransition)
}
