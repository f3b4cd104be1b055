package service

import (
	"errors"
	"fmt"

	"lobby-tracker/internal/domain"
	"lobby-tracker/internal/reconcile"
)

// CycleState tracks one extraction batch from screenshot to submission.
type CycleState int

const (
	StateExtracting CycleState = iota
	StateParsed
	StateMapping
	StateReviewed
	StateScored
	StateSubmitted
)

func (s CycleState) String() string {
	switch s {
	case StateExtracting:
		return "extracting"
	case StateParsed:
		return "parsed"
	case StateMapping:
		return "mapping"
	case StateReviewed:
		return "reviewed"
	case StateScored:
		return "scored"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

var ErrInvalidTransition = errors.New("invalid cycle transition")

// ResultCycle enforces the order of one reconciliation-to-submission run:
// extracting, parsed, mapping, reviewed, scored, submitted. Review requires
// a complete mapping; submitted is terminal.
type ResultCycle struct {
	state   CycleState
	results []domain.ExtractionResult
	mapping *reconcile.Mapping
	entries []domain.MatchResultEntry
}

func NewResultCycle() *ResultCycle {
	return &ResultCycle{state: StateExtracting}
}

func (c *ResultCycle) State() CycleState                  { return c.state }
func (c *ResultCycle) Results() []domain.ExtractionResult { return c.results }
func (c *ResultCycle) Mapping() *reconcile.Mapping        { return c.mapping }
func (c *ResultCycle) Entries() []domain.MatchResultEntry { return c.entries }

func (c *ResultCycle) transition(from, to CycleState) error {
	if c.state != from {
		return fmt.Errorf("%w: %s -> %s (currently %s)", ErrInvalidTransition, from, to, c.state)
	}
	c.state = to
	return nil
}

// SetParsed records the parser output and moves to parsed.
func (c *ResultCycle) SetParsed(results []domain.ExtractionResult) error {
	if err := c.transition(StateExtracting, StateParsed); err != nil {
		return err
	}
	c.results = results
	return nil
}

// BeginMapping attaches a (possibly partial) mapping proposal.
func (c *ResultCycle) BeginMapping(m *reconcile.Mapping) error {
	if err := c.transition(StateParsed, StateMapping); err != nil {
		return err
	}
	c.mapping = m
	return nil
}

// MarkReviewed closes the mapping phase. Only a complete mapping may be
// reviewed.
func (c *ResultCycle) MarkReviewed() error {
	if c.state != StateMapping {
		return fmt.Errorf("%w: mapping -> reviewed (currently %s)", ErrInvalidTransition, c.state)
	}
	if c.mapping == nil || !c.mapping.Complete() {
		return fmt.Errorf("%w: mapping is not complete", ErrInvalidTransition)
	}
	c.state = StateReviewed
	return nil
}

// SetScored records the built entries and moves to scored.
func (c *ResultCycle) SetScored(entries []domain.MatchResultEntry) error {
	if err := c.transition(StateReviewed, StateScored); err != nil {
		return err
	}
	c.entries = entries
	return nil
}

// MarkSubmitted terminates the cycle.
func (c *ResultCycle) MarkSubmitted() error {
	return c.transition(StateScored, StateSubmitted)
}
