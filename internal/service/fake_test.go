package service

import (
	"context"
	"fmt"
	"sync"

	"lobby-tracker/internal/api"
	"lobby-tracker/internal/domain"
	"lobby-tracker/internal/repository"
)

// FakeTeamStore is an in-memory TeamStore/TeamWriter with overridable
// behavior per test.
type FakeTeamStore struct {
	mu    sync.Mutex
	Teams map[string]*domain.RegisteredTeam

	GetFunc         func(ctx context.Context, id string) (*domain.RegisteredTeam, error)
	UpdateStatsFunc func(ctx context.Context, id string, stats domain.TeamStats, members []domain.Player) error
}

func NewFakeTeamStore(teams ...domain.RegisteredTeam) *FakeTeamStore {
	f := &FakeTeamStore{Teams: make(map[string]*domain.RegisteredTeam)}
	for _, t := range teams {
		f.Teams[t.ID] = &t
	}
	return f
}

func (f *FakeTeamStore) Get(ctx context.Context, id string) (*domain.RegisteredTeam, error) {
	if f.GetFunc != nil {
		return f.GetFunc(ctx, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.Teams[id]
	if !ok {
		return nil, fmt.Errorf("team %s: %w", id, repository.ErrNotFound)
	}
	cp := *t
	return &cp, nil
}

func (f *FakeTeamStore) ListByTournament(ctx context.Context, tournamentID string) ([]domain.RegisteredTeam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.RegisteredTeam
	for _, t := range f.Teams {
		if t.TournamentID == tournamentID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *FakeTeamStore) UpdateStats(ctx context.Context, id string, stats domain.TeamStats, members []domain.Player) error {
	if f.UpdateStatsFunc != nil {
		return f.UpdateStatsFunc(ctx, id, stats, members)
	}
	return f.updateStats(id, stats, members)
}

func (f *FakeTeamStore) updateStats(id string, stats domain.TeamStats, members []domain.Player) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.Teams[id]
	if !ok {
		return fmt.Errorf("team %s: %w", id, repository.ErrNotFound)
	}
	t.Stats = stats
	t.Members = members
	return nil
}

func (f *FakeTeamStore) Create(ctx context.Context, team *domain.RegisteredTeam) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if team.ID == "" {
		team.ID = fmt.Sprintf("team-%d", len(f.Teams)+1)
	}
	cp := *team
	f.Teams[team.ID] = &cp
	return nil
}

func (f *FakeTeamStore) Search(ctx context.Context, tournamentID, query string, limit int) ([]domain.RegisteredTeam, error) {
	return f.ListByTournament(ctx, tournamentID)
}

// FakeSubmissionStore tracks claims in memory.
type FakeSubmissionStore struct {
	mu     sync.Mutex
	Claims map[string]bool

	RecordFunc func(ctx context.Context, tournamentID, teamID, matchID string) error
}

func NewFakeSubmissionStore() *FakeSubmissionStore {
	return &FakeSubmissionStore{Claims: make(map[string]bool)}
}

func submissionKey(teamID, matchID string) string {
	return teamID + "/" + matchID
}

func (f *FakeSubmissionStore) Record(ctx context.Context, tournamentID, teamID, matchID string) error {
	if f.RecordFunc != nil {
		return f.RecordFunc(ctx, tournamentID, teamID, matchID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := submissionKey(teamID, matchID)
	if f.Claims[key] {
		return repository.ErrDuplicateSubmission
	}
	f.Claims[key] = true
	return nil
}

func (f *FakeSubmissionStore) Release(ctx context.Context, teamID, matchID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Claims, submissionKey(teamID, matchID))
	return nil
}

func (f *FakeSubmissionStore) CountByTournament(ctx context.Context, tournamentID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Claims), nil
}

// FakeTournamentStore serves a fixed set of tournaments.
type FakeTournamentStore struct {
	Tournaments map[string]*domain.Tournament
}

func NewFakeTournamentStore(ts ...domain.Tournament) *FakeTournamentStore {
	f := &FakeTournamentStore{Tournaments: make(map[string]*domain.Tournament)}
	for _, t := range ts {
		f.Tournaments[t.ID] = &t
	}
	return f
}

func (f *FakeTournamentStore) GetByID(ctx context.Context, id string) (*domain.Tournament, error) {
	t, ok := f.Tournaments[id]
	if !ok {
		return nil, fmt.Errorf("tournament %s: %w", id, repository.ErrNotFound)
	}
	cp := *t
	return &cp, nil
}

func (f *FakeTournamentStore) Create(ctx context.Context, t *domain.Tournament) error {
	if t.ID == "" {
		t.ID = fmt.Sprintf("tournament-%d", len(f.Tournaments)+1)
	}
	cp := *t
	f.Tournaments[t.ID] = &cp
	return nil
}

func (f *FakeTournamentStore) UpdatePointsSystem(ctx context.Context, id string, ps domain.PointsSystem) error {
	t, ok := f.Tournaments[id]
	if !ok {
		return fmt.Errorf("tournament %s: %w", id, repository.ErrNotFound)
	}
	t.PointsSystem = ps
	return nil
}

// FakeVision returns a canned payload or error.
type FakeVision struct {
	Payload []byte
	Err     error

	ExtractFunc func(ctx context.Context, images []api.ImageFile, opts api.ExtractOptions) ([]byte, error)
}

func (f *FakeVision) ExtractResults(ctx context.Context, images []api.ImageFile, opts api.ExtractOptions) ([]byte, error) {
	if f.ExtractFunc != nil {
		return f.ExtractFunc(ctx, images, opts)
	}
	return f.Payload, f.Err
}
