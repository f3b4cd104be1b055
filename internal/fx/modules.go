package fx

import (
	"lobby-tracker/internal/api"
	"lobby-tracker/internal/config"
	"lobby-tracker/internal/database"
	"lobby-tracker/internal/logger"
	"lobby-tracker/internal/repository"
	"lobby-tracker/internal/server"
	"lobby-tracker/internal/service"

	"go.uber.org/fx"
)

// The services depend on narrow interfaces; the repositories are the only
// implementations, so the bindings live here.

func ProvideTeamWriter(r *repository.TeamRepository) service.TeamWriter {
	return r
}

func ProvideTeamStore(r *repository.TeamRepository) service.TeamStore {
	return r
}

func ProvideSubmissionStore(r *repository.SubmissionRepository) service.SubmissionStore {
	return r
}

func ProvideSubmissionCounter(r *repository.SubmissionRepository) service.SubmissionCounter {
	return r
}

func ProvideTournamentWriter(r *repository.TournamentRepository) service.TournamentWriter {
	return r
}

func ProvideTournamentStore(r *repository.TournamentRepository) service.TournamentStore {
	return r
}

func ProvideVisionAPI(c *api.VisionClient) service.VisionAPI {
	return c
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewTournamentRepository),
	fx.Provide(repository.NewTeamRepository),
	fx.Provide(repository.NewSubmissionRepository),
	fx.Provide(ProvideTournamentWriter),
	fx.Provide(ProvideTournamentStore),
	fx.Provide(ProvideTeamWriter),
	fx.Provide(ProvideTeamStore),
	fx.Provide(ProvideSubmissionStore),
	fx.Provide(ProvideSubmissionCounter),
	// api client
	fx.Provide(api.NewVisionClient),
	fx.Provide(ProvideVisionAPI),
	// svc
	fx.Provide(service.NewExtractionService),
	fx.Provide(service.NewResultService),
	fx.Provide(service.NewTournamentService),
	// server
	fx.Provide(server.New),
)
