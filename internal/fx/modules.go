package fx

import (
	"go.uber.org/fx"

	"mssd-catur/internal/config"
	"mssd-catur/internal/database"
	"mssd-catur/internal/logger"
	"mssd-catur/internal/repository"
	"mssd-catur/internal/server"
	"mssd-catur/internal/service"
	"mssd-catur/internal/sheets"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewSettingsRepository),
	fx.Provide(repository.NewRegistrationRepository),
	fx.Provide(repository.NewDraftRepository),
	// remote spreadsheet client
	fx.Provide(sheets.NewClient),
	// svc
	fx.Provide(service.NewConfigService),
	fx.Provide(service.NewSyncService),
	fx.Provide(service.NewRegistrationService),
	// server
	fx.Provide(server.New),
)
