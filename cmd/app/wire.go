//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/trip-planner/internal/bootstrap"
	"github.com/yanqian/trip-planner/internal/domain/itinerary"
	"github.com/yanqian/trip-planner/internal/infra/config"
	httpiface "github.com/yanqian/trip-planner/internal/interface/http"
	"github.com/yanqian/trip-planner/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideGenerationBackend,
		provideGenerationService,
		providePlacesService,
		provideRawArchive,
		provideItineraryStore,
		provideItineraryService,
		provideSwapService,
		provideAdvisorService,
		itinerary.NewSavedService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
