package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/trip-planner/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	logger = logger.With("component", "http.router")

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(logger),
		corsMiddleware(cfg.HTTP.CORS.AllowedOrigins),
		errorHandlingMiddleware(logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
	)

	router.GET("/healthz", handler.Healthz)
	router.POST("/generate-itinerary", handler.GenerateItinerary)
	router.POST("/swap-activity", handler.SwapActivity)
	router.POST("/chat-advisor", handler.ChatAdvisor)
	router.GET("/places", handler.Places)
	router.GET("/itineraries/current", handler.CurrentItinerary)
	router.GET("/itineraries/history", handler.ItineraryHistory)
	router.GET("/test-ollama", handler.TestGeneration)
	router.GET("/test-google-places", handler.TestGooglePlaces)

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
