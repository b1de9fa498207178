package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/trip-planner/internal/domain/activityswap"
	"github.com/yanqian/trip-planner/internal/domain/advisor"
	"github.com/yanqian/trip-planner/internal/domain/generation"
	"github.com/yanqian/trip-planner/internal/domain/itinerary"
	"github.com/yanqian/trip-planner/internal/domain/places"
)

// DeviceHeader identifies the caller's current-itinerary slot.
const DeviceHeader = "X-Device-ID"

// Handler wires the HTTP transport to domain services.
type Handler struct {
	itinerarySvc itinerary.Service
	savedSvc     itinerary.SavedService
	swapSvc      activityswap.Service
	advisorSvc   advisor.Service
	placesSvc    places.Service
	generation   generation.Service
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(
	itinerarySvc itinerary.Service,
	savedSvc itinerary.SavedService,
	swapSvc activityswap.Service,
	advisorSvc advisor.Service,
	placesSvc places.Service,
	generationSvc generation.Service,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		itinerarySvc: itinerarySvc,
		savedSvc:     savedSvc,
		swapSvc:      swapSvc,
		advisorSvc:   advisorSvc,
		placesSvc:    placesSvc,
		generation:   generationSvc,
		logger:       logger.With("component", "http.handler"),
	}
}

// GenerateItinerary runs the fallback cascade and saves the result as the device's current itinerary.
func (h *Handler) GenerateItinerary(c *gin.Context) {
	var req itinerary.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	res, err := h.itinerarySvc.Generate(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "generation_failed"))
		return
	}

	device := c.GetHeader(DeviceHeader)
	if _, err := h.savedSvc.Save(c.Request.Context(), device, req, res.Itinerary); err != nil {
		h.logger.Warn("saving current itinerary failed", "device", device, "error", err)
	}

	c.JSON(http.StatusOK, res)
}

// SwapActivity replaces one activity while keeping its slot.
func (h *Handler) SwapActivity(c *gin.Context) {
	var req activityswap.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	res, err := h.swapSvc.Swap(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "swap_failed"))
		return
	}
	c.JSON(http.StatusOK, res)
}

// ChatAdvisor answers a travel question.
func (h *Handler) ChatAdvisor(c *gin.Context) {
	var req advisor.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	res, err := h.advisorSvc.Chat(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "chat_failed"))
		return
	}
	c.JSON(http.StatusOK, res)
}

// Places looks up candidate places for one category.
func (h *Handler) Places(c *gin.Context) {
	res, err := h.placesSvc.Lookup(c.Request.Context(), c.Query("destination"), c.Query("category"))
	if err != nil {
		abortWithError(c, domainError(err, "places_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "places": res.Places, "source": res.Source})
}

// CurrentItinerary returns the device's current itinerary.
func (h *Handler) CurrentItinerary(c *gin.Context) {
	record, err := h.savedSvc.Current(c.Request.Context(), c.GetHeader(DeviceHeader))
	if err != nil {
		abortWithError(c, domainError(err, "store_error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "itinerary": record})
}

// ItineraryHistory returns the device's recent itineraries, newest first.
func (h *Handler) ItineraryHistory(c *gin.Context) {
	records, err := h.savedSvc.History(c.Request.Context(), c.GetHeader(DeviceHeader))
	if err != nil {
		abortWithError(c, domainError(err, "store_error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "history": records})
}

// TestGeneration reports probe and generate checks against the inference backend.
func (h *Handler) TestGeneration(c *gin.Context) {
	report := h.generation.Diagnose(c.Request.Context())
	info := h.generation.Describe()
	c.JSON(http.StatusOK, gin.H{
		"success":  report.Passed,
		"provider": info.Provider,
		"model":    info.Model,
		"report":   report,
	})
}

// TestGooglePlaces reports whether Google Places is configured and answering.
func (h *Handler) TestGooglePlaces(c *gin.Context) {
	report := h.placesSvc.DiagnoseGoogle(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": report.Passed, "report": report})
}

// Healthz is a liveness probe.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
