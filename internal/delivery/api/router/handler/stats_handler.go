package handler

import (
	"log/slog"
	"net/http"

	"estate/internal/delivery/api/middleware"
	"estate/internal/delivery/api/response"
	"estate/internal/domain/entity"
	"estate/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// StatsHandlerParams holds dependencies for StatsHandler, injected by Fx.
type StatsHandlerParams struct {
	fx.In

	StatsUC usecase.StatsUsecase
	Logger  *slog.Logger
}

// StatsHandler exposes the aggregate recompute triggers
type StatsHandler struct {
	statsUC usecase.StatsUsecase
	logger  *slog.Logger
}

// NewStatsHandler is the constructor for StatsHandler
func NewStatsHandler(params StatsHandlerParams) *StatsHandler {
	return &StatsHandler{
		statsUC: params.StatsUC,
		logger:  params.Logger,
	}
}

// RecomputeDevelopmentStats recomputes a development owned by the caller
func (h *StatsHandler) RecomputeDevelopmentStats(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Invalid user ID in token")
	}
	developmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid development ID")
	}

	stats, err := h.statsUC.RecomputeOwnedDevelopmentStats(c.Request().Context(), userID, developmentID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, stats, "Development stats recomputed")
}

// RecomputeDeveloperStats recomputes the caller's developer snapshot
func (h *StatsHandler) RecomputeDeveloperStats(c echo.Context) error {
	developerID, ok := h.developer(c)
	if !ok {
		return response.Forbidden(c, "FORBIDDEN", "Developer account required")
	}

	stats, err := h.statsUC.RecomputeDeveloperStats(c.Request().Context(), developerID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, stats, "Developer stats recomputed")
}

// GetDeveloperStats returns the caller's stored developer snapshot
func (h *StatsHandler) GetDeveloperStats(c echo.Context) error {
	developerID, ok := h.developer(c)
	if !ok {
		return response.Forbidden(c, "FORBIDDEN", "Developer account required")
	}

	stats, err := h.statsUC.GetDeveloperStats(c.Request().Context(), developerID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, stats, "Developer stats retrieved successfully")
}

func (h *StatsHandler) developer(c echo.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok || middleware.GetAccountType(c) != entity.AccountTypeDeveloper {
		return uuid.Nil, false
	}

	return userID, true
}
