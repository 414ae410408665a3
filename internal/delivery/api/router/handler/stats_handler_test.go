package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"estate/internal/domain/entity"
	domainerrors "estate/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func authorized(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+testToken)

	return req
}

func TestStatsHandler_RecomputeDevelopmentStats(t *testing.T) {
	t.Run("owner gets fresh snapshot", func(t *testing.T) {
		f := createTestRoutes(t, entity.AccountTypeDeveloper)
		developmentID := uuid.New()
		f.statsUC.On("RecomputeOwnedDevelopmentStats", mock.Anything, f.userID, developmentID).
			Return(&entity.DevelopmentStats{TotalUnits: 3, TotalEstimatedRevenue: 120.5}, nil)

		rec := f.do(authorized(http.MethodPost, "/api/v1/developments/"+developmentID.String()+"/stats/recompute"))

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeBody(t, rec)["data"].(map[string]any)
		assert.InDelta(t, 3.0, data["total_units"], 1e-9)
		assert.InDelta(t, 120.5, data["total_estimated_revenue"], 1e-9)
	})

	t.Run("not owner", func(t *testing.T) {
		f := createTestRoutes(t, entity.AccountTypeDeveloper)
		developmentID := uuid.New()
		f.statsUC.On("RecomputeOwnedDevelopmentStats", mock.Anything, f.userID, developmentID).
			Return(nil, domainerrors.ErrDevelopmentForbidden)

		rec := f.do(authorized(http.MethodPost, "/api/v1/developments/"+developmentID.String()+"/stats/recompute"))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		f := createTestRoutes(t, entity.AccountTypeDeveloper)

		rec := f.do(authorized(http.MethodPost, "/api/v1/developments/abc/stats/recompute"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestStatsHandler_DeveloperStatsRequireDeveloperAccount(t *testing.T) {
	f := createTestRoutes(t, entity.AccountTypeAgent)

	rec := f.do(authorized(http.MethodPost, "/api/v1/developers/me/stats/recompute"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(authorized(http.MethodGet, "/api/v1/developers/me/stats"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStatsHandler_DeveloperStats(t *testing.T) {
	f := createTestRoutes(t, entity.AccountTypeDeveloper)
	snapshot := &entity.DeveloperStats{DeveloperID: f.userID, TotalUnits: 2, TotalSales: 1}
	f.statsUC.On("RecomputeDeveloperStats", mock.Anything, f.userID).Return(snapshot, nil).Once()
	f.statsUC.On("GetDeveloperStats", mock.Anything, f.userID).Return(snapshot, nil).Once()

	rec := f.do(authorized(http.MethodPost, "/api/v1/developers/me/stats/recompute"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, f.userID.String(), decodeBody(t, rec)["data"].(map[string]any)["developer_id"])

	rec = f.do(authorized(http.MethodGet, "/api/v1/developers/me/stats"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Developer stats retrieved successfully", decodeBody(t, rec)["message"])
}
