package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"sauna-locker-desk/internal/clock"
	"sauna-locker-desk/internal/handler"
	"sauna-locker-desk/internal/ledger"
	"sauna-locker-desk/internal/model"
	"sauna-locker-desk/internal/service/mocks"
	"sauna-locker-desk/internal/storage"
	apperrors "sauna-locker-desk/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	decision := model.PriceDecision{
		IsSpecialRule: true,
		Price:         350,
		RuleName:      "週日毛巾優惠",
		ValidUntil:    time.Date(2026, time.October, 19, 2, 0, 0, 0, time.UTC),
	}

	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewEntryServiceMock()
		router := setupTestRouter(handler.NewPricingHandler(mockService))

		mockService.On("Quote", mock.Anything, time.Time{}).Return(decision, nil).Once()

		w := serve(router, createJSONHTTPRequest("GET", "/api/v1/pricing/quote", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var got model.PriceDecision
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 350, got.Price)
		assert.True(t, got.IsSpecialRule)
	})

	t.Run("Success - Given Time", func(t *testing.T) {
		mockService := mocks.NewEntryServiceMock()
		router := setupTestRouter(handler.NewPricingHandler(mockService))

		at := time.Date(2026, time.October, 18, 14, 0, 0, 0, time.UTC)
		mockService.On("Quote", mock.Anything, mock.MatchedBy(func(got time.Time) bool {
			return got.Equal(at)
		})).Return(decision, nil).Once()

		w := serve(router, createJSONHTTPRequest("GET", "/api/v1/pricing/quote?at=2026-10-18T14:00:00Z", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrInvalidTimestamp", func(t *testing.T) {
		mockService := mocks.NewEntryServiceMock()
		router := setupTestRouter(handler.NewPricingHandler(mockService))

		w := serve(router, createJSONHTTPRequest("GET", "/api/v1/pricing/quote?at=tomorrow", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid timestamp", decodeError(t, w))
		mockService.AssertNotCalled(t, "Quote", mock.Anything, mock.Anything)
	})
}

func TestLockers(t *testing.T) {
	lockers := ledger.NewLockerLedger(storage.NewMemoryStore(), clock.NewFixed(checkIn), 3)
	_, err := lockers.Occupy(context.Background(), 2, "entry-1")
	require.NoError(t, err)
	router := setupTestRouter(handler.NewLockerHandler(lockers))

	t.Run("Success - List", func(t *testing.T) {
		w := serve(router, createJSONHTTPRequest("GET", "/api/v1/lockers", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var got []model.LockerAssignment
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 3)
		assert.True(t, got[0].IsFree())
		assert.Equal(t, "entry-1", got[1].OccupantID)
	})

	t.Run("Success - Status", func(t *testing.T) {
		w := serve(router, createJSONHTTPRequest("GET", "/api/v1/lockers/2", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var got model.LockerStatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, model.LockerStatusResponse{LockerNumber: 2, Occupied: true}, got)
	})

	t.Run("Failed - ErrInvalidLocker", func(t *testing.T) {
		for _, path := range []string{"/api/v1/lockers/4", "/api/v1/lockers/0", "/api/v1/lockers/abc"} {
			w := serve(router, createJSONHTTPRequest("GET", path, nil))
			assert.Equal(t, http.StatusBadRequest, w.Code, path)
		}
	})
}

func TestGetDailyStats(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewStatsServiceMock()
		router := setupTestRouter(handler.NewStatsHandler(mockService))

		stats := &model.DailyStats{Day: "2026-10-14", Entries: 3, EntryRevenue: 1300}
		mockService.On("Daily", mock.Anything, "2026-10-14").Return(stats, nil).Once()

		w := serve(router, createJSONHTTPRequest("GET", "/api/v1/stats/2026-10-14", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var got model.DailyStats
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, *stats, got)
	})

	t.Run("Failed - ErrInvalidInput", func(t *testing.T) {
		mockService := mocks.NewStatsServiceMock()
		router := setupTestRouter(handler.NewStatsHandler(mockService))

		mockService.On("Daily", mock.Anything, "today").Return(nil, apperrors.ErrInvalidInput).Once()

		w := serve(router, createJSONHTTPRequest("GET", "/api/v1/stats/today", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
