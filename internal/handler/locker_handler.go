package handler

import (
	"net/http"
	"strconv"

	"sauna-locker-desk/internal/ledger"
	"sauna-locker-desk/internal/model"
	apperrors "sauna-locker-desk/pkg/app_errors"

	"github.com/gin-gonic/gin"
)

type lockerURI struct {
	Number string `uri:"number" binding:"required"`
}

type LockerHandler struct {
	lockers ledger.LockerLedger
}

func NewLockerHandler(lockers ledger.LockerLedger) *LockerHandler {
	return &LockerHandler{lockers: lockers}
}

func (h *LockerHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("lockers", h.GetLockers)
		router.GET("lockers/:number", h.GetLocker)
	}
}

func (h *LockerHandler) GetLockers(c *gin.Context) {
	lockers, err := h.lockers.List(c)
	if err != nil {
		handleError(c, err, "GetLockers")
		return
	}

	handleSuccess(c, lockers, http.StatusOK)
}

func (h *LockerHandler) GetLocker(c *gin.Context) {
	var uri lockerURI
	if err := BindUri(c, &uri); err != nil {
		return
	}

	number, err := strconv.Atoi(uri.Number)
	if err != nil {
		handleError(c, apperrors.ErrInvalidLocker, "GetLocker")
		return
	}

	occupied, err := h.lockers.IsOccupied(c, number)
	if err != nil {
		handleError(c, err, "GetLocker")
		return
	}

	handleSuccess(c, model.LockerStatusResponse{LockerNumber: number, Occupied: occupied}, http.StatusOK)
}
