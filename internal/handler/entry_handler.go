package handler

import (
	"fmt"
	"net/http"

	"sauna-locker-desk/internal/model"
	"sauna-locker-desk/internal/service"
	apperrors "sauna-locker-desk/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EntryHandler struct {
	service service.EntryService
}

func NewEntryHandler(service service.EntryService) *EntryHandler {
	return &EntryHandler{service: service}
}

func (h *EntryHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("entries", h.GetActiveEntries)
		router.GET("entries/:id", h.GetEntry)
		router.POST("entries", h.RegisterEntry)
		router.PUT("entries/:id/checkout", h.CheckoutEntry)
		router.PUT("entries/:id/cancel", h.CancelEntry)
	}
}

func entryID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: entry id", apperrors.ErrInvalidInput)
	}
	return id, nil
}

func (h *EntryHandler) RegisterEntry(c *gin.Context) {
	var req model.RegisterEntryRequest

	if err := BindJson(c, &req); err != nil {
		return
	}

	entry, err := h.service.Register(c, req)
	if err != nil {
		handleError(c, err, "RegisterEntry")
		return
	}

	handleSuccess(c, entry, http.StatusCreated)
}

func (h *EntryHandler) GetEntry(c *gin.Context) {
	id, err := entryID(c)
	if err != nil {
		handleError(c, err, "GetEntry")
		return
	}

	entry, err := h.service.Get(c, id)
	if err != nil {
		handleError(c, err, "GetEntry")
		return
	}

	handleSuccess(c, entry, http.StatusOK)
}

func (h *EntryHandler) GetActiveEntries(c *gin.Context) {
	entries, err := h.service.ListActive(c)
	if err != nil {
		handleError(c, err, "GetActiveEntries")
		return
	}

	handleSuccess(c, entries, http.StatusOK)
}

func (h *EntryHandler) CheckoutEntry(c *gin.Context) {
	id, err := entryID(c)
	if err != nil {
		handleError(c, err, "CheckoutEntry")
		return
	}

	entry, err := h.service.Checkout(c, id)
	if err != nil {
		handleError(c, err, "CheckoutEntry")
		return
	}

	handleSuccess(c, entry, http.StatusOK)
}

func (h *EntryHandler) CancelEntry(c *gin.Context) {
	id, err := entryID(c)
	if err != nil {
		handleError(c, err, "CancelEntry")
		return
	}

	entry, err := h.service.Cancel(c, id)
	if err != nil {
		handleError(c, err, "CancelEntry")
		return
	}

	handleSuccess(c, entry, http.StatusOK)
}
