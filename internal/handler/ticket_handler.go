package handler

import (
	"net/http"

	"sauna-locker-desk/internal/model"
	"sauna-locker-desk/internal/service"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	service service.TicketService
}

func NewTicketHandler(service service.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("tickets", h.GetTickets)
		router.GET("tickets/:number", h.GetTicket)
		router.POST("tickets/books", h.SellBook)
		router.PUT("tickets/:number/use", h.UseTicket)
		router.PUT("tickets/:number/return", h.ReturnTicket)
		router.PUT("tickets/:number/refund", h.RefundTicket)
	}
}

func (h *TicketHandler) SellBook(c *gin.Context) {
	var req model.SellBookRequest

	if err := BindJson(c, &req); err != nil {
		return
	}

	tickets, err := h.service.SellBook(c, req)
	if err != nil {
		handleError(c, err, "SellBook")
		return
	}

	handleSuccess(c, tickets, http.StatusCreated)
}

func (h *TicketHandler) GetTickets(c *gin.Context) {
	tickets, err := h.service.List(c)
	if err != nil {
		handleError(c, err, "GetTickets")
		return
	}

	handleSuccess(c, tickets, http.StatusOK)
}

func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticket, err := h.service.Find(c, c.Param("number"))
	if err != nil {
		handleError(c, err, "GetTicket")
		return
	}

	handleSuccess(c, ticket, http.StatusOK)
}

func (h *TicketHandler) UseTicket(c *gin.Context) {
	ticket, err := h.service.Use(c, c.Param("number"))
	if err != nil {
		handleError(c, err, "UseTicket")
		return
	}

	handleSuccess(c, ticket, http.StatusOK)
}

func (h *TicketHandler) ReturnTicket(c *gin.Context) {
	var req model.ReturnTicketRequest

	if err := BindJson(c, &req); err != nil {
		return
	}

	ticket, err := h.service.Return(c, c.Param("number"), req)
	if err != nil {
		handleError(c, err, "ReturnTicket")
		return
	}

	handleSuccess(c, ticket, http.StatusOK)
}

func (h *TicketHandler) RefundTicket(c *gin.Context) {
	var req model.ReturnTicketRequest

	if err := BindJson(c, &req); err != nil {
		return
	}

	ticket, err := h.service.Refund(c, c.Param("number"), req)
	if err != nil {
		handleError(c, err, "RefundTicket")
		return
	}

	handleSuccess(c, ticket, http.StatusOK)
}
