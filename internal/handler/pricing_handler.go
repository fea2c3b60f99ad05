package handler

import (
	"net/http"
	"time"

	"sauna-locker-desk/internal/service"
	apperrors "sauna-locker-desk/pkg/app_errors"

	"github.com/gin-gonic/gin"
)

type quoteQuery struct {
	At string `form:"at"`
}

type PricingHandler struct {
	service service.EntryService
}

func NewPricingHandler(service service.EntryService) *PricingHandler {
	return &PricingHandler{service: service}
}

func (h *PricingHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("pricing/quote", h.Quote)
	}
}

// Quote 查詢目前時段的票價，可用 ?at=RFC3339 指定時間
func (h *PricingHandler) Quote(c *gin.Context) {
	var query quoteQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}

	var at time.Time
	if query.At != "" {
		parsed, err := time.Parse(time.RFC3339, query.At)
		if err != nil {
			handleError(c, apperrors.ErrInvalidTimestamp, "Quote")
			return
		}
		at = parsed
	}

	decision, err := h.service.Quote(c, at)
	if err != nil {
		handleError(c, err, "Quote")
		return
	}

	handleSuccess(c, decision, http.StatusOK)
}
