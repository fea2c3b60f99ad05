package handler

import (
	"errors"
	"net/http"

	apperrors "sauna-locker-desk/pkg/app_errors"
	"sauna-locker-desk/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

func BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

func BindUri(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindUri(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

type errorResponse struct {
	err     error
	status  int
	message string
}

// 依序比對，第一個符合的錯誤決定回應
var errorResponses = []errorResponse{
	{apperrors.ErrEntryNotFound, http.StatusNotFound, "Entry not found"},
	{apperrors.ErrTicketNotFound, http.StatusNotFound, "Ticket not found"},
	{apperrors.ErrLockerAlreadyOccupied, http.StatusConflict, "Locker already occupied"},
	{apperrors.ErrLockerNotOccupied, http.StatusConflict, "Locker not occupied"},
	{apperrors.ErrTicketAlreadyIssued, http.StatusConflict, "Ticket already issued"},
	{apperrors.ErrTicketNotActive, http.StatusConflict, "Ticket not active"},
	{apperrors.ErrTicketAlreadyFinal, http.StatusConflict, "Ticket already final"},
	{apperrors.ErrInvalidEntryStatus, http.StatusConflict, "Invalid entry status"},
	{apperrors.ErrInvalidLocker, http.StatusBadRequest, "Invalid locker number"},
	{apperrors.ErrInvalidTicketNumber, http.StatusBadRequest, "Invalid ticket number"},
	{apperrors.ErrInvalidTimestamp, http.StatusBadRequest, "Invalid timestamp"},
	{apperrors.ErrInvalidInput, http.StatusBadRequest, "Invalid input"},
}

func handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	for _, r := range errorResponses {
		if errors.Is(err, r.err) {
			log.Warn(r.message)
			c.JSON(r.status, gin.H{
				"error": r.message,
			})
			return
		}
	}

	log.Error("Unexpected error")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
	})
}

func handleSuccess(c *gin.Context, data interface{}, statusCode int) {
	if data != nil {
		c.JSON(statusCode, data)
	} else {
		c.Status(statusCode)
	}
}
