package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lunamarket/settlement-service/internal/domain"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
	})
}

// DomainErrorResponse maps the settlement error taxonomy onto HTTP codes:
// validation 400, conflicts 409, missing entities 404. Anything unmapped
// is a 500 with a generic message so internals never leak.
func DomainErrorResponse(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPurchase),
		errors.Is(err, domain.ErrListingUnavailable),
		errors.Is(err, domain.ErrDisputeNotDisputable),
		errors.Is(err, domain.ErrDownloadsExhausted):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicatePurchase),
		errors.Is(err, domain.ErrTerminalState),
		errors.Is(err, domain.ErrStatusConflict),
		errors.Is(err, domain.ErrDisputeAlreadyOpen),
		errors.Is(err, domain.ErrDisputeResolved):
		ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrPaymentNotFound),
		errors.Is(err, domain.ErrPayoutNotFound),
		errors.Is(err, domain.ErrDisputeNotFound),
		errors.Is(err, domain.ErrAccessNotFound),
		errors.Is(err, domain.ErrAccountNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	default:
		ErrorResponse(c, http.StatusInternalServerError, "internal error")
	}
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
