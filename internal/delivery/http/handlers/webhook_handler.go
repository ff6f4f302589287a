package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lunamarket/settlement-service/internal/domain"
	webhookusecase "github.com/lunamarket/settlement-service/internal/usecase/webhook"
)

type WebhookHandler struct {
	webhookUsecase webhookusecase.WebhookUsecase
}

func NewWebhookHandler(webhookUsecase webhookusecase.WebhookUsecase) *WebhookHandler {
	return &WebhookHandler{webhookUsecase: webhookUsecase}
}

// HandleGatewayEvent handles POST /webhooks/gateway. The signature covers
// the raw body, so the body must not go through any binding before
// verification.
func (h *WebhookHandler) HandleGatewayEvent(c *gin.Context) {
	rawBody, err := c.GetRawData()
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "failed to read request body")
		return
	}

	signature := c.GetHeader("X-Gateway-Signature")
	if err := h.webhookUsecase.HandleEvent(c.Request.Context(), rawBody, signature); err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			ErrorResponse(c, http.StatusUnauthorized, "invalid signature")
			return
		}
		slog.Error("failed to apply gateway event", "error", err.Error())
		ErrorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"received": true})
}
