package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	payoutusecase "github.com/lunamarket/settlement-service/internal/usecase/payout"
)

type PayoutHandler struct {
	payoutUsecase payoutusecase.PayoutUsecase
	batchLimit    int
}

func NewPayoutHandler(payoutUsecase payoutusecase.PayoutUsecase, batchLimit int) *PayoutHandler {
	return &PayoutHandler{payoutUsecase: payoutUsecase, batchLimit: batchLimit}
}

// RunBatch handles POST /payouts/run. The scheduler runs the same batch on
// a timer; this endpoint exists for operators who do not want to wait.
func (h *PayoutHandler) RunBatch(c *gin.Context) {
	limit := intQuery(c, "limit", h.batchLimit)

	result, err := h.payoutUsecase.RunBatch(c.Request.Context(), time.Now(), limit)
	if err != nil {
		DomainErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{
		"processed": result.Processed,
		"failed":    result.Failed,
		"total":     result.Total,
	})
}

// GetPayoutByOrder handles GET /orders/:id/payout
func (h *PayoutHandler) GetPayoutByOrder(c *gin.Context) {
	payout, err := h.payoutUsecase.GetPayoutByOrderID(c.Request.Context(), c.Param("id"))
	if err != nil {
		DomainErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, payout)
}
