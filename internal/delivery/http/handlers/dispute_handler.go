package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lunamarket/settlement-service/internal/domain"
	disputeusecase "github.com/lunamarket/settlement-service/internal/usecase/dispute"
)

type DisputeHandler struct {
	disputeUsecase disputeusecase.DisputeUsecase
}

func NewDisputeHandler(disputeUsecase disputeusecase.DisputeUsecase) *DisputeHandler {
	return &DisputeHandler{disputeUsecase: disputeUsecase}
}

type raiseDisputeRequest struct {
	OrderID  string `json:"order_id" binding:"required"`
	RaisedBy string `json:"raised_by" binding:"required"`
	Reason   string `json:"reason" binding:"required"`
}

// RaiseDispute handles POST /disputes
func (h *DisputeHandler) RaiseDispute(c *gin.Context) {
	var req raiseDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	dispute, err := h.disputeUsecase.RaiseDispute(c.Request.Context(), &disputeusecase.RaiseDisputeInput{
		OrderID:  req.OrderID,
		RaisedBy: req.RaisedBy,
		Reason:   req.Reason,
	})
	if err != nil {
		DomainErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, dispute)
}

// ReviewDispute handles POST /disputes/:id/review
func (h *DisputeHandler) ReviewDispute(c *gin.Context) {
	if err := h.disputeUsecase.ReviewDispute(c.Request.Context(), c.Param("id")); err != nil {
		DomainErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"dispute_id": c.Param("id"), "status": string(domain.DisputeStatusUnderReview)})
}

type resolveDisputeRequest struct {
	Outcome string `json:"outcome" binding:"required"`
	Note    string `json:"note"`
}

// ResolveDispute handles POST /disputes/:id/resolve
func (h *DisputeHandler) ResolveDispute(c *gin.Context) {
	var req resolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	outcome := domain.DisputeOutcome(req.Outcome)
	if outcome != domain.DisputeOutcomeRefund && outcome != domain.DisputeOutcomeNoRefund {
		ErrorResponse(c, http.StatusBadRequest, "outcome must be refund or no_refund")
		return
	}

	err := h.disputeUsecase.ResolveDispute(c.Request.Context(), &disputeusecase.ResolveDisputeInput{
		DisputeID: c.Param("id"),
		Outcome:   outcome,
		Note:      req.Note,
	})
	if err != nil {
		DomainErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"dispute_id": c.Param("id"), "outcome": string(outcome)})
}

// GetDispute handles GET /disputes/:id
func (h *DisputeHandler) GetDispute(c *gin.Context) {
	dispute, err := h.disputeUsecase.GetDisputeByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		DomainErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, dispute)
}

// ListDisputes handles GET /disputes
func (h *DisputeHandler) ListDisputes(c *gin.Context) {
	var filter domain.DisputeFilter
	if orderID := c.Query("order_id"); orderID != "" {
		filter.OrderID = &orderID
	}
	if status := c.Query("status"); status != "" {
		disputeStatus := domain.DisputeStatus(status)
		filter.Status = &disputeStatus
	}
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 50)

	disputes, total, err := h.disputeUsecase.ListDisputes(c.Request.Context(), filter, page, limit)
	if err != nil {
		DomainErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"disputes": disputes, "total": total})
}
