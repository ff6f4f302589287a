package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	sellerusecase "github.com/lunamarket/settlement-service/internal/usecase/seller"
)

type SellerHandler struct {
	sellerUsecase sellerusecase.SellerUsecase
}

func NewSellerHandler(sellerUsecase sellerusecase.SellerUsecase) *SellerHandler {
	return &SellerHandler{sellerUsecase: sellerUsecase}
}

type upsertBankAccountRequest struct {
	BankName      string `json:"bank_name" binding:"required"`
	AccountHolder string `json:"account_holder" binding:"required"`
	AccountRef    string `json:"account_ref" binding:"required"`
	Currency      string `json:"currency" binding:"required"`
	Enabled       *bool  `json:"enabled"`
}

// UpsertBankAccount handles PUT /sellers/:id/bank-account
func (h *SellerHandler) UpsertBankAccount(c *gin.Context) {
	var req upsertBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	err := h.sellerUsecase.UpsertBankAccount(c.Request.Context(), &sellerusecase.UpsertBankAccountInput{
		SellerID:      c.Param("id"),
		BankName:      req.BankName,
		AccountHolder: req.AccountHolder,
		AccountRef:    req.AccountRef,
		Currency:      req.Currency,
		Enabled:       enabled,
	})
	if err != nil {
		DomainErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"seller_id": c.Param("id")})
}

// GetBankAccount handles GET /sellers/:id/bank-account
func (h *SellerHandler) GetBankAccount(c *gin.Context) {
	account, err := h.sellerUsecase.GetBankAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		DomainErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, account)
}
