package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lunamarket/settlement-service/internal/domain"
	orderusecase "github.com/lunamarket/settlement-service/internal/usecase/order"
)

type OrderHandler struct {
	orderUsecase orderusecase.OrderUsecase
}

func NewOrderHandler(orderUsecase orderusecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase}
}

type createOrderRequest struct {
	BuyerID   string `json:"buyer_id" binding:"required"`
	ListingID string `json:"listing_id" binding:"required"`
}

type orderResponse struct {
	OrderID          string `json:"order_id"`
	Status           string `json:"status"`
	PriceAmount      int64  `json:"price_amount"`
	CommissionAmount int64  `json:"commission_amount"`
	SellerAmount     int64  `json:"seller_amount"`
	Currency         string `json:"currency"`
	GatewayOrderRef  string `json:"gateway_order_ref,omitempty"`
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	out, err := h.orderUsecase.CreateOrder(c.Request.Context(), &orderusecase.CreateOrderInput{
		BuyerID:   req.BuyerID,
		ListingID: req.ListingID,
	})
	if err != nil {
		DomainErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, orderResponse{
		OrderID:          out.Order.ID,
		Status:           string(out.Order.Status),
		PriceAmount:      out.Order.PriceAmount,
		CommissionAmount: out.Order.CommissionAmount,
		SellerAmount:     out.Order.SellerAmount,
		Currency:         out.Order.Currency,
		GatewayOrderRef:  out.Payment.GatewayOrderRef,
	})
}

type checkoutRequest struct {
	BuyerID string `json:"buyer_id" binding:"required"`
}

// BeginCheckout handles POST /orders/:id/checkout
func (h *OrderHandler) BeginCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	out, err := h.orderUsecase.BeginCheckout(c.Request.Context(), c.Param("id"), req.BuyerID)
	if err != nil {
		DomainErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, orderResponse{
		OrderID:         out.Order.ID,
		Status:          string(out.Order.Status),
		PriceAmount:     out.Order.PriceAmount,
		Currency:        out.Order.Currency,
		GatewayOrderRef: out.GatewayOrderRef,
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderUsecase.GetOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		DomainErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, order)
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var filter domain.OrderFilter
	if buyerID := c.Query("buyer_id"); buyerID != "" {
		filter.BuyerID = &buyerID
	}
	if sellerID := c.Query("seller_id"); sellerID != "" {
		filter.SellerID = &sellerID
	}
	if status := c.Query("status"); status != "" {
		orderStatus := domain.OrderStatus(status)
		filter.Status = &orderStatus
	}
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 50)

	orders, total, err := h.orderUsecase.ListOrders(c.Request.Context(), filter, page, limit)
	if err != nil {
		DomainErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"orders": orders, "total": total})
}

type downloadRequest struct {
	BuyerID string `json:"buyer_id" binding:"required"`
}

// RegisterDownload handles POST /orders/:id/download
func (h *OrderHandler) RegisterDownload(c *gin.Context) {
	var req downloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	access, err := h.orderUsecase.RegisterDownload(c.Request.Context(), c.Param("id"), req.BuyerID)
	if err != nil {
		DomainErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{
		"order_id":       access.OrderID,
		"download_count": access.DownloadCount,
		"max_downloads":  access.MaxDownloads,
	})
}
