package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lunamarket/settlement-service/internal/delivery/http/handlers"
)

type Handlers struct {
	Order    *handlers.OrderHandler
	Webhook  *handlers.WebhookHandler
	Dispute  *handlers.DisputeHandler
	Payout   *handlers.PayoutHandler
	Seller   *handlers.SellerHandler
	Settings *handlers.SettingsHandler
}

func SetupRouter(h *Handlers) *gin.Engine {
	r := gin.New()

	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "settlement-service",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		orders := v1.Group("/orders")
		{
			orders.POST("", h.Order.CreateOrder)
			orders.GET("", h.Order.ListOrders)
			orders.GET("/:id", h.Order.GetOrder)
			orders.POST("/:id/checkout", h.Order.BeginCheckout)
			orders.POST("/:id/download", h.Order.RegisterDownload)
			orders.GET("/:id/payout", h.Payout.GetPayoutByOrder)
		}

		// The gateway signs the raw body; no auth middleware here so the
		// bytes reach the verifier untouched.
		v1.POST("/webhooks/gateway", h.Webhook.HandleGatewayEvent)

		disputes := v1.Group("/disputes")
		{
			disputes.POST("", h.Dispute.RaiseDispute)
			disputes.GET("", h.Dispute.ListDisputes)
			disputes.GET("/:id", h.Dispute.GetDispute)
			disputes.POST("/:id/review", h.Dispute.ReviewDispute)
			disputes.POST("/:id/resolve", h.Dispute.ResolveDispute)
		}

		sellers := v1.Group("/sellers")
		{
			sellers.PUT("/:id/bank-account", h.Seller.UpsertBankAccount)
			sellers.GET("/:id/bank-account", h.Seller.GetBankAccount)
		}

		v1.POST("/payouts/run", h.Payout.RunBatch)

		admin := v1.Group("/admin")
		{
			admin.GET("/settings", h.Settings.GetSettings)
			admin.PUT("/settings", h.Settings.UpdateSetting)
		}
	}

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-Gateway-Signature, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
