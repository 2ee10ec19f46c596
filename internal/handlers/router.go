package handlers

import (
	"net/http"
	"storefront/internal/logger"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires every HTTP route onto a fresh gin engine.
func NewRouter(apiHandler *APIHandler, paymentHandler *PaymentHandler, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(log), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// Payment provider webhook
		api.POST("/payments/webhook", paymentHandler.HandleWebhook)

		// Orders
		api.GET("/orders", apiHandler.ListOrders)
		api.GET("/orders/:id", apiHandler.GetOrder)
		api.POST("/orders/:id/advance", apiHandler.AdvanceOrder)
		api.POST("/orders/:id/cancel", apiHandler.CancelOrder)
		api.POST("/orders/:id/revert", apiHandler.RevertOrder)
		api.POST("/orders/:id/notes", apiHandler.AddDeliveryNote)
		api.PUT("/orders/:id/staff", apiHandler.AssignStaff)

		api.GET("/ledger/transactions", apiHandler.ListTransactions)

		// Affiliates
		api.GET("/affiliates/:id", apiHandler.GetAffiliate)
		api.POST("/affiliates/clicks/:code", apiHandler.RecordClick)
		api.GET("/commission-rules", apiHandler.ListCommissionRules)
	}

	return router
}

// RequestLogger writes one zap entry per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	log = logger.OrNop(log).Named("http")

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}
