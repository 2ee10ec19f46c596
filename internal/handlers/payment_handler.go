package handlers

import (
	"crypto/subtle"
	"net/http"
	"storefront/internal/logger"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const webhookSecretHeader = "X-Webhook-Secret"

type PaymentHandler struct {
	settlementService services.SettlementService
	webhookSecret     string
	logger            *zap.Logger
}

func NewPaymentHandler(settlementService services.SettlementService, webhookSecret string, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		settlementService: settlementService,
		webhookSecret:     webhookSecret,
		logger:            logger.OrNop(log).Named("payments"),
	}
}

type PaymentWebhookRequest struct {
	OrderID       string `json:"orderId"`
	Status        string `json:"status"`
	TransactionID string `json:"transactionId"`
}

type PaymentWebhookResponse struct {
	Outcome    services.SettlementOutcome `json:"outcome"`
	Order      interface{}                `json:"order,omitempty"`
	Commission *services.CommissionResult `json:"commission,omitempty"`
}

func (h *PaymentHandler) HandleWebhook(c *gin.Context) {
	if !h.authorized(c) {
		h.logger.Warn("payment webhook rejected", zap.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook secret"})
		return
	}

	var req PaymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.settlementService.HandlePaymentNotification(c.Request.Context(), services.PaymentNotification{
		OrderID:       req.OrderID,
		Status:        req.Status,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := PaymentWebhookResponse{Outcome: result.Outcome, Commission: result.Commission}
	if result.Order != nil {
		resp.Order = result.Order
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) authorized(c *gin.Context) bool {
	if h.webhookSecret == "" {
		return true
	}
	got := c.GetHeader(webhookSecretHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.webhookSecret)) == 1
}
