package handlers

import (
	"net/http"
	"storefront/internal/models"
	"storefront/internal/repository"
	"storefront/internal/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

// APIHandler serves the merchant dashboard: order reads, staff actions,
// ledger and affiliate views.
type APIHandler struct {
	orderService     services.OrderService
	ledgerPoster     services.LedgerPoster
	affiliateService services.AffiliateService
	ruleRepo         repository.CommissionRuleRepository
}

func NewAPIHandler(
	orderService services.OrderService,
	ledgerPoster services.LedgerPoster,
	affiliateService services.AffiliateService,
	ruleRepo repository.CommissionRuleRepository,
) *APIHandler {
	return &APIHandler{
		orderService:     orderService,
		ledgerPoster:     ledgerPoster,
		affiliateService: affiliateService,
		ruleRepo:         ruleRepo,
	}
}

// Order endpoints
func (h *APIHandler) ListOrders(c *gin.Context) {
	filter := repository.OrderFilter{
		Status:          models.OrderStatus(c.Query("status")),
		AssignedStaffID: c.Query("staff_id"),
	}
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		filter.Limit = n
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

func (h *APIHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrderSnapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *APIHandler) AdvanceOrder(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
		Actor  string `json:"actor"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, err := h.orderService.AdvanceStatus(c.Request.Context(), c.Param("id"), models.OrderStatus(req.Status), req.Actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type reasonRequest struct {
	Reason string `json:"reason"`
	Actor  string `json:"actor"`
}

func (h *APIHandler) CancelOrder(c *gin.Context) {
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), c.Param("id"), req.Reason, req.Actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *APIHandler) RevertOrder(c *gin.Context) {
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, err := h.orderService.Revert(c.Request.Context(), c.Param("id"), req.Reason, req.Actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *APIHandler) AddDeliveryNote(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
		Actor   string `json:"actor"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, err := h.orderService.AddDeliveryNote(c.Request.Context(), c.Param("id"), req.Message, req.Actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *APIHandler) AssignStaff(c *gin.Context) {
	var req struct {
		StaffID string `json:"staff_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, err := h.orderService.AssignStaff(c.Request.Context(), c.Param("id"), req.StaffID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Ledger endpoints
func (h *APIHandler) ListTransactions(c *gin.Context) {
	txns, err := h.ledgerPoster.ListTransactions(c.Request.Context(), c.Query("order_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns, "count": len(txns)})
}

// Affiliate endpoints
func (h *APIHandler) GetAffiliate(c *gin.Context) {
	ctx := c.Request.Context()
	affiliate, err := h.affiliateService.GetAffiliate(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	commissions, err := h.affiliateService.ListCommissions(ctx, affiliate.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"affiliate": affiliate, "commissions": commissions})
}

func (h *APIHandler) RecordClick(c *gin.Context) {
	if err := h.affiliateService.RecordClick(c.Request.Context(), c.Param("code")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}

func (h *APIHandler) ListCommissionRules(c *gin.Context) {
	rules, err := h.ruleRepo.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}
