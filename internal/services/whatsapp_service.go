package services

import (
	"context"
	"fmt"
	"storefront/internal/models"
	"storefront/pkg/money"
	"storefront/pkg/whatsapp"
)

// Notifier tells the merchant about settled orders. Delivery is best-effort.
type Notifier interface {
	NotifyOrderPaid(ctx context.Context, order *models.Order) error
}

type whatsappNotifier struct {
	client        *whatsapp.Client
	merchantPhone string
}

func NewWhatsAppNotifier(client *whatsapp.Client, merchantPhone string) Notifier {
	return &whatsappNotifier{client: client, merchantPhone: whatsapp.NormalizePhone(merchantPhone, "")}
}

func (n *whatsappNotifier) NotifyOrderPaid(ctx context.Context, order *models.Order) error {
	message := fmt.Sprintf("Order %s paid: %s %s via %s (ref %s). Fulfillment: %s.",
		order.ID,
		order.Total.StringFixed(money.MinorUnits(order.Currency)),
		order.Currency,
		order.Payment.Method,
		order.Payment.TransactionID,
		order.FulfillmentMethod,
	)
	_, err := n.client.SendText(ctx, n.merchantPhone, message)
	return err
}
