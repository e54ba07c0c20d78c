package service

import (
	"context"
	"fmt"

	"sparkmart-ai-be/internal/pkg/logger"
	"sparkmart-ai-be/internal/pkg/mailer"
	"sparkmart-ai-be/pkg/events"
	"sparkmart-ai-be/pkg/nats"
)

const orderReceiptDurable = "order-receipts"

type INotificationService interface {
	Start() error
}

// notificationService consumes order events off the NATS bus and sends
// receipts. Orders are anonymous, so receipts go to the fulfillment inbox
// rather than a customer address.
type notificationService struct {
	subscriber   *nats.Subscriber
	emailService mailer.IEmailService
	receiptInbox string
	log          logger.ILogger
}

func NewNotificationService(
	subscriber *nats.Subscriber,
	emailService mailer.IEmailService,
	receiptInbox string,
	log logger.ILogger,
) INotificationService {
	return &notificationService{
		subscriber:   subscriber,
		emailService: emailService,
		receiptInbox: receiptInbox,
		log:          log,
	}
}

func (ns *notificationService) Start() error {
	subject := fmt.Sprintf("events.%s", events.TypeOrderPlaced)
	return ns.subscriber.Subscribe(subject, orderReceiptDurable, ns.handleOrderPlaced)
}

func (ns *notificationService) handleOrderPlaced(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	orderID, _ := payload["order_id"].(string)
	productName, _ := payload["product_name"].(string)
	if orderID == "" {
		ns.log.Warn("NotificationService", "Order event missing order_id", map[string]interface{}{
			"subject": event.EventType(),
		})
		return nil // malformed, no point redelivering
	}

	if err := ns.emailService.SendOrderReceipt(ns.receiptInbox, orderID, productName); err != nil {
		ns.log.Error("NotificationService", "Failed to send order receipt", map[string]interface{}{
			"order_id": orderID,
			"error":    err.Error(),
		})
		return err
	}

	ns.log.Info("NotificationService", "Order receipt sent", map[string]interface{}{
		"order_id": orderID,
	})
	return nil
}
