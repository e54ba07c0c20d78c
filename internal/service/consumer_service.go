package service

import (
	"context"
	"encoding/json"
	"log"

	"sparkmart-ai-be/internal/dto"
	"sparkmart-ai-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService is the complaint worker: it drains the complaint topic and
// sends support alerts off the request path, so a slow SMTP server never
// delays the chat reply.
type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	emailService mailer.IEmailService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	emailService mailer.IEmailService,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		emailService: emailService,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.PublishComplaintMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal complaint message: %v", err)
		msg.Ack() // invalid payload will never parse, drop it
		return
	}

	log.Printf("[INFO] Processing complaint alert for order %s", payload.OrderId)

	if err := cs.emailService.SendComplaintAlert(payload.OrderId, payload.ComplaintText, payload.FileUrls); err != nil {
		log.Printf("[ERROR] Failed to send complaint alert for %s: %v", payload.OrderId, err)
		msg.Nack() // retriable
		return
	}

	msg.Ack()
}
