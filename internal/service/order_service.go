package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"sparkmart-ai-be/internal/dto"
	"sparkmart-ai-be/internal/entity"
	"sparkmart-ai-be/internal/pkg/logger"
	"sparkmart-ai-be/internal/repository/specification"
	"sparkmart-ai-be/internal/repository/unitofwork"
	"sparkmart-ai-be/pkg/agent"
	"sparkmart-ai-be/pkg/events"
	"sparkmart-ai-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// ComplaintTopicName is the in-process topic the complaint worker consumes.
const ComplaintTopicName = "COMPLAINT_FILED"

type IOrderService interface {
	agent.OrderPlacer
	agent.ComplaintRecorder

	GetOrder(ctx context.Context, orderID string) (*dto.OrderResponse, error)
	GetAllOrders(ctx context.Context, userID int) ([]*dto.OrderResponse, error)
	GetAllComplaints(ctx context.Context) ([]*dto.OrderResponse, error)
}

type orderService struct {
	uowFactory unitofwork.RepositoryFactory
	pubSub     *gochannel.GoChannel
	publisher  *nats.Publisher
	log        logger.ILogger
}

func NewOrderService(
	uowFactory unitofwork.RepositoryFactory,
	pubSub *gochannel.GoChannel,
	publisher *nats.Publisher,
	log logger.ILogger,
) IOrderService {
	return &orderService{
		uowFactory: uowFactory,
		pubSub:     pubSub,
		publisher:  publisher,
		log:        log,
	}
}

// PlaceOrder persists a new order with a generated id and an allocated
// anonymous user id.
func (s *orderService) PlaceOrder(ctx context.Context, productName string) (*agent.PlacedOrder, error) {
	if strings.TrimSpace(productName) == "" {
		return nil, fmt.Errorf("product name is required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	usedIds, err := uow.OrderRepository().UsedUserIds(ctx)
	if err != nil {
		return nil, err
	}

	order := entity.Order{
		OrderId:     newOrderID(),
		ProductName: strings.TrimSpace(productName),
		UserId:      allocateUserID(usedIds),
		CreatedAt:   time.Now(),
	}

	if err := uow.OrderRepository().Create(ctx, &order); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("OrderService", "Order placed", map[string]interface{}{
		"order_id": order.OrderId,
		"product":  order.ProductName,
		"user_id":  order.UserId,
	})

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewOrderPlaced(order.OrderId, order.ProductName, order.UserId)); err != nil {
			s.log.Warn("OrderService", "Failed to publish order event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &agent.PlacedOrder{
		OrderID:     order.OrderId,
		UserID:      order.UserId,
		ProductName: order.ProductName,
	}, nil
}

// RecordComplaint marks an order as complained. Existing complaint text is
// kept; new file URLs are appended to any already attached.
func (s *orderService) RecordComplaint(ctx context.Context, orderID, complaintText string, fileURLs []string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	order, err := uow.OrderRepository().FindOne(ctx, specification.ByOrderID{OrderID: orderID})
	if err != nil {
		return err
	}
	if order == nil {
		return agent.ErrOrderNotFound
	}

	order.IsComplaint = true
	if order.ComplaintText == nil || *order.ComplaintText == "" {
		text := complaintText
		order.ComplaintText = &text
	}
	if len(fileURLs) > 0 {
		joined := strings.Join(fileURLs, ";")
		if order.ComplaintFileUrl != nil && *order.ComplaintFileUrl != "" {
			joined = *order.ComplaintFileUrl + ";" + joined
		}
		order.ComplaintFileUrl = &joined
	}

	if err := uow.OrderRepository().Update(ctx, order); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.log.Info("OrderService", "Complaint recorded", map[string]interface{}{
		"order_id":    orderID,
		"attachments": len(fileURLs),
	})

	s.publishComplaint(ctx, orderID, complaintText, fileURLs)
	return nil
}

func (s *orderService) publishComplaint(ctx context.Context, orderID, complaintText string, fileURLs []string) {
	if s.pubSub != nil {
		payload, err := json.Marshal(dto.PublishComplaintMessage{
			OrderId:       orderID,
			ComplaintText: complaintText,
			FileUrls:      fileURLs,
		})
		if err == nil {
			msg := message.NewMessage(watermill.NewUUID(), payload)
			if err := s.pubSub.Publish(ComplaintTopicName, msg); err != nil {
				s.log.Warn("OrderService", "Failed to publish complaint message", map[string]interface{}{"error": err.Error()})
			}
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewComplaintFiled(orderID, complaintText, fileURLs)); err != nil {
			s.log.Warn("OrderService", "Failed to publish complaint event", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (s *orderService) GetOrder(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	order, err := uow.OrderRepository().FindOne(ctx, specification.ByOrderID{OrderID: orderID})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}
	return toOrderResponse(order), nil
}

// GetAllOrders lists every order, or only one user's when userID > 0.
func (s *orderService) GetAllOrders(ctx context.Context, userID int) ([]*dto.OrderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if userID > 0 {
		specs = append(specs, specification.ByUserID{UserID: userID})
	}

	orders, err := uow.OrderRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

func (s *orderService) GetAllComplaints(ctx context.Context) ([]*dto.OrderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	orders, err := uow.OrderRepository().FindAll(ctx,
		specification.ComplaintsOnly{},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

func newOrderID() string {
	return "order_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:10]
}

// allocateUserID hands out 10-99 first; once exhausted it continues
// sequentially from 100.
func allocateUserID(usedIds []int) int {
	used := make(map[int]bool, len(usedIds))
	maxUsed := 0
	for _, id := range usedIds {
		used[id] = true
		if id > maxUsed {
			maxUsed = id
		}
	}

	for id := 10; id <= 99; id++ {
		if !used[id] {
			return id
		}
	}

	if maxUsed < 99 {
		return 100
	}
	return maxUsed + 1
}

func toOrderResponse(order *entity.Order) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		OrderId:     order.OrderId,
		ProductName: order.ProductName,
		UserId:      order.UserId,
		IsComplaint: order.IsComplaint,
		CreatedAt:   order.CreatedAt,
	}
	if order.ComplaintText != nil {
		resp.ComplaintText = *order.ComplaintText
	}
	if order.ComplaintFileUrl != nil && *order.ComplaintFileUrl != "" {
		resp.ComplaintFileUrls = strings.Split(*order.ComplaintFileUrl, ";")
	}
	return resp
}

func toOrderResponses(orders []*entity.Order) []*dto.OrderResponse {
	out := make([]*dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderResponse(order))
	}
	return out
}
