package service

import (
	"context"
	"fmt"

	"sparkmart-ai-be/internal/config"
	"sparkmart-ai-be/internal/dto"
	"sparkmart-ai-be/internal/pkg/logger"
	"sparkmart-ai-be/internal/repository/specification"
	"sparkmart-ai-be/internal/repository/unitofwork"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// Flat demo price; the catalog stores prices as free text so the payment
// link uses a fixed amount until a structured price column lands.
// TODO: parse the order's catalog price once the CSV schema is pinned down.
const defaultOrderAmount = 100000

type IPaymentService interface {
	CreatePaymentLink(ctx context.Context, orderID string) (*dto.PaymentLinkResponse, error)
}

type paymentService struct {
	uowFactory unitofwork.RepositoryFactory
	cfg        config.PaymentConfig
	clientURL  string
	log        logger.ILogger
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	cfg config.PaymentConfig,
	clientURL string,
	log logger.ILogger,
) IPaymentService {
	return &paymentService{
		uowFactory: uowFactory,
		cfg:        cfg,
		clientURL:  clientURL,
		log:        log,
	}
}

// CreatePaymentLink builds a Midtrans Snap checkout link for an order.
func (s *paymentService) CreatePaymentLink(ctx context.Context, orderID string) (*dto.PaymentLinkResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	order, err := uow.OrderRepository().FindOne(ctx, specification.ByOrderID{OrderID: orderID})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order %s not found", orderID)
	}

	var sClient snap.Client
	env := midtrans.Sandbox
	if s.cfg.MidtransEnv == "production" {
		env = midtrans.Production
	}
	sClient.New(s.cfg.MidtransServerKey, env)

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.OrderId,
			GrossAmt: defaultOrderAmount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: fmt.Sprintf("%s/orders?payment=success", s.clientURL),
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    order.OrderId,
				Price: defaultOrderAmount,
				Qty:   1,
				Name:  order.ProductName,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := sClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	// Remember the checkout link on the order so later lookups can
	// reuse it instead of minting a second transaction.
	if order.Metadata == nil {
		order.Metadata = map[string]any{}
	}
	order.Metadata["payment_token"] = snapResp.Token
	order.Metadata["payment_redirect_url"] = snapResp.RedirectURL
	if err := uow.OrderRepository().Update(ctx, order); err != nil {
		s.log.Warn("PaymentService", "Failed to record payment link on order", map[string]interface{}{
			"order_id": order.OrderId,
			"error":    err.Error(),
		})
	}

	s.log.Info("PaymentService", "Payment link created", map[string]interface{}{
		"order_id": order.OrderId,
	})

	return &dto.PaymentLinkResponse{
		OrderId:     order.OrderId,
		RedirectURL: snapResp.RedirectURL,
		Token:       snapResp.Token,
	}, nil
}
