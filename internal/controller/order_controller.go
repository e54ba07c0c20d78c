package controller

import (
	"sparkmart-ai-be/internal/pkg/serverutils"
	"sparkmart-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOrderController interface {
	RegisterRoutes(r fiber.Router)
	GetOrder(ctx *fiber.Ctx) error
	GetAllOrders(ctx *fiber.Ctx) error
	GetAllComplaints(ctx *fiber.Ctx) error
	CreatePaymentLink(ctx *fiber.Ctx) error
}

type orderController struct {
	orderService   service.IOrderService
	paymentService service.IPaymentService
}

func NewOrderController(orderService service.IOrderService, paymentService service.IPaymentService) IOrderController {
	return &orderController{
		orderService:   orderService,
		paymentService: paymentService,
	}
}

func (c *orderController) RegisterRoutes(r fiber.Router) {
	// order lookup and payment are public; a customer only needs the id
	h := r.Group("/orders")
	h.Get("/:orderId", c.GetOrder)
	h.Post("/:orderId/payment-link", c.CreatePaymentLink)

	admin := r.Group("/admin")
	admin.Use(serverutils.JwtMiddleware)
	admin.Get("/orders", c.GetAllOrders)
	admin.Get("/complaints", c.GetAllComplaints)
}

func (c *orderController) GetOrder(ctx *fiber.Ctx) error {
	res, err := c.orderService.GetOrder(ctx.Context(), ctx.Params("orderId"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Order not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Order", res))
}

func (c *orderController) GetAllOrders(ctx *fiber.Ctx) error {
	res, err := c.orderService.GetAllOrders(ctx.Context(), ctx.QueryInt("user_id", 0))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Orders", res))
}

func (c *orderController) GetAllComplaints(ctx *fiber.Ctx) error {
	res, err := c.orderService.GetAllComplaints(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Complaints", res))
}

func (c *orderController) CreatePaymentLink(ctx *fiber.Ctx) error {
	res, err := c.paymentService.CreatePaymentLink(ctx.Context(), ctx.Params("orderId"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment link", res))
}
