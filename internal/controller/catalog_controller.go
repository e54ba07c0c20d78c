package controller

import (
	"sparkmart-ai-be/internal/pkg/serverutils"
	"sparkmart-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICatalogController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Preview(ctx *fiber.Ctx) error
	Schema(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
}

type catalogController struct {
	service service.ICatalogService
}

func NewCatalogController(service service.ICatalogService) ICatalogController {
	return &catalogController{service: service}
}

func (c *catalogController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/catalog")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/upload", c.Upload)
	h.Get("/preview", c.Preview)
	h.Get("/schema", c.Schema)
	h.Delete("/", c.Clear)
}

func (c *catalogController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "CSV file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Failed to open uploaded file"))
	}
	defer file.Close()

	res, err := c.service.UploadCSV(ctx.Context(), file)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Catalog uploaded", res))
}

func (c *catalogController) Preview(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 0)

	res, err := c.service.Preview(ctx.Context(), limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Catalog preview", res))
}

func (c *catalogController) Schema(ctx *fiber.Ctx) error {
	res, err := c.service.Schema(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Catalog schema", res))
}

func (c *catalogController) Clear(ctx *fiber.Ctx) error {
	if err := c.service.Clear(ctx.Context()); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Catalog cleared", nil))
}
