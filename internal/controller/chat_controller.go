package controller

import (
	"fmt"
	"strings"

	"sparkmart-ai-be/internal/dto"
	"sparkmart-ai-be/internal/pkg/serverutils"
	"sparkmart-ai-be/internal/service"
	"sparkmart-ai-be/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetAllSessions(ctx *fiber.Ctx) error
	GetChatHistory(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type chatController struct {
	service  service.IChatService
	uploader storage.Uploader
}

func NewChatController(service service.IChatService, uploader storage.Uploader) IChatController {
	return &chatController{service: service, uploader: uploader}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("/session", c.CreateSession)
	h.Get("/sessions", c.GetAllSessions)
	h.Get("/history/:sessionId", c.GetChatHistory)
	h.Post("/send", c.SendChat)
	h.Delete("/session", c.DeleteSession)
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.service.CreateSession(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Session created", res))
}

func (c *chatController) GetAllSessions(ctx *fiber.Ctx) error {
	res, err := c.service.GetAllSessions(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Sessions", res))
}

func (c *chatController) GetChatHistory(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("sessionId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session id"))
	}

	res, err := c.service.GetChatHistory(ctx.Context(), sessionId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat history", res))
}

// SendChat accepts JSON or multipart form. Multipart requests may carry
// complaint attachments under "files"; each upload is stored and appended to
// the message as a [FILE_ATTACHED: url] marker the complaint agent picks up.
func (c *chatController) SendChat(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest

	if strings.HasPrefix(ctx.Get("Content-Type"), "multipart/form-data") {
		if raw := ctx.FormValue("session_id"); raw != "" {
			sessionId, err := uuid.Parse(raw)
			if err != nil {
				return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session id"))
			}
			req.SessionId = sessionId
		}
		req.Message = ctx.FormValue("message")

		markers, err := c.uploadAttachments(ctx)
		if err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
		}
		req.Message += markers
	} else {
		if err := ctx.BodyParser(&req); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
		}
	}

	// The session id may also arrive as a header; the body wins when both
	// are present.
	if req.SessionId == uuid.Nil {
		if raw := ctx.Get("Session-Id"); raw != "" {
			sessionId, err := uuid.Parse(raw)
			if err != nil {
				return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session id"))
			}
			req.SessionId = sessionId
		}
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.SendChat(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat reply", res))
}

func (c *chatController) uploadAttachments(ctx *fiber.Ctx) (string, error) {
	form, err := ctx.MultipartForm()
	if err != nil || form == nil {
		return "", nil
	}

	files := form.File["files"]
	if len(files) == 0 {
		return "", nil
	}
	if c.uploader == nil {
		return "", fmt.Errorf("file uploads are not configured")
	}

	var markers strings.Builder
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open upload %s: %w", fileHeader.Filename, err)
		}

		url, err := c.uploader.Upload(ctx.Context(), fileHeader.Filename, file, fileHeader.Size,
			fileHeader.Header.Get("Content-Type"))
		file.Close()
		if err != nil {
			return "", fmt.Errorf("failed to store upload %s: %w", fileHeader.Filename, err)
		}

		fmt.Fprintf(&markers, "\n[FILE_ATTACHED: %s]", url)
	}
	return markers.String(), nil
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	var req dto.DeleteSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	if err := c.service.DeleteSession(ctx.Context(), &req); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Session deleted", nil))
}
