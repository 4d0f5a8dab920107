package controller

import (
	"strconv"

	"ai-policyassist-be/internal/dto"
	"ai-policyassist-be/internal/pkg/serverutils"
	"ai-policyassist-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	Files(ctx *fiber.Ctx) error
	Artifact(ctx *fiber.Ctx) error
}

type assistantController struct {
	service service.IAssistantService
}

func NewAssistantController(service service.IAssistantService) IAssistantController {
	return &assistantController{service: service}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/chat", c.Chat)
	h.Get("/files/:session/:turn", c.Files)
	h.Get("/files/:session/:turn/:filename", c.Artifact)
}

func (c *assistantController) Chat(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := c.service.SendChat(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *assistantController) Files(ctx *fiber.Ctx) error {
	userId, sessionNumber, turnNumber, err := c.pathScope(ctx)
	if err != nil {
		return err
	}

	files, err := c.service.ListFiles(userId, sessionNumber, turnNumber)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list files", files))
}

func (c *assistantController) Artifact(ctx *fiber.Ctx) error {
	userId, sessionNumber, turnNumber, err := c.pathScope(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.LocateArtifact(userId, sessionNumber, turnNumber, ctx.Params("filename"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success locate artifact", res))
}

func (c *assistantController) pathScope(ctx *fiber.Ctx) (uuid.UUID, int64, int64, error) {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	sessionNumber, err := strconv.ParseInt(ctx.Params("session"), 10, 64)
	if err != nil {
		return uuid.Nil, 0, 0, fiber.NewError(fiber.StatusBadRequest, "invalid session number")
	}
	turnNumber, err := strconv.ParseInt(ctx.Params("turn"), 10, 64)
	if err != nil {
		return uuid.Nil, 0, 0, fiber.NewError(fiber.StatusBadRequest, "invalid turn number")
	}
	return userId, sessionNumber, turnNumber, nil
}
