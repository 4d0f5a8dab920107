package controller

import (
	"strconv"

	"ai-policyassist-be/internal/dto"
	"ai-policyassist-be/internal/pkg/serverutils"
	"ai-policyassist-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	DeleteTurn(ctx *fiber.Ctx) error
}

type sessionController struct {
	service service.ISessionService
}

func NewSessionController(service service.ISessionService) ISessionController {
	return &sessionController{service: service}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/session", c.Create)
	h.Get("/sessions", c.GetAll)
	h.Delete("/session/:session", c.Delete)
	h.Delete("/session/:session/turn/:turn", c.DeleteTurn)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	session, err := c.service.CreateSession(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", dto.CreateSessionResponse{
		SessionNumber: session.SessionNumber,
	}))
}

func (c *sessionController) GetAll(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	sessions, err := c.service.ListSessions(ctx.Context(), userId)
	if err != nil {
		return err
	}

	res := make([]dto.SessionResponse, len(sessions))
	for i, s := range sessions {
		res[i] = dto.SessionResponse{
			SessionNumber: s.SessionNumber,
			Current:       s.Current,
			Active:        s.Active,
			CreatedAt:     s.CreatedAt,
		}
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all sessions", res))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	sessionNumber, err := strconv.ParseInt(ctx.Params("session"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session number")
	}

	if err := c.service.SoftDeleteSession(ctx.Context(), userId, sessionNumber); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete session", nil))
}

func (c *sessionController) DeleteTurn(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	sessionNumber, err := strconv.ParseInt(ctx.Params("session"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session number")
	}
	turnNumber, err := strconv.ParseInt(ctx.Params("turn"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid turn number")
	}

	if err := c.service.SoftDeleteTurn(ctx.Context(), userId, sessionNumber, turnNumber); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete turn", nil))
}
