package controller

import (
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/dto"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/pkg/serverutils"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IConsultationController interface {
	RegisterRoutes(r fiber.Router)
	Consult(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type consultationController struct {
	consultationService service.IConsultationService
}

func NewConsultationController(consultationService service.IConsultationService) IConsultationController {
	return &consultationController{
		consultationService: consultationService,
	}
}

func (c *consultationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/consultation/v1")
	h.Post("consult", c.Consult)
	h.Post("reset", c.Reset)
	h.Get("status/:session_id", c.Status)
	h.Get("history/:session_id", c.History)
}

func (c *consultationController) Consult(ctx *fiber.Ctx) error {
	var req dto.ConsultRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewInvalidQuery("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return serverutils.NewInvalidQuery(err.Error())
	}

	res, err := c.consultationService.Consult(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Consultation completed", res))
}

func (c *consultationController) Reset(ctx *fiber.Ctx) error {
	var req dto.ResetSessionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return serverutils.NewInvalidQuery("invalid request body")
		}
	}

	res, err := c.consultationService.ResetSession(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session reset", res))
}

func (c *consultationController) Status(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("session_id"))
	if err != nil {
		return serverutils.NewInvalidQuery("session_id must be a valid UUID")
	}

	res, err := c.consultationService.GetSessionStatus(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session status", res))
}

func (c *consultationController) History(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("session_id"))
	if err != nil {
		return serverutils.NewInvalidQuery("session_id must be a valid UUID")
	}

	res, err := c.consultationService.GetSessionHistory(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session history", res))
}
