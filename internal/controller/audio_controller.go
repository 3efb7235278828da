package controller

import (
	"fmt"
	"path/filepath"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/dto"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/pkg/serverutils"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAudioController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type audioController struct {
	audioService service.IAudioService
	uploadDir    string
}

func NewAudioController(audioService service.IAudioService, uploadDir string) IAudioController {
	return &audioController{
		audioService: audioService,
		uploadDir:    uploadDir,
	}
}

func (c *audioController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/audio/v1")
	h.Post("upload", c.Upload)
	h.Post("search", c.Search)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
}

func (c *audioController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Audio file is required"))
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(fileHeader.Filename))
	storagePath := filepath.Join(c.uploadDir, filename)

	if err := ctx.SaveFile(fileHeader, storagePath); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to store audio file"))
	}

	res, err := c.audioService.Ingest(ctx.Context(), filename, fileHeader.Filename, storagePath)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Audio uploaded", res))
}

func (c *audioController) Search(ctx *fiber.Ctx) error {
	var req dto.AudioSearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewInvalidQuery("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return serverutils.NewInvalidQuery(err.Error())
	}

	res, err := c.audioService.Search(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Search results", res))
}

func (c *audioController) List(ctx *fiber.Ctx) error {
	res, err := c.audioService.List(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Audio resources", res))
}

func (c *audioController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewInvalidQuery("id must be a valid UUID")
	}

	res, err := c.audioService.Get(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Audio resource", res))
}

func (c *audioController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewInvalidQuery("id must be a valid UUID")
	}

	if err := c.audioService.Delete(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Audio resource deleted", nil))
}
