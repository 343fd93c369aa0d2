package controller

import (
	"omniops-core/internal/dto"
	"omniops-core/internal/pkg/serverutils"
	"omniops-core/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPageController interface {
	RegisterRoutes(r fiber.Router)
	Upsert(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	SemanticSearch(ctx *fiber.Ctx) error
}

type pageController struct {
	pageService   service.IPageService
	tenantService service.ITenantService
}

func NewPageController(pageService service.IPageService, tenantService service.ITenantService) IPageController {
	return &pageController{
		pageService:   pageService,
		tenantService: tenantService,
	}
}

func (c *pageController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/page/v1")
	h.Use(TenantResolver(c.tenantService))
	h.Get("semantic-search", c.SemanticSearch)
	h.Post("", c.Upsert)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
}

func (c *pageController) Upsert(ctx *fiber.Ctx) error {
	tenant := tenantFromLocals(ctx)

	var req dto.UpsertPageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.pageService.Upsert(ctx.Context(), tenant.Id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upsert page", res))
}

func (c *pageController) Show(ctx *fiber.Ctx) error {
	tenant := tenantFromLocals(ctx)

	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid page ID"))
	}

	res, err := c.pageService.Show(ctx.Context(), tenant.Id, id)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Page not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show page", res))
}

func (c *pageController) Delete(ctx *fiber.Ctx) error {
	tenant := tenantFromLocals(ctx)

	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid page ID"))
	}

	if err := c.pageService.Delete(ctx.Context(), tenant.Id, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete page", nil))
}

func (c *pageController) SemanticSearch(ctx *fiber.Ctx) error {
	tenant := tenantFromLocals(ctx)

	query := ctx.Query("query")
	if query == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "query parameter is required"))
	}

	res, err := c.pageService.SemanticSearch(ctx.Context(), tenant.Id, query)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success semantic search", res))
}
