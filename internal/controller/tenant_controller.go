package controller

import (
	"errors"

	"omniops-core/internal/dto"
	"omniops-core/internal/pkg/serverutils"
	"omniops-core/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITenantController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type tenantController struct {
	tenantService service.ITenantService
}

func NewTenantController(tenantService service.ITenantService) ITenantController {
	return &tenantController{
		tenantService: tenantService,
	}
}

func (c *tenantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/tenant/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
}

func (c *tenantController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateTenantRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.tenantService.Create(ctx.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrDomainTaken) {
			return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409, "Domain already registered"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create tenant", res))
}

func (c *tenantController) Show(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid tenant ID"))
	}

	res, err := c.tenantService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Tenant not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show tenant", res))
}

func (c *tenantController) Update(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid tenant ID"))
	}

	var req dto.UpdateTenantRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.tenantService.Update(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success update tenant", nil))
}

func (c *tenantController) Delete(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid tenant ID"))
	}

	if err := c.tenantService.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete tenant", nil))
}
