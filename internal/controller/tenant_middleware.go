package controller

import (
	"omniops-core/internal/entity"
	"omniops-core/internal/pkg/serverutils"
	"omniops-core/internal/service"

	"github.com/gofiber/fiber/v2"
)

const tenantLocalKey = "tenant"

// TenantResolver authenticates widget routes by store domain. The widget
// sends its host in X-Tenant-Domain; unknown or inactive domains get a 404
// so the header can not be used to enumerate registrations.
func TenantResolver(tenantService service.ITenantService) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		domain := ctx.Get("X-Tenant-Domain")
		if domain == "" {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "X-Tenant-Domain header is required"))
		}

		tenant, err := tenantService.FindByDomain(ctx.Context(), domain)
		if err != nil {
			return err
		}
		if tenant == nil {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Unknown store"))
		}

		ctx.Locals(tenantLocalKey, tenant)
		return ctx.Next()
	}
}

func tenantFromLocals(ctx *fiber.Ctx) *entity.Tenant {
	tenant, _ := ctx.Locals(tenantLocalKey).(*entity.Tenant)
	return tenant
}
