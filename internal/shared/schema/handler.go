package schema

import (
	"github.com/gofiber/fiber/v2"

	"agency-cms/internal/shared/httpx"
)

// RegisterRoutes exposes the definitions under /schemas
func RegisterRoutes(router fiber.Router) {
	group := router.Group("/schemas")
	group.Get("/", listSchemas)
	group.Get("/:name", getSchema)
}

func listSchemas(c *fiber.Ctx) error {
	return httpx.Success(c, fiber.StatusOK, "", All())
}

func getSchema(c *fiber.Ctx) error {
	s, ok := Get(c.Params("name"))
	if !ok {
		return httpx.Fail(c, fiber.StatusNotFound, "Schema not found")
	}
	return httpx.Success(c, fiber.StatusOK, "", s)
}
