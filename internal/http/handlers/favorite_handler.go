package handlers

import (
	applog "merchline/internal/log"
	"merchline/internal/services"
	"merchline/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type FavoriteHandler struct {
	Favs *services.FavoriteService
}

func (h *FavoriteHandler) List(c *fiber.Ctx) error {
	items, err := h.Favs.List(currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"favorites": items})
}

func (h *FavoriteHandler) Add(c *fiber.Ctx) error {
	var body struct {
		ProductID string `json:"productId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "malformed body")
	}
	pid, ok := validate.ID(body.ProductID)
	if !ok {
		return badRequest(c, "missing productId")
	}
	if err := h.Favs.Add(currentUser(c).ID, pid); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "favorites.add", map[string]any{"product": pid})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
}

func (h *FavoriteHandler) Remove(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	if err := h.Favs.Remove(currentUser(c).ID, pid); err != nil {
		return err
	}
	applog.Audit(c, "favorites.remove", map[string]any{"product": pid})
	return c.JSON(fiber.Map{"ok": true})
}
