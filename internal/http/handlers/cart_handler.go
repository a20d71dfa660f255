package handlers

import (
	applog "merchline/internal/log"
	"merchline/internal/services"
	"merchline/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

type addToCartBody struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Qty       int    `json:"qty"`
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(cv)
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	var body addToCartBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "malformed body")
	}
	pid, ok := validate.ID(body.ProductID)
	if !ok {
		return badRequest(c, "missing productId")
	}
	size, ok := validate.Size(body.Size)
	if !ok {
		return badRequest(c, "invalid size")
	}
	color, ok := validate.Color(body.Color)
	if !ok {
		return badRequest(c, "invalid color")
	}
	qty := validate.Qty(body.Qty)

	uid := currentUser(c).ID
	if err := h.Cart.Add(uid, pid, size, color, qty); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "cart.add", map[string]any{"product": pid, "size": size, "qty": qty})

	cv, err := h.Cart.View(uid)
	if err != nil {
		return err
	}
	return c.JSON(cv)
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	itemID, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid item id")
	}
	var body struct {
		Qty int `json:"qty"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "malformed body")
	}

	uid := currentUser(c).ID
	if err := h.Cart.Update(uid, itemID, body.Qty); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "cart.update", map[string]any{"item": itemID, "qty": body.Qty})

	cv, err := h.Cart.View(uid)
	if err != nil {
		return err
	}
	return c.JSON(cv)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	itemID, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid item id")
	}
	uid := currentUser(c).ID
	if err := h.Cart.Remove(uid, itemID); err != nil {
		return err
	}
	applog.Audit(c, "cart.remove", map[string]any{"item": itemID})

	cv, err := h.Cart.View(uid)
	if err != nil {
		return err
	}
	return c.JSON(cv)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.Cart.Clear(currentUser(c).ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true})
}
