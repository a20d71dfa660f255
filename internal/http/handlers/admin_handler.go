package handlers

import (
	"time"

	"merchline/internal/domain"
	applog "merchline/internal/log"
	"merchline/internal/repos"
	"merchline/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	Orders  *repos.OrderRepo
	Prods   *repos.ProductRepo
	Coupons *repos.CouponRepo
}

// GET /api/v1/admin/orders
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	ords, err := h.Orders.ListLatest(c.QueryInt("limit", 100))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"orders": ords})
}

// PATCH /api/v1/admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid order id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "malformed body")
	}
	if !domain.ValidOrderStatus(body.Status) {
		return badRequest(c, "unknown order status")
	}
	if err := h.Orders.UpdateStatus(id, body.Status); err != nil {
		return err
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": body.Status})
	return c.JSON(fiber.Map{"ok": true})
}

// PUT /api/v1/admin/products/:id/stock
func (h *AdminHandler) UpsertStock(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	var body struct {
		Size  string `json:"size"`
		Stock int    `json:"stock"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "malformed body")
	}
	size, ok := validate.Size(body.Size)
	if !ok || body.Stock < 0 {
		return badRequest(c, "invalid size or stock")
	}
	if err := h.Prods.UpsertStock(pid, size, body.Stock); err != nil {
		return err
	}
	applog.Audit(c, "admin.stock.save", map[string]any{"product": pid, "size": size, "stock": body.Stock})
	return c.JSON(fiber.Map{"ok": true})
}

// POST /api/v1/admin/coupons
func (h *AdminHandler) CreateCoupon(c *fiber.Ctx) error {
	var body struct {
		Code           string   `json:"code"`
		Type           string   `json:"type"`
		Value          float64  `json:"value"`
		MinOrderAmount float64  `json:"minOrderAmount"`
		MaxDiscount    *float64 `json:"maxDiscount"`
		StartsAt       string   `json:"startsAt"`
		ExpiresAt      string   `json:"expiresAt"`
		UsageLimit     *int     `json:"usageLimit"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "malformed body")
	}
	code, ok := validate.CouponCode(body.Code)
	if !ok {
		return badRequest(c, "invalid coupon code")
	}
	if body.Type != domain.CouponPercentage && body.Type != domain.CouponFixed {
		return badRequest(c, "type must be PERCENTAGE or FIXED")
	}
	if body.Value < 0 || (body.Type == domain.CouponPercentage && body.Value > 100) {
		return badRequest(c, "invalid coupon value")
	}
	for _, ts := range []string{body.StartsAt, body.ExpiresAt} {
		if _, err := time.Parse(time.RFC3339, ts); err != nil {
			return badRequest(c, "startsAt/expiresAt must be RFC3339")
		}
	}

	cp := &domain.Coupon{
		ID:             uuid.NewString(),
		Code:           code,
		Type:           body.Type,
		Value:          body.Value,
		MinOrderAmount: body.MinOrderAmount,
		MaxDiscount:    body.MaxDiscount,
		StartsAt:       body.StartsAt,
		ExpiresAt:      body.ExpiresAt,
		UsageLimit:     body.UsageLimit,
		Active:         true,
	}
	if err := h.Coupons.Create(cp); err != nil {
		return badRequest(c, "could not create coupon (duplicate code?)")
	}
	applog.Audit(c, "admin.coupons.create", map[string]any{"code": code})
	return c.Status(fiber.StatusCreated).JSON(cp)
}

// GET /api/v1/admin/coupons
func (h *AdminHandler) ListCoupons(c *fiber.Ctx) error {
	coupons, err := h.Coupons.List()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"coupons": coupons})
}

// PATCH /api/v1/admin/coupons/:id/deactivate
func (h *AdminHandler) DeactivateCoupon(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid coupon id")
	}
	if err := h.Coupons.Deactivate(id); err != nil {
		return err
	}
	applog.Audit(c, "admin.coupons.deactivate", map[string]any{"coupon_id": id})
	return c.JSON(fiber.Map{"ok": true})
}
