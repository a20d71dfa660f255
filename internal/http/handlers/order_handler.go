package handlers

import (
	"merchline/internal/domain"
	applog "merchline/internal/log"
	"merchline/internal/repos"
	"merchline/internal/services"
	"merchline/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Order *services.OrderService
}

func (h *OrderHandler) CreatePaymentIntent(c *fiber.Ctx) error {
	var body struct {
		CouponCode string `json:"couponCode"`
	}
	// Body is optional; a bare POST prices without a coupon.
	_ = c.BodyParser(&body)
	if body.CouponCode != "" {
		if _, ok := validate.CouponCode(body.CouponCode); !ok {
			return badRequest(c, "invalid coupon code")
		}
	}

	resp, err := h.Order.CreatePaymentIntent(currentUser(c).ID, body.CouponCode)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "order.intent", map[string]any{
		"intent_id": resp.IntentID,
		"total":     resp.Breakdown.Total,
		"test_mode": resp.TestMode,
	})
	return c.JSON(resp)
}

type createOrderBody struct {
	PaymentIntentID string         `json:"paymentIntentId"`
	ShippingAddress domain.Address `json:"shippingAddress"`
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var body createOrderBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "malformed body")
	}
	if body.ShippingAddress.PostalCode != "" {
		if _, ok := validate.PostalCode(body.ShippingAddress.PostalCode); !ok {
			return badRequest(c, "invalid postal code")
		}
	}

	order, items, err := h.Order.CreateOrder(currentUser(c).ID, body.PaymentIntentID, body.ShippingAddress)
	if err != nil {
		applog.Security(c, "order.create.fail", map[string]any{"intent_id": body.PaymentIntentID, "error": err.Error()})
		return fail(c, err)
	}
	applog.Audit(c, "order.create", map[string]any{
		"order_id": order.ID,
		"total":    order.Total,
	})
	return c.Status(fiber.StatusCreated).JSON(orderJSON(order, items))
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.Order.ListForUser(currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"orders": orders})
}

func (h *OrderHandler) Detail(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid order id")
	}
	o, items, err := h.Order.Get(currentUser(c).ID, oid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(orderJSON(&o, items))
}

func orderJSON(o *repos.OrderRow, items []repos.OrderItemRow) fiber.Map {
	return fiber.Map{
		"order":           o,
		"items":           items,
		"shippingAddress": o.ShippingAddress(),
	}
}
