package handlers

import (
	applog "merchline/internal/log"
	"merchline/internal/services"
	"merchline/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CouponHandler struct {
	Coupons *services.CouponService
}

// Validate previews the discount for a code and amount. Strict on purpose:
// checkout itself degrades silently, this endpoint tells the shopper why a
// code will not apply.
func (h *CouponHandler) Validate(c *fiber.Ctx) error {
	var body struct {
		Code        string  `json:"code"`
		OrderAmount float64 `json:"orderAmount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "malformed body")
	}
	code, ok := validate.CouponCode(body.Code)
	if !ok {
		return badRequest(c, "invalid coupon code")
	}
	if body.OrderAmount < 0 {
		return badRequest(c, "invalid order amount")
	}

	cp, discount, err := h.Coupons.Preview(code, body.OrderAmount)
	if err != nil {
		return fail(c, err)
	}
	applog.Info(c, "coupon.preview", map[string]any{"code": cp.Code, "discount": discount})
	return c.JSON(fiber.Map{
		"code":     cp.Code,
		"type":     cp.Type,
		"discount": discount,
		"total":    body.OrderAmount - discount,
	})
}
