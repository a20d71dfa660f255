package services

import (
	"database/sql"
	"math"

	"merchline/internal/domain"
	"merchline/internal/repos"
)

// PriceBreakdown is the pricing snapshot shared by payment-intent creation
// and order creation. Shipping and tax are currently flat zero.
type PriceBreakdown struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// AmountMinor is the total in minor units, as the processor wants it.
func (b PriceBreakdown) AmountMinor() int64 {
	return int64(math.Round(b.Total * 100))
}

// Quote prices a set of cart lines with an optional coupon. Lenient by
// design: a coupon that fails evaluation yields zero discount rather than
// failing the quote, so a stale code never strands a checkout. The strict
// coupon path is CouponService.Preview.
func Quote(lines []repos.CartLine, cp *domain.Coupon) (PriceBreakdown, *domain.Coupon) {
	b := PriceBreakdown{}
	for _, l := range lines {
		b.Subtotal += l.Price * float64(l.Qty)
	}
	if cp != nil {
		if d, err := Evaluate(cp, b.Subtotal); err == nil {
			b.Discount = d
		} else {
			cp = nil
		}
	}
	b.Total = b.Subtotal - b.Discount + b.Shipping + b.Tax
	return b, cp
}

// resolveCoupon looks up a code leniently: missing or unknown codes come back
// nil without error.
func resolveCoupon(coupons *repos.CouponRepo, code string) (*domain.Coupon, error) {
	if code == "" {
		return nil, nil
	}
	cp, err := coupons.ByCode(code)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cp, nil
}
