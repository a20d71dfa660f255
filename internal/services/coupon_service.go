package services

import (
	"database/sql"
	"fmt"
	"time"

	"merchline/internal/domain"
	"merchline/internal/repos"
)

type CouponService struct {
	Coupons *repos.CouponRepo
}

func NewCouponService(coupons *repos.CouponRepo) *CouponService {
	return &CouponService{Coupons: coupons}
}

// Evaluate computes the discount a coupon yields on orderAmount without
// touching the usage counter. Always 0 <= discount <= orderAmount.
func Evaluate(cp *domain.Coupon, orderAmount float64) (float64, error) {
	if !cp.Usable(time.Now()) {
		return 0, fmt.Errorf("coupon %s: %w", cp.Code, ErrCouponInvalid)
	}
	if orderAmount < cp.MinOrderAmount {
		return 0, fmt.Errorf("minimum order amount is %.2f: %w", cp.MinOrderAmount, ErrCouponNotApplicable)
	}

	var discount float64
	switch cp.Type {
	case domain.CouponPercentage:
		discount = orderAmount * cp.Value / 100
		if cp.MaxDiscount != nil && discount > *cp.MaxDiscount {
			discount = *cp.MaxDiscount
		}
	case domain.CouponFixed:
		discount = cp.Value
	default:
		return 0, fmt.Errorf("coupon type %q: %w", cp.Type, ErrCouponInvalid)
	}

	if discount < 0 {
		discount = 0
	}
	if discount > orderAmount {
		discount = orderAmount
	}
	return discount, nil
}

// Preview is the strict path behind POST /coupons/validate: unknown codes and
// inapplicable coupons surface as errors.
func (s *CouponService) Preview(code string, orderAmount float64) (*domain.Coupon, float64, error) {
	cp, err := s.Coupons.ByCode(code)
	if err == sql.ErrNoRows {
		return nil, 0, fmt.Errorf("coupon %s: %w", code, ErrNotFound)
	}
	if err != nil {
		return nil, 0, err
	}
	discount, err := Evaluate(cp, orderAmount)
	if err != nil {
		return nil, 0, err
	}
	return cp, discount, nil
}

// Redeem bumps the usage counter exactly once for a successful order.
func (s *CouponService) Redeem(cp *domain.Coupon) error {
	return s.Coupons.IncrementUsage(cp.ID)
}
