package repos

import (
	"fmt"

	"merchline/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CouponRepo struct{ db *sqlx.DB }

func NewCouponRepo(db *sqlx.DB) *CouponRepo { return &CouponRepo{db: db} }

const couponCols = `
  id, code, type, value, min_order_amount, max_discount, starts_at, expires_at,
  usage_limit, usage_count, active, created_at`

func (r *CouponRepo) ByCode(code string) (*domain.Coupon, error) {
	var cp domain.Coupon
	err := r.db.Get(&cp, `SELECT `+couponCols+` FROM coupons WHERE LOWER(code)=LOWER(?)`, code)
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

func (r *CouponRepo) List() ([]domain.Coupon, error) {
	out := []domain.Coupon{}
	err := r.db.Select(&out, `SELECT `+couponCols+` FROM coupons ORDER BY created_at DESC`)
	return out, err
}

func (r *CouponRepo) Create(cp *domain.Coupon) error {
	_, err := r.db.Exec(`
		INSERT INTO coupons(id,code,type,value,min_order_amount,max_discount,starts_at,expires_at,usage_limit,usage_count,active)
		VALUES(?,?,?,?,?,?,?,?,?,0,1)`,
		cp.ID, cp.Code, cp.Type, cp.Value, cp.MinOrderAmount, cp.MaxDiscount,
		cp.StartsAt, cp.ExpiresAt, cp.UsageLimit)
	return err
}

func (r *CouponRepo) Deactivate(id string) error {
	_, err := r.db.Exec(`UPDATE coupons SET active = 0 WHERE id = ?`, id)
	return err
}

// IncrementUsage bumps the usage counter, refusing once the limit is reached.
// Check and write are one UPDATE so a limit-1 coupon cannot be redeemed twice
// by concurrent orders.
func (r *CouponRepo) IncrementUsage(id string) error {
	res, err := r.db.Exec(`
		UPDATE coupons SET usage_count = usage_count + 1
		WHERE id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)
	`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("coupon %s usage exhausted", id)
	}
	return nil
}
