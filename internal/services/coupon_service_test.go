package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchline/internal/domain"
	"merchline/internal/services"
)

func testCoupon(typ string, value float64) *domain.Coupon {
	now := time.Now().UTC()
	return &domain.Coupon{
		ID:        "cp-test",
		Code:      "TEST",
		Type:      typ,
		Value:     value,
		StartsAt:  now.Add(-time.Hour).Format(time.RFC3339),
		ExpiresAt: now.Add(24 * time.Hour).Format(time.RFC3339),
		Active:    true,
	}
}

func TestEvaluatePercentage(t *testing.T) {
	cp := testCoupon(domain.CouponPercentage, 10)
	cp.Code = "SAVE10"

	d, err := services.Evaluate(cp, 1000)
	require.NoError(t, err)
	assert.Equal(t, 100.0, d)
}

func TestEvaluateFixed(t *testing.T) {
	cp := testCoupon(domain.CouponFixed, 500)
	cp.Code = "FLAT500"

	d, err := services.Evaluate(cp, 1000)
	require.NoError(t, err)
	assert.Equal(t, 500.0, d)
}

func TestEvaluateMinOrderAmount(t *testing.T) {
	cp := testCoupon(domain.CouponPercentage, 10)
	cp.MinOrderAmount = 2000

	_, err := services.Evaluate(cp, 1000)
	require.ErrorIs(t, err, services.ErrCouponNotApplicable)
}

func TestEvaluateMaxDiscountCap(t *testing.T) {
	cp := testCoupon(domain.CouponPercentage, 20)
	maxDiscount := 25.0
	cp.MaxDiscount = &maxDiscount

	d, err := services.Evaluate(cp, 1000)
	require.NoError(t, err)
	assert.Equal(t, 25.0, d)
}

func TestEvaluateNeverExceedsOrderAmount(t *testing.T) {
	cp := testCoupon(domain.CouponFixed, 500)

	d, err := services.Evaluate(cp, 59.98)
	require.NoError(t, err)
	assert.Equal(t, 59.98, d)

	// And never negative
	d, err = services.Evaluate(cp, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

func TestEvaluateRejectsUnusable(t *testing.T) {
	t.Run("inactive", func(t *testing.T) {
		cp := testCoupon(domain.CouponPercentage, 10)
		cp.Active = false
		_, err := services.Evaluate(cp, 1000)
		assert.ErrorIs(t, err, services.ErrCouponInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		cp := testCoupon(domain.CouponPercentage, 10)
		cp.ExpiresAt = time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
		_, err := services.Evaluate(cp, 1000)
		assert.ErrorIs(t, err, services.ErrCouponInvalid)
	})

	t.Run("not started", func(t *testing.T) {
		cp := testCoupon(domain.CouponPercentage, 10)
		cp.StartsAt = time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
		_, err := services.Evaluate(cp, 1000)
		assert.ErrorIs(t, err, services.ErrCouponInvalid)
	})

	t.Run("usage exhausted", func(t *testing.T) {
		cp := testCoupon(domain.CouponPercentage, 10)
		limit := 3
		cp.UsageLimit = &limit
		cp.UsageCount = 3
		_, err := services.Evaluate(cp, 1000)
		assert.ErrorIs(t, err, services.ErrCouponInvalid)
	})
}
