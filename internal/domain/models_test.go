package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"merchline/internal/domain"
)

func TestEffectivePrice(t *testing.T) {
	sale := 24.99
	higher := 99.0

	p := domain.Product{Price: 34.99}
	assert.Equal(t, 34.99, p.EffectivePrice(), "no sale price")

	p.SalePrice = &sale
	assert.Equal(t, 24.99, p.EffectivePrice(), "lower sale price wins")

	p.SalePrice = &higher
	assert.Equal(t, 34.99, p.EffectivePrice(), "higher sale price is ignored")
}

func TestProductColorDecoding(t *testing.T) {
	p := domain.Product{ColorsJSON: `["Black","White"]`}
	assert.True(t, p.HasColor("Black"))
	assert.False(t, p.HasColor("Red"))
	assert.Empty(t, (&domain.Product{}).Colors())
}

func TestCouponUsable(t *testing.T) {
	now := time.Now().UTC()
	cp := domain.Coupon{
		Active:    true,
		StartsAt:  now.Add(-time.Hour).Format(time.RFC3339),
		ExpiresAt: now.Add(time.Hour).Format(time.RFC3339),
	}
	assert.True(t, cp.Usable(now))

	limit := 2
	cp.UsageLimit = &limit
	cp.UsageCount = 2
	assert.False(t, cp.Usable(now), "usage exhausted")

	cp.UsageCount = 1
	assert.True(t, cp.Usable(now))

	cp.Active = false
	assert.False(t, cp.Usable(now))
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{"PENDING", "PROCESSING", "SHIPPED", "DELIVERED", "CANCELLED"} {
		assert.True(t, domain.ValidOrderStatus(s), s)
	}
	assert.False(t, domain.ValidOrderStatus("REFUNDED"))
	assert.False(t, domain.ValidOrderStatus("processing"))
}
