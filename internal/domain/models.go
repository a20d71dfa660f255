package domain

import (
	"encoding/json"
	"time"
)

type Category struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt,omitempty"`
}

type Product struct {
	ID          string   `db:"id" json:"id"`
	CategoryID  string   `db:"category_id" json:"categoryId"`
	Name        string   `db:"name" json:"name"`
	Description string   `db:"description" json:"description"`
	Price       float64  `db:"price" json:"price"`
	SalePrice   *float64 `db:"sale_price" json:"salePrice,omitempty"`
	ColorsJSON  string   `db:"colors_json" json:"-"`
	ImagesJSON  string   `db:"images_json" json:"-"`
	RatingAvg   float64  `db:"rating_avg" json:"ratingAvg"`
	RatingCount int      `db:"rating_count" json:"ratingCount"`
	Active      bool     `db:"active" json:"active"`
	CreatedAt   string   `db:"created_at" json:"createdAt"`
	UpdatedAt   string   `db:"updated_at" json:"updatedAt,omitempty"`
}

// EffectivePrice is the sale price when set and lower than the list price.
func (p *Product) EffectivePrice() float64 {
	if p.SalePrice != nil && *p.SalePrice < p.Price {
		return *p.SalePrice
	}
	return p.Price
}

func (p *Product) Colors() []string { return decodeList(p.ColorsJSON) }
func (p *Product) Images() []string { return decodeList(p.ImagesJSON) }

func (p *Product) HasColor(color string) bool {
	for _, c := range p.Colors() {
		if c == color {
			return true
		}
	}
	return false
}

func decodeList(raw string) []string {
	var out []string
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &out)
	}
	return out
}

// SizeStock is one per-size stock record of a product.
type SizeStock struct {
	ProductID string `db:"product_id" json:"-"`
	Size      string `db:"size" json:"size"`
	Stock     int    `db:"stock" json:"stock"`
}

const (
	CouponPercentage = "PERCENTAGE"
	CouponFixed      = "FIXED"
)

type Coupon struct {
	ID             string   `db:"id" json:"id"`
	Code           string   `db:"code" json:"code"`
	Type           string   `db:"type" json:"type"`
	Value          float64  `db:"value" json:"value"`
	MinOrderAmount float64  `db:"min_order_amount" json:"minOrderAmount"`
	MaxDiscount    *float64 `db:"max_discount" json:"maxDiscount,omitempty"`
	StartsAt       string   `db:"starts_at" json:"startsAt"`
	ExpiresAt      string   `db:"expires_at" json:"expiresAt"`
	UsageLimit     *int     `db:"usage_limit" json:"usageLimit,omitempty"`
	UsageCount     int      `db:"usage_count" json:"usageCount"`
	Active         bool     `db:"active" json:"active"`
	CreatedAt      string   `db:"created_at" json:"createdAt"`
}

// Usable reports whether the coupon can still be redeemed at the given time:
// active, inside its validity window, usage not exhausted.
func (cp *Coupon) Usable(now time.Time) bool {
	if !cp.Active {
		return false
	}
	if t, err := time.Parse(time.RFC3339, cp.StartsAt); err == nil && now.Before(t) {
		return false
	}
	if t, err := time.Parse(time.RFC3339, cp.ExpiresAt); err == nil && now.After(t) {
		return false
	}
	if cp.UsageLimit != nil && cp.UsageCount >= *cp.UsageLimit {
		return false
	}
	return true
}

// Address is the shipping destination frozen onto an order.
type Address struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

const (
	OrderPending    = "PENDING"
	OrderProcessing = "PROCESSING"
	OrderShipped    = "SHIPPED"
	OrderDelivered  = "DELIVERED"
	OrderCancelled  = "CANCELLED"
)

// ValidOrderStatus gates admin status updates to the known lifecycle states.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}
