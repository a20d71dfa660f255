package services

import (
	"errors"
	"fmt"
	"strings"

	"merchline/internal/domain"
	applog "merchline/internal/log"
	"merchline/internal/payment"
	"merchline/internal/repos"

	"github.com/google/uuid"
)

type OrderService struct {
	Carts    *repos.CartRepo
	Prods    *repos.ProductRepo
	Orders   *repos.OrderRepo
	Coupons  *CouponService
	Provider payment.Provider
}

func NewOrderService(carts *repos.CartRepo, prods *repos.ProductRepo, orders *repos.OrderRepo,
	coupons *CouponService, provider payment.Provider) *OrderService {
	return &OrderService{Carts: carts, Prods: prods, Orders: orders, Coupons: coupons, Provider: provider}
}

// IntentResponse is what the checkout page needs to confirm a payment.
type IntentResponse struct {
	IntentID     string         `json:"paymentIntentId"`
	ClientSecret string         `json:"clientSecret"`
	Breakdown    PriceBreakdown `json:"pricing"`
	TestMode     bool           `json:"isTestMode,omitempty"`
}

// CreatePaymentIntent prices the live cart and requests a payment handle.
// Coupon evaluation is lenient here: an unusable code prices as zero
// discount instead of failing the request.
func (s *OrderService) CreatePaymentIntent(userID, couponCode string) (IntentResponse, error) {
	lines, err := s.Carts.Lines(userID)
	if err != nil {
		return IntentResponse{}, err
	}
	if len(lines) == 0 {
		return IntentResponse{}, ErrEmptyCart
	}

	cp, err := resolveCoupon(s.Coupons.Coupons, couponCode)
	if err != nil {
		return IntentResponse{}, err
	}
	breakdown, cp := Quote(lines, cp)

	meta := map[string]string{"user_id": userID}
	if cp != nil {
		meta["coupon_code"] = cp.Code
	}
	in, err := s.Provider.CreateIntent(breakdown.AmountMinor(), meta)
	if err != nil {
		return IntentResponse{}, err
	}

	return IntentResponse{
		IntentID:     in.ID,
		ClientSecret: in.ClientSecret,
		Breakdown:    breakdown,
		TestMode:     in.TestMode,
	}, nil
}

// CreateOrder finalizes a checkout:
//
//	verify payment -> re-read cart -> decrement stock -> apply coupon ->
//	persist order -> clear cart
//
// Calling it again with the same payment intent id returns the already
// persisted order: one intent, one order, one stock decrement. Stock
// decremented before a later step fails is not compensated; the unique
// intent index keeps retries from decrementing again.
func (s *OrderService) CreateOrder(userID, intentID string, addr domain.Address) (*repos.OrderRow, []repos.OrderItemRow, error) {
	if strings.TrimSpace(intentID) == "" {
		return nil, nil, fmt.Errorf("missing payment intent id: %w", ErrInvalidRequest)
	}

	// Idempotency guard: a retried confirmation must never double-charge stock.
	// An intent already bound to another user's order is invisible to the
	// caller, same as Get.
	if existing, err := s.Orders.ByPaymentIntent(intentID); err != nil {
		return nil, nil, err
	} else if existing != nil {
		if existing.UserID != userID {
			return nil, nil, fmt.Errorf("intent %s: %w", intentID, ErrNotFound)
		}
		_, items, err := s.Orders.Get(existing.ID)
		return existing, items, err
	}

	status, method, couponCode, err := s.verifyPayment(intentID)
	if err != nil {
		return nil, nil, err
	}

	lines, err := s.Carts.Lines(userID)
	if err != nil {
		return nil, nil, err
	}
	if len(lines) == 0 {
		return nil, nil, ErrEmptyCart
	}

	// Decrement per line, atomically per size. Earlier decrements stay
	// applied if a later line fails.
	items := make([]repos.OrderItemRow, 0, len(lines))
	for _, l := range lines {
		if err := s.Prods.DecrementStock(l.ProductID, l.Size, l.Qty); err != nil {
			if errors.Is(err, repos.ErrOutOfStock) {
				return nil, nil, fmt.Errorf("%s size %s: %w", l.ProductID, l.Size, ErrInsufficientStock)
			}
			return nil, nil, err
		}
		items = append(items, repos.OrderItemRow{
			ProductID: l.ProductID,
			Name:      l.Name,
			Image:     firstImage(l.ImagesJSON),
			Price:     l.Price,
			Qty:       l.Qty,
			Size:      l.Size,
			Color:     l.Color,
		})
	}

	cp, err := resolveCoupon(s.Coupons.Coupons, couponCode)
	if err != nil {
		return nil, nil, err
	}
	breakdown, cp := Quote(lines, cp)
	appliedCode := ""
	if cp != nil {
		if err := s.Coupons.Redeem(cp); err == nil {
			appliedCode = cp.Code
		} else {
			// Usage got exhausted between pricing and redemption; keep the
			// order but drop the discount bookkeeping consistent.
			breakdown.Discount = 0
			breakdown.Total = breakdown.Subtotal + breakdown.Shipping + breakdown.Tax
		}
	}

	order := &repos.OrderRow{
		ID:              uuid.NewString(),
		UserID:          userID,
		PaymentIntentID: intentID,
		PaymentStatus:   status,
		PaymentMethod:   method,
		CouponCode:      appliedCode,
		Subtotal:        breakdown.Subtotal,
		Discount:        breakdown.Discount,
		Shipping:        breakdown.Shipping,
		Tax:             breakdown.Tax,
		Total:           breakdown.Total,
		Status:          domain.OrderProcessing,
		ShipName:        addr.Name,
		ShipLine1:       addr.Line1,
		ShipLine2:       addr.Line2,
		ShipCity:        addr.City,
		ShipState:       addr.State,
		ShipPostalCode:  addr.PostalCode,
		ShipCountry:     addr.Country,
	}
	if err := s.Orders.Create(order, items); err != nil {
		// A concurrent confirmation may have won the unique-intent race;
		// surface that order instead of a duplicate failure, but only to its
		// owner.
		if existing, lookupErr := s.Orders.ByPaymentIntent(intentID); lookupErr == nil && existing != nil {
			if existing.UserID != userID {
				return nil, nil, fmt.Errorf("intent %s: %w", intentID, ErrNotFound)
			}
			_, its, getErr := s.Orders.Get(existing.ID)
			return existing, its, getErr
		}
		return nil, nil, err
	}

	// The order is already persisted; a failed clear leaves a stale cart, so
	// make it diagnosable.
	if err := s.Carts.Clear(userID); err != nil {
		applog.Error(nil, "cart.clear.fail", err, map[string]any{"order_id": order.ID, "user_id": userID})
	}
	return order, items, nil
}

func firstImage(imagesJSON string) string {
	p := domain.Product{ImagesJSON: imagesJSON}
	if imgs := p.Images(); len(imgs) > 0 {
		return imgs[0]
	}
	return ""
}

// verifyPayment resolves an intent id to (status, method, coupon code).
// Mock and cash-on-delivery references are trusted locally; everything else
// must come back succeeded from the processor.
func (s *OrderService) verifyPayment(intentID string) (status, method, couponCode string, err error) {
	if strings.HasPrefix(intentID, payment.MockPrefix) {
		in, err := s.Provider.GetIntent(intentID)
		if err == nil {
			couponCode = in.Metadata["coupon_code"]
		}
		return payment.StatusSucceeded, "mock", couponCode, nil
	}
	if strings.HasPrefix(intentID, payment.CODPrefix) {
		return payment.StatusSucceeded, "cod", "", nil
	}

	in, err := s.Provider.GetIntent(intentID)
	if err != nil {
		return "", "", "", fmt.Errorf("intent %s: %w", intentID, ErrPaymentNotCompleted)
	}
	if in.Status != payment.StatusSucceeded {
		return "", "", "", fmt.Errorf("intent %s is %s: %w", intentID, in.Status, ErrPaymentNotCompleted)
	}
	return in.Status, "card", in.Metadata["coupon_code"], nil
}

func (s *OrderService) Get(userID, orderID string) (repos.OrderRow, []repos.OrderItemRow, error) {
	o, items, err := s.Orders.Get(orderID)
	if err != nil || o.UserID != userID {
		return repos.OrderRow{}, nil, ErrNotFound
	}
	return o, items, nil
}

func (s *OrderService) ListForUser(userID string) ([]repos.OrderRow, error) {
	return s.Orders.ListByUser(userID)
}
