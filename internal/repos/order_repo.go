package repos

import (
	"database/sql"

	"merchline/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type OrderRow struct {
	ID              string  `db:"id" json:"id"`
	UserID          string  `db:"user_id" json:"userId"`
	PaymentIntentID string  `db:"payment_intent_id" json:"paymentIntentId"`
	PaymentStatus   string  `db:"payment_status" json:"paymentStatus"`
	PaymentMethod   string  `db:"payment_method" json:"paymentMethod"`
	CouponCode      string  `db:"coupon_code" json:"couponCode,omitempty"`
	Subtotal        float64 `db:"subtotal" json:"subtotal"`
	Discount        float64 `db:"discount" json:"discount"`
	Shipping        float64 `db:"shipping" json:"shipping"`
	Tax             float64 `db:"tax" json:"tax"`
	Total           float64 `db:"total" json:"total"`
	Status          string  `db:"status" json:"status"`
	ShipName        string  `db:"ship_name" json:"-"`
	ShipLine1       string  `db:"ship_line1" json:"-"`
	ShipLine2       string  `db:"ship_line2" json:"-"`
	ShipCity        string  `db:"ship_city" json:"-"`
	ShipState       string  `db:"ship_state" json:"-"`
	ShipPostalCode  string  `db:"ship_postal_code" json:"-"`
	ShipCountry     string  `db:"ship_country" json:"-"`
	CreatedAt       string  `db:"created_at" json:"createdAt"`
}

func (o *OrderRow) ShippingAddress() domain.Address {
	return domain.Address{
		Name: o.ShipName, Line1: o.ShipLine1, Line2: o.ShipLine2,
		City: o.ShipCity, State: o.ShipState, PostalCode: o.ShipPostalCode,
		Country: o.ShipCountry,
	}
}

// OrderItemRow is a frozen snapshot of a cart line at purchase time. It copies
// name/image/price so later product edits never alter historical orders.
type OrderItemRow struct {
	OrderID   string  `db:"order_id" json:"-"`
	ProductID string  `db:"product_id" json:"productId"`
	Name      string  `db:"name" json:"name"`
	Image     string  `db:"image" json:"image"`
	Price     float64 `db:"price" json:"price"`
	Qty       int     `db:"qty" json:"qty"`
	Size      string  `db:"size" json:"size"`
	Color     string  `db:"color" json:"color"`
}

const orderCols = `
  id, user_id, payment_intent_id, payment_status, payment_method,
  COALESCE(coupon_code,'') AS coupon_code, subtotal, discount, shipping, tax, total, status,
  COALESCE(ship_name,'') AS ship_name, COALESCE(ship_line1,'') AS ship_line1,
  COALESCE(ship_line2,'') AS ship_line2, COALESCE(ship_city,'') AS ship_city,
  COALESCE(ship_state,'') AS ship_state, COALESCE(ship_postal_code,'') AS ship_postal_code,
  COALESCE(ship_country,'') AS ship_country, created_at`

// ByPaymentIntent looks up an order by its payment reference. Returns
// (nil, nil) when no order references the intent.
func (r *OrderRepo) ByPaymentIntent(intentID string) (*OrderRow, error) {
	var o OrderRow
	err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE payment_intent_id = ?`, intentID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persists the order header and its item snapshot in one transaction:
// either the whole order exists or none of it does.
func (r *OrderRepo) Create(o *OrderRow, items []OrderItemRow) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO orders
	    (id, user_id, payment_intent_id, payment_status, payment_method, coupon_code,
	     subtotal, discount, shipping, tax, total, status,
	     ship_name, ship_line1, ship_line2, ship_city, ship_state, ship_postal_code, ship_country,
	     created_at)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, o.ID, o.UserID, o.PaymentIntentID, o.PaymentStatus, o.PaymentMethod, o.CouponCode,
		o.Subtotal, o.Discount, o.Shipping, o.Tax, o.Total, o.Status,
		o.ShipName, o.ShipLine1, o.ShipLine2, o.ShipCity, o.ShipState, o.ShipPostalCode, o.ShipCountry); err != nil {
		return err
	}

	for _, it := range items {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id, product_id, name, image, price, qty, size, color)
		  VALUES(?,?,?,?,?,?,?,?)
		`, o.ID, it.ProductID, it.Name, it.Image, it.Price, it.Qty, it.Size, it.Color); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *OrderRepo) Get(orderID string) (OrderRow, []OrderItemRow, error) {
	var o OrderRow
	if err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, orderID); err != nil {
		return OrderRow{}, nil, err
	}

	items := []OrderItemRow{}
	if err := r.db.Select(&items, `
		SELECT order_id, product_id, name, COALESCE(image,'') AS image, price, qty, size, color
		FROM order_items
		WHERE order_id = ?
		ORDER BY name
	`, orderID); err != nil {
		return OrderRow{}, nil, err
	}

	return o, items, nil
}

func (r *OrderRepo) ListByUser(userID string) ([]OrderRow, error) {
	out := []OrderRow{}
	err := r.db.Select(&out, `
		SELECT `+orderCols+` FROM orders
		WHERE user_id = ?
		ORDER BY datetime(created_at) DESC
	`, userID)
	return out, err
}

func (r *OrderRepo) ListLatest(limit int) ([]OrderRow, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []OrderRow{}
	err := r.db.Select(&out, `
		SELECT `+orderCols+` FROM orders
		ORDER BY datetime(created_at) DESC
		LIMIT ?
	`, limit)
	return out, err
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	return err
}
