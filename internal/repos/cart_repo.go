package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// CartLine is a cart row joined to its live product. Lines whose product was
// deleted or deactivated never surface: the inner join drops them.
type CartLine struct {
	ID         string  `db:"id" json:"id"`
	ProductID  string  `db:"product_id" json:"productId"`
	Name       string  `db:"name" json:"name"`
	Image      string  `db:"image" json:"image"`
	Size       string  `db:"size" json:"size"`
	Color      string  `db:"color" json:"color"`
	Qty        int     `db:"qty" json:"qty"`
	Price      float64 `db:"price" json:"price"` // effective price at read time
	LineTotal  float64 `db:"line_total" json:"lineTotal"`
	Stock      int     `db:"stock" json:"stock"`
	ImagesJSON string  `db:"images_json" json:"-"`
}

// Upsert adds qty to an existing (user,product,size,color) line or inserts a
// new one.
func (r *CartRepo) Upsert(userID, productID, size, color string, qty int) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(id,user_id,product_id,size,color,qty,created_at)
		VALUES(?,?,?,?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(user_id,product_id,size,color) DO UPDATE
		SET qty = cart_items.qty + excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, uuid.NewString(), userID, productID, size, color, qty)
	return err
}

// Line returns one cart line only when it belongs to the given user.
func (r *CartRepo) Line(userID, itemID string) (CartLine, error) {
	var l CartLine
	err := r.db.Get(&l, `
	  SELECT ci.id, ci.product_id, p.name, ci.size, ci.color, ci.qty,
	         CASE WHEN p.sale_price IS NOT NULL AND p.sale_price < p.price THEN p.sale_price ELSE p.price END AS price,
	         0 AS line_total,
	         COALESCE(ps.stock, 0) AS stock,
	         COALESCE(p.images_json,'') AS images_json
	  FROM cart_items ci
	  JOIN products p ON p.id = ci.product_id
	  LEFT JOIN product_sizes ps ON ps.product_id = ci.product_id AND ps.size = ci.size
	  WHERE ci.id = ? AND ci.user_id = ?
	`, itemID, userID)
	return l, err
}

func (r *CartRepo) Lines(userID string) ([]CartLine, error) {
	lines := []CartLine{}
	err := r.db.Select(&lines, `
	  SELECT ci.id, ci.product_id, p.name, ci.size, ci.color, ci.qty,
	         CASE WHEN p.sale_price IS NOT NULL AND p.sale_price < p.price THEN p.sale_price ELSE p.price END AS price,
	         ci.qty * (CASE WHEN p.sale_price IS NOT NULL AND p.sale_price < p.price THEN p.sale_price ELSE p.price END) AS line_total,
	         COALESCE(ps.stock, 0) AS stock,
	         COALESCE(p.images_json,'') AS images_json
	  FROM cart_items ci
	  JOIN products p ON p.id = ci.product_id AND p.active = 1
	  LEFT JOIN product_sizes ps ON ps.product_id = ci.product_id AND ps.size = ci.size
	  WHERE ci.user_id = ?
	  ORDER BY ci.created_at
	`, userID)
	return lines, err
}

func (r *CartRepo) UpdateQty(userID, itemID string, qty int) error {
	_, err := r.db.Exec(`
		UPDATE cart_items SET qty = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?`, qty, itemID, userID)
	return err
}

func (r *CartRepo) Remove(userID, itemID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE id = ? AND user_id = ?`, itemID, userID)
	return err
}

func (r *CartRepo) Clear(userID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE user_id = ?`, userID)
	return err
}
