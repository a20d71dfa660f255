package repos

import (
	"errors"
	"fmt"
	"strings"

	"merchline/internal/domain"

	"github.com/jmoiron/sqlx"
)

// ErrOutOfStock reports a conditional decrement that found too little stock,
// as opposed to a database failure.
var ErrOutOfStock = errors.New("out of stock")

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, category_id, name, description, price, sale_price, colors_json, images_json,
  rating_avg, rating_count, active, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

// Filter narrows a catalog listing. Zero values mean "not set".
type Filter struct {
	CategoryID string
	Query      string
	Size       string
	Color      string
	MinPrice   float64
	MaxPrice   float64
	Sort       string // price_asc | price_desc | rating | newest
	Limit      int
	Offset     int
}

func (r *ProductRepo) List(f Filter) ([]domain.Product, error) {
	where := `p.active = 1`
	args := []any{}
	if f.CategoryID != "" {
		where += ` AND p.category_id = ?`
		args = append(args, f.CategoryID)
	}
	if f.Query != "" {
		where += ` AND (LOWER(p.name) LIKE ? OR LOWER(p.description) LIKE ?)`
		q := "%" + strings.ToLower(f.Query) + "%"
		args = append(args, q, q)
	}
	if f.Size != "" {
		where += ` AND EXISTS (SELECT 1 FROM product_sizes ps WHERE ps.product_id = p.id AND ps.size = ? AND ps.stock > 0)`
		args = append(args, f.Size)
	}
	if f.Color != "" {
		where += ` AND p.colors_json LIKE ?`
		args = append(args, `%"`+f.Color+`"%`)
	}
	// SQL twin of domain.Product.EffectivePrice
	eff := `CASE WHEN p.sale_price IS NOT NULL AND p.sale_price < p.price THEN p.sale_price ELSE p.price END`
	if f.MinPrice > 0 {
		where += ` AND ` + eff + ` >= ?`
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		where += ` AND ` + eff + ` <= ?`
		args = append(args, f.MaxPrice)
	}

	order := `p.created_at DESC`
	switch f.Sort {
	case "price_asc":
		order = eff + ` ASC`
	case "price_desc":
		order = eff + ` DESC`
	case "rating":
		order = `p.rating_avg DESC, p.rating_count DESC`
	}

	query := fmt.Sprintf(`
  SELECT p.id, p.category_id, p.name, p.description, p.price, p.sale_price,
         p.colors_json, p.images_json, p.rating_avg, p.rating_count, p.active,
         p.created_at, COALESCE(p.updated_at,'') AS updated_at
  FROM products p
  WHERE %s
  ORDER BY %s
  LIMIT ? OFFSET ?`, where, order)
	args = append(args, f.Limit, f.Offset)

	var out []domain.Product
	err := r.db.Select(&out, query, args...)
	return out, err
}

func (r *ProductRepo) Sizes(productID string) ([]domain.SizeStock, error) {
	var out []domain.SizeStock
	err := r.db.Select(&out, `
	  SELECT product_id, size, stock FROM product_sizes
	  WHERE product_id = ? ORDER BY size`, productID)
	return out, err
}

// Stock returns current stock for a product size. sql.ErrNoRows when the size
// is not offered at all.
func (r *ProductRepo) Stock(productID, size string) (int, error) {
	var stock int
	err := r.db.Get(&stock, `
		SELECT stock FROM product_sizes
		WHERE product_id = ? AND size = ?`, productID, size)
	if err != nil {
		return 0, err
	}
	return stock, nil
}

// DecrementStock atomically subtracts "by" units if enough stock exists.
// The check and the write are a single UPDATE so concurrent checkouts can
// never drive stock below zero.
func (r *ProductRepo) DecrementStock(productID, size string, by int) error {
	res, err := r.db.Exec(`
		UPDATE product_sizes
		SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
		WHERE product_id = ? AND size = ? AND stock >= ?
	`, by, productID, size, by)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%s size %s: %w", productID, size, ErrOutOfStock)
	}
	return nil
}

// UpsertStock sets stock for (productID, size) creating the row if needed.
func (r *ProductRepo) UpsertStock(productID, size string, stock int) error {
	_, err := r.db.Exec(`
		INSERT INTO product_sizes(product_id, size, stock, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(product_id, size) DO UPDATE SET stock = excluded.stock, updated_at = CURRENT_TIMESTAMP
	`, productID, size, stock)
	return err
}
