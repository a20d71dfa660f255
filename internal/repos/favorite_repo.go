package repos

import "github.com/jmoiron/sqlx"

type FavoriteRepo struct{ db *sqlx.DB }

func NewFavoriteRepo(db *sqlx.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

func (r *FavoriteRepo) Add(userID, productID string) error {
	_, err := r.db.Exec(`
	  INSERT INTO favorites(user_id, product_id, created_at)
	  VALUES(?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(user_id, product_id) DO NOTHING
	`, userID, productID)
	return err
}

func (r *FavoriteRepo) Remove(userID, productID string) error {
	_, err := r.db.Exec(`DELETE FROM favorites WHERE user_id=? AND product_id=?`, userID, productID)
	return err
}

type FavoriteRow struct {
	ProductID string   `db:"product_id" json:"productId"`
	Name      string   `db:"name" json:"name"`
	Price     float64  `db:"price" json:"price"`
	SalePrice *float64 `db:"sale_price" json:"salePrice,omitempty"`
	Active    bool     `db:"active" json:"active"`
}

// List joins favorites to live products; dead references drop out silently.
func (r *FavoriteRepo) List(userID string) ([]FavoriteRow, error) {
	out := []FavoriteRow{}
	err := r.db.Select(&out, `
	  SELECT p.id AS product_id, p.name, p.price, p.sale_price, p.active
	  FROM favorites f
	  JOIN products p ON p.id = f.product_id
	  WHERE f.user_id = ?
	  ORDER BY p.name
	`, userID)
	return out, err
}
