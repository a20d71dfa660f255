package services

import (
	"database/sql"
	"fmt"

	"merchline/internal/repos"
)

type FavoriteService struct {
	Favs  *repos.FavoriteRepo
	Prods *repos.ProductRepo
}

func NewFavoriteService(favs *repos.FavoriteRepo, prods *repos.ProductRepo) *FavoriteService {
	return &FavoriteService{Favs: favs, Prods: prods}
}

// Add favorites a product for the user. Unknown or inactive products are
// rejected so no dangling references ever reach the table.
func (s *FavoriteService) Add(userID, productID string) error {
	p, err := s.Prods.Get(productID)
	if err == sql.ErrNoRows || (err == nil && !p.Active) {
		return fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	if err != nil {
		return err
	}
	return s.Favs.Add(userID, productID)
}

func (s *FavoriteService) Remove(userID, productID string) error {
	return s.Favs.Remove(userID, productID)
}

func (s *FavoriteService) List(userID string) ([]repos.FavoriteRow, error) {
	return s.Favs.List(userID)
}
