package services

import (
	"database/sql"

	"merchline/internal/domain"
	"merchline/internal/repos"
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

func (s *CatalogService) ListCategories() ([]domain.Category, error) {
	return s.Cats.List()
}

func (s *CatalogService) ListProducts(f repos.Filter, page, pageSize int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 12
	}
	f.Limit = pageSize
	f.Offset = (page - 1) * pageSize
	return s.Prods.List(f)
}

// GetProduct returns an active product with its per-size stock.
func (s *CatalogService) GetProduct(id string) (domain.Product, []domain.SizeStock, error) {
	p, err := s.Prods.Get(id)
	if err == sql.ErrNoRows || (err == nil && !p.Active) {
		return domain.Product{}, nil, ErrNotFound
	}
	if err != nil {
		return domain.Product{}, nil, err
	}
	sizes, err := s.Prods.Sizes(id)
	if err != nil {
		return domain.Product{}, nil, err
	}
	return p, sizes, nil
}
