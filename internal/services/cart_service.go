package services

import (
	"database/sql"
	"fmt"

	"merchline/internal/repos"
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// Add upserts a (product,size,color) line for the user. The stock check
// covers the existing line quantity plus the increment; it is a soft check,
// the hard guarantee happens at checkout via the conditional decrement.
func (s *CartService) Add(userID, productID, size, color string, qty int) error {
	if qty < 1 {
		qty = 1
	}

	p, err := s.Prods.Get(productID)
	if err == sql.ErrNoRows || (err == nil && !p.Active) {
		return fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if !p.HasColor(color) {
		return fmt.Errorf("color %q: %w", color, ErrInvalidSelection)
	}

	stock, err := s.Prods.Stock(productID, size)
	if err == sql.ErrNoRows {
		return fmt.Errorf("size %q: %w", size, ErrInvalidSelection)
	}
	if err != nil {
		return err
	}

	existing := 0
	lines, err := s.Carts.Lines(userID)
	if err != nil {
		return err
	}
	for _, l := range lines {
		if l.ProductID == productID && l.Size == size && l.Color == color {
			existing = l.Qty
		}
	}
	if existing+qty > stock {
		return fmt.Errorf("size %s has %d left: %w", size, stock, ErrInsufficientStock)
	}

	return s.Carts.Upsert(userID, productID, size, color, qty)
}

func (s *CartService) Update(userID, itemID string, qty int) error {
	if qty < 1 {
		return fmt.Errorf("quantity must be at least 1: %w", ErrInvalidRequest)
	}
	line, err := s.Carts.Line(userID, itemID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if qty > line.Stock {
		return fmt.Errorf("size %s has %d left: %w", line.Size, line.Stock, ErrInsufficientStock)
	}
	return s.Carts.UpdateQty(userID, itemID, qty)
}

func (s *CartService) Remove(userID, itemID string) error {
	return s.Carts.Remove(userID, itemID)
}

func (s *CartService) Clear(userID string) error {
	return s.Carts.Clear(userID)
}

type CartView struct {
	Items    []repos.CartLine `json:"items"`
	Subtotal float64          `json:"subtotal"`
}

func (s *CartService) View(userID string) (CartView, error) {
	lines, err := s.Carts.Lines(userID)
	if err != nil {
		return CartView{}, err
	}
	subtotal := 0.0
	for i := range lines {
		lines[i].Image = firstImage(lines[i].ImagesJSON)
		subtotal += lines[i].LineTotal
	}
	return CartView{Items: lines, Subtotal: subtotal}, nil
}
