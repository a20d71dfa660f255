package handlers

import "merchline/internal/domain"

// productView flattens a product for JSON: decoded color/image lists plus the
// computed effective price.
type productView struct {
	domain.Product
	Colors         []string `json:"colors"`
	Images         []string `json:"images"`
	EffectivePrice float64  `json:"effectivePrice"`
}

func newProductView(p domain.Product) productView {
	return productView{
		Product:        p,
		Colors:         p.Colors(),
		Images:         p.Images(),
		EffectivePrice: p.EffectivePrice(),
	}
}

func productViews(ps []domain.Product) []productView {
	out := make([]productView, 0, len(ps))
	for _, p := range ps {
		out = append(out, newProductView(p))
	}
	return out
}
