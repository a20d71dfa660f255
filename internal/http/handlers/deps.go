package handlers

import (
	"merchline/internal/payment"
	"merchline/internal/repos"
	"merchline/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthHandler     *AuthHandler
	CategoryHandler *CategoryHandler
	ProductHandler  *ProductHandler
	CartHandler     *CartHandler
	CouponHandler   *CouponHandler
	OrderHandler    *OrderHandler
	FavoriteHandler *FavoriteHandler
	AdminHandler    *AdminHandler

	Auth *services.AuthService
}

func NewDeps(db *sqlx.DB, provider payment.Provider) *Deps {
	userRepo := repos.NewUserRepo(db)
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	couponRepo := repos.NewCouponRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	favRepo := repos.NewFavoriteRepo(db)

	authSvc := &services.AuthService{Users: userRepo}
	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	couponSvc := services.NewCouponService(couponRepo)
	orderSvc := services.NewOrderService(cartRepo, prodRepo, orderRepo, couponSvc, provider)
	favSvc := services.NewFavoriteService(favRepo, prodRepo)

	return &Deps{
		AuthHandler:     &AuthHandler{Auth: authSvc},
		CategoryHandler: &CategoryHandler{Catalog: catalogSvc},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc},
		CartHandler:     &CartHandler{Cart: cartSvc},
		CouponHandler:   &CouponHandler{Coupons: couponSvc},
		OrderHandler:    &OrderHandler{Order: orderSvc},
		FavoriteHandler: &FavoriteHandler{Favs: favSvc},
		AdminHandler:    &AdminHandler{Orders: orderRepo, Prods: prodRepo, Coupons: couponRepo},
		Auth:            authSvc,
	}
}
