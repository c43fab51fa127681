package handlers

import (
	"shopfront/internal/services"
	"shopfront/internal/store"
)

type Deps struct {
	Auth *services.AuthService

	AuthHandler     *AuthHandler
	ProductHandler  *ProductHandler
	SearchHandler   *SearchHandler
	CartHandler     *CartHandler
	WishlistHandler *WishlistHandler
	OrderHandler    *OrderHandler
	AdminHandler    *AdminHandler
}

func NewDeps(st *store.Store, auth *services.AuthService) *Deps {
	catalogSvc := services.NewCatalogService(st.Products)
	cartSvc := services.NewCartService(st.Carts, st.Products)
	wishSvc := services.NewWishlistService(st.Wishlists, st.Products)
	orderSvc := services.NewOrderService(st.Carts, st.Orders, st.Products)

	return &Deps{
		Auth:            auth,
		AuthHandler:     &AuthHandler{Auth: auth},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc},
		SearchHandler:   &SearchHandler{Catalog: catalogSvc},
		CartHandler:     &CartHandler{Cart: cartSvc},
		WishlistHandler: &WishlistHandler{Wish: wishSvc},
		OrderHandler:    &OrderHandler{Order: orderSvc},
		AdminHandler:    &AdminHandler{Auth: auth, Catalog: catalogSvc, Orders: orderSvc},
	}
}
