package handler

import (
	"lokapasar-be/internal/middleware"
	"lokapasar-be/internal/user"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth    *AuthHandler
	Cart    *CartHandler
	Product *ProductHandler
	Store   *StoreHandler
	Address *AddressHandler
	Order   *OrderHandler
	Payment *PaymentHandler
	Admin   *AdminHandler
	Tourism *TourismHandler
}

func NewRouter(h Handlers, jwtSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Authenticate(jwtSecret))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimit(true))
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/logout", h.Auth.Logout)
	}

	// The notification route must stay reachable without a session.
	api.POST("/payments/notification", middleware.RateLimit(false), h.Payment.Notification)

	public := api.Group("")
	public.Use(middleware.RateLimit(false))
	{
		public.GET("/products", h.Product.List)
		public.GET("/products/:id", h.Product.Get)
		public.GET("/stores", h.Store.List)
		public.GET("/stores/:slug", h.Store.GetBySlug)
	}

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(), middleware.RateLimit(false))
	{
		authed.GET("/cart", h.Cart.Get)
		authed.POST("/cart", h.Cart.Add)
		authed.DELETE("/cart", h.Cart.Clear)
		authed.PUT("/cart/items/:productId", h.Cart.UpdateItem)
		authed.DELETE("/cart/items/:productId", h.Cart.RemoveItem)

		authed.GET("/orders", h.Order.ListOwn)
		authed.POST("/orders", h.Order.Create)
		authed.GET("/orders/:id", h.Order.Get)
		authed.PUT("/orders/:id", h.Order.UpdateStatus)

		authed.GET("/addresses", h.Address.List)
		authed.POST("/addresses", h.Address.Create)
		authed.PUT("/addresses/:id", h.Address.Update)
		authed.DELETE("/addresses/:id", h.Address.Delete)
		authed.PUT("/addresses/:id/default", h.Address.SetDefault)

		authed.GET("/payments", h.Payment.List)
	}

	payments := api.Group("/payments")
	payments.Use(middleware.RequireAuth(), middleware.RateLimit(true))
	{
		payments.POST("", h.Payment.Initiate)
	}

	seller := api.Group("/seller")
	seller.Use(middleware.RequireAuth(), middleware.RateLimit(false))
	{
		seller.GET("/store", h.Store.GetOwn)
		seller.POST("/store", h.Store.Create)
		seller.PUT("/store", h.Store.Update)

		seller.GET("/products", h.Product.ListOwn)
		seller.POST("/products", h.Product.Create)
		seller.PUT("/products/:id", h.Product.Update)

		seller.GET("/orders", h.Order.ListForStore)
	}

	tourism := api.Group("/tourism-manager")
	tourism.Use(middleware.RequireAuth(), middleware.RequireRole(user.RoleTourismManager), middleware.RateLimit(false))
	{
		tourism.GET("/tickets", h.Tourism.ListTickets)
		tourism.GET("/orders", h.Order.ListForStore)
		tourism.GET("/orders/:id", h.Tourism.GetOrder)
		tourism.PUT("/orders/:id", h.Tourism.UpdateOrderStatus)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAuth(), middleware.RequireRole(user.RoleAdmin), middleware.RateLimit(false))
	{
		admin.GET("/users", h.Admin.ListUsers)
		admin.PUT("/users/:id/role", h.Admin.UpdateUserRole)
		admin.GET("/settings", h.Admin.ListSettings)
		admin.PUT("/settings", h.Admin.UpdateSetting)
	}

	return r
}
