package router

import (
	"github.com/gin-gonic/gin"
	"github.com/mbvogue/storefront/internal/interfaces/http/handler"
	"github.com/mbvogue/storefront/internal/interfaces/http/middleware"
)

// Handlers holds every HTTP handler of the storefront
type Handlers struct {
	Catalog      *handler.CatalogHandler
	Cart         *handler.CartHandler
	Auth         *handler.AuthHandler
	Checkout     *handler.CheckoutHandler
	Payment      *handler.PaymentHandler
	Order        *handler.OrderHandler
	Wishlist     *handler.WishlistHandler
	AdminCatalog *handler.AdminCatalogHandler
	Admin        *handler.AdminHandler
}

// Guards are the authentication middlewares applied per group
type Guards struct {
	// Auth rejects anonymous callers
	Auth gin.HandlerFunc
	// OptionalAuth identifies callers when they present a token
	OptionalAuth gin.HandlerFunc
	// AuthRateLimit throttles credential endpoints; may be nil
	AuthRateLimit gin.HandlerFunc
}

// Storefront returns the route groups of the /api/v1 surface
func Storefront(h Handlers, g Guards) []RouteRegistrar {
	catalog := NewDomainGroup("/catalog").
		GET("/home", h.Catalog.Home).
		GET("/products", h.Catalog.ListProducts).
		GET("/products/:slug", h.Catalog.GetProduct).
		GET("/categories", h.Catalog.ListCategories).
		GET("/categories/:slug", h.Catalog.GetCategory)

	cart := NewDomainGroup("/cart").Use(g.OptionalAuth).
		GET("", h.Cart.Get).
		GET("/summary", h.Cart.Summary).
		DELETE("", h.Cart.Clear).
		POST("/items", h.Cart.AddItem).
		PUT("/items/:variant_id", h.Cart.UpdateItem).
		DELETE("/items/:variant_id", h.Cart.RemoveItem)

	credentials := []gin.HandlerFunc{}
	if g.AuthRateLimit != nil {
		credentials = append(credentials, g.AuthRateLimit)
	}
	auth := NewDomainGroup("/auth").
		POST("/register", append(credentials, h.Auth.Register)...).
		POST("/login", append(credentials, h.Auth.Login)...).
		POST("/logout", g.Auth, h.Auth.Logout).
		GET("/me", g.Auth, h.Auth.Me).
		PUT("/me", g.Auth, h.Auth.UpdateMe)

	checkout := NewDomainGroup("/checkout").Use(g.Auth).
		POST("", h.Checkout.Begin).
		GET("/:token", h.Checkout.Get)

	// callback and webhook are called by the gateway and carry no user token
	payments := NewDomainGroup("/payments").
		GET("/callback", h.Payment.Callback).
		POST("/webhook", h.Payment.Webhook).
		POST("/initialize", g.Auth, h.Payment.Initialize).
		POST("/:reference/verify", g.Auth, h.Payment.Verify)

	orders := NewDomainGroup("/orders").Use(g.Auth).
		GET("", h.Order.List).
		GET("/:order_number", h.Order.Get).
		GET("/:order_number/receipt", h.Order.Receipt)

	wishlist := NewDomainGroup("/wishlist").Use(g.Auth).
		GET("", h.Wishlist.List).
		POST("/:product_id", h.Wishlist.Add).
		DELETE("/:product_id", h.Wishlist.Remove).
		POST("/:product_id/toggle", h.Wishlist.Toggle)

	admin := NewDomainGroup("/admin").Use(g.Auth, middleware.RequireStaff()).
		GET("/dashboard", h.Admin.Dashboard).
		GET("/categories", h.AdminCatalog.ListCategories).
		POST("/categories", h.AdminCatalog.CreateCategory).
		PUT("/categories/:id", h.AdminCatalog.UpdateCategory).
		DELETE("/categories/:id", h.AdminCatalog.DeleteCategory).
		GET("/products", h.AdminCatalog.ListProducts).
		POST("/products", h.AdminCatalog.CreateProduct).
		GET("/products/:id", h.AdminCatalog.GetProduct).
		PUT("/products/:id", h.AdminCatalog.UpdateProduct).
		PATCH("/products/:id", h.AdminCatalog.ToggleProduct).
		DELETE("/products/:id", h.AdminCatalog.DeleteProduct).
		POST("/products/:id/variants", h.AdminCatalog.CreateVariant).
		POST("/products/:id/images/upload-url", h.AdminCatalog.RequestImageUpload).
		POST("/products/:id/images", h.AdminCatalog.RegisterImage).
		PUT("/variants/:id", h.AdminCatalog.UpdateVariant).
		DELETE("/variants/:id", h.AdminCatalog.DeleteVariant).
		DELETE("/images/:id", h.AdminCatalog.DeleteImage).
		GET("/orders", h.Admin.ListOrders).
		GET("/orders/:id", h.Admin.GetOrder).
		PUT("/orders/:id/status", h.Admin.UpdateOrderStatus).
		GET("/payments", h.Payment.List).
		GET("/payments/:id", h.Payment.Get).
		GET("/customers", h.Admin.ListCustomers)

	return []RouteRegistrar{catalog, cart, auth, checkout, payments, orders, wishlist, admin}
}
