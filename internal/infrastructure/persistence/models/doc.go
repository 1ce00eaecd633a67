// Package models contains the gorm persistence models. Domain entities stay
// free of gorm tags; every model converts with ToDomain and a FromDomain
// constructor.
//
// Tables:
//   - catalog.go: categories, products, product_variants, product_images
//   - cart.go: carts, cart_items
//   - order.go: orders, order_items, pending_checkouts
//   - payment.go: payments
//   - identity.go: users, wishlists, wishlist_items
package models
