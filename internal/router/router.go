package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/stylish/clothing-store/internal/config"
	"github.com/stylish/clothing-store/internal/handler"
	"github.com/stylish/clothing-store/internal/middleware"
	"github.com/stylish/clothing-store/internal/repository"
)

// Handlers bundles every handler the route table needs so callers wire
// the application in one place.
type Handlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Taxonomy *handler.TaxonomyHandler
	Products *handler.ProductHandler
	Taggings *handler.TaggingHandler
	Orders   *handler.OrderHandler
}

// RegisterRoutes registers the whole route table on the provided Echo
// instance. The session middleware runs on every request and binds the
// caller's identity when a valid token is present; routes that mutate
// owned resources additionally require the binding via RequireSession.
//
// Public catalog reads go through the shared response cache and rate
// limiter when Redis is available; rdb may be nil, in which case both
// middlewares pass requests straight through.
func RegisterRoutes(e *echo.Echo, h Handlers, sessions *repository.SessionRepo, rdb *redis.Client, cacheCfg config.CacheConfig, rlCfg config.RateLimitConfig) {
	e.GET("/healthz", handler.Health)

	// Identity is resolved once per request; handlers decide what the
	// absence of a binding means for them.
	e.Use(middleware.ResolveSession(sessions))

	cache := middleware.ResponseCache(cacheCfg, rdb)
	limit := middleware.RateLimit(rlCfg, rdb)

	// Sessions.
	e.POST("/login", h.Auth.Login)
	e.POST("/logout", h.Auth.Logout)
	e.GET("/me", h.Auth.Me)

	// Users. Registration and profile management are open; a user row
	// carries no role, ownership is checked per resource instead.
	e.POST("/users", h.Users.Create)
	e.GET("/users", h.Users.List)
	e.GET("/users/:id", h.Users.Get)
	e.PATCH("/users/:id", h.Users.Update)
	e.DELETE("/users/:id", h.Users.Delete)

	auth := middleware.RequireSession()

	// Taxonomy. Reads are public and cacheable; mutations need a session
	// but no ownership, the taxonomy is shared.
	e.GET("/categories", h.Taxonomy.ListCategories, limit, cache)
	e.GET("/categories/:id", h.Taxonomy.GetCategory, limit, cache)
	e.POST("/categories", h.Taxonomy.CreateCategory, auth)
	e.PATCH("/categories/:id", h.Taxonomy.UpdateCategory, auth)
	e.DELETE("/categories/:id", h.Taxonomy.DeleteCategory, auth)

	e.GET("/subcategories", h.Taxonomy.ListSubcategories, limit, cache)
	e.GET("/subcategories/:id", h.Taxonomy.GetSubcategory, limit, cache)
	e.POST("/subcategories", h.Taxonomy.CreateSubcategory, auth)
	e.PATCH("/subcategories/:id", h.Taxonomy.UpdateSubcategory, auth)
	e.DELETE("/subcategories/:id", h.Taxonomy.DeleteSubcategory, auth)

	// Catalog. Browsing and the filtered listing are guest-facing.
	e.GET("/products", h.Products.List, limit, cache)
	e.GET("/products/:id", h.Products.Get, limit, cache)
	e.POST("/products", h.Products.Create, auth)
	e.PATCH("/products/:id", h.Products.Update, auth)
	e.DELETE("/products/:id", h.Products.Delete, auth)

	// Product-category taggings.
	e.GET("/product_categories", h.Taggings.List, limit, cache)
	e.GET("/product_categories/:id", h.Taggings.Get, limit, cache)
	e.POST("/product_categories", h.Taggings.Create, auth)
	e.PATCH("/product_categories/:id", h.Taggings.Update, auth)
	e.DELETE("/product_categories/:id", h.Taggings.Delete, auth)

	// Orders. Fully session-scoped; there is no admin listing.
	e.GET("/orders", h.Orders.List, auth)
	e.POST("/orders", h.Orders.Create, auth)
	e.GET("/orders/:id", h.Orders.Get, auth)
	e.PATCH("/orders/:id", h.Orders.Update, auth)
}
