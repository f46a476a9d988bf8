// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"catalog/internal/delivery/http/middleware"
	"catalog/internal/delivery/http/router/handler"
	"catalog/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler *handler.AccountHandler
	ProductHandler *handler.ProductHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler *handler.AccountHandler
	productHandler *handler.ProductHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler: params.AccountHandler,
		productHandler: params.ProductHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", r.accountHandler.Register)
		authGroup.POST("/login", r.accountHandler.Login)
		authGroup.POST("/refresh", r.accountHandler.Refresh)
		authGroup.POST("/logout", r.accountHandler.Logout, r.authMiddleware.Authenticate)
	}

	// Routes operating on the caller's own account.
	meGroup := api.Group("/users/me")
	meGroup.Use(r.authMiddleware.Authenticate)
	{
		meGroup.GET("", r.accountHandler.GetProfile)
		meGroup.PATCH("", r.accountHandler.UpdateProfile)
		meGroup.PUT("/password", r.accountHandler.ChangePassword)
	}

	// Account administration.
	userAdminGroup := api.Group("/users")
	userAdminGroup.Use(r.authMiddleware.Authenticate)
	userAdminGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin))
	{
		userAdminGroup.GET("", r.accountHandler.ListAccounts)
		userAdminGroup.GET("/:id", r.accountHandler.GetAccount)
		userAdminGroup.PATCH("/:id/status", r.accountHandler.SetAccountStatus)
		userAdminGroup.DELETE("/:id", r.accountHandler.DeleteAccount)
	}

	// Public catalog reads. Credentials are honored when presented so
	// administrators see inactive products.
	productGroup := api.Group("/products")
	productGroup.Use(r.authMiddleware.OptionalAuthenticate)
	{
		productGroup.GET("", r.productHandler.ListProducts)
		productGroup.GET("/featured", r.productHandler.ListFeatured)
		productGroup.GET("/categories", r.productHandler.ListCategories)
		productGroup.GET("/:id", r.productHandler.GetProduct)
	}

	// Catalog administration.
	productAdminGroup := api.Group("/products")
	productAdminGroup.Use(r.authMiddleware.Authenticate)
	productAdminGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin))
	{
		productAdminGroup.POST("", r.productHandler.CreateProduct)
		productAdminGroup.PUT("/:id", r.productHandler.UpdateProduct)
		productAdminGroup.PATCH("/:id/stock", r.productHandler.UpdateStock)
		productAdminGroup.PATCH("/:id/status", r.productHandler.SetProductStatus)
		productAdminGroup.DELETE("/:id", r.productHandler.DeleteProduct)
	}
}
