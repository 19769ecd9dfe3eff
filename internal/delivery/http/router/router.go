// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"voltcart/config"
	"voltcart/internal/delivery/http/middleware"
	"voltcart/internal/delivery/http/router/handler"
	"voltcart/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	Config *config.Config

	UserHandler        *handler.UserHandler
	ProductHandler     *handler.ProductHandler
	CartHandler        *handler.CartHandler
	OrderHandler       *handler.OrderHandler
	PaymentHandler     *handler.PaymentHandler
	ReviewHandler      *handler.ReviewHandler
	FavouriteHandler   *handler.FavouriteHandler
	ActivityLogHandler *handler.ActivityLogHandler

	AuthMiddleware      *middleware.AuthMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware
	AuditMiddleware     *middleware.AuditMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	p := r.params
	authed := p.AuthMiddleware.Authenticate
	admin := p.AuthMiddleware.RequireAdmin
	audited := p.AuditMiddleware.Record

	// Health check and metrics endpoints
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", metrics.Handler())

	api := e.Group("/api")

	// Account and session routes. The credential endpoints carry the
	// per-IP throttle.
	userGroup := api.Group("/user")
	{
		userGroup.POST("/register", p.UserHandler.Register, p.RateLimitMiddleware.Limit)
		userGroup.POST("/verify-otp", p.UserHandler.VerifyRegistrationOTP, p.RateLimitMiddleware.Limit)
		userGroup.POST("/resend-otp", p.UserHandler.ResendRegistrationOTP, p.RateLimitMiddleware.Limit)
		userGroup.POST("/login", p.UserHandler.Login, p.RateLimitMiddleware.Limit)
		userGroup.POST("/verify-login-otp", p.UserHandler.VerifyLoginOTP, p.RateLimitMiddleware.Limit)
		userGroup.POST("/resend-login-otp", p.UserHandler.ResendLoginOTP, p.RateLimitMiddleware.Limit)
		userGroup.POST("/forgot-password", p.UserHandler.ForgotPassword, p.RateLimitMiddleware.Limit)
		userGroup.POST("/reset-password", p.UserHandler.ResetPassword, p.RateLimitMiddleware.Limit)
		userGroup.POST("/refresh-token", p.UserHandler.RefreshToken)
		userGroup.POST("/logout", p.UserHandler.Logout, authed)
		userGroup.GET("/profile", p.UserHandler.GetProfile, authed)
		userGroup.PUT("/profile", p.UserHandler.UpdateProfile, authed, audited)
		userGroup.PUT("/profile-picture", p.UserHandler.UpdateProfilePicture, authed, audited)
		userGroup.PUT("/update-password", p.UserHandler.UpdatePassword, authed, audited)
		userGroup.GET("/check-admin", p.UserHandler.CheckAdmin, authed)
	}

	// Catalog routes. Reads are public, writes are admin only.
	productGroup := api.Group("/product")
	{
		productGroup.GET("", p.ProductHandler.GetAll)
		productGroup.GET("/category/:category", p.ProductHandler.ListByCategory)
		productGroup.GET("/:id", p.ProductHandler.GetByID)
		productGroup.POST("/add", p.ProductHandler.Create, authed, admin, audited)
		productGroup.PUT("/:id", p.ProductHandler.Update, authed, admin, audited)
		productGroup.DELETE("/:id", p.ProductHandler.Delete, authed, admin, audited)
	}

	cartGroup := api.Group("/cart", authed)
	{
		cartGroup.POST("/add", p.CartHandler.AddToCart, audited)
		cartGroup.GET("", p.CartHandler.GetCart)
		cartGroup.PUT("/update", p.CartHandler.UpdateItem, audited)
		cartGroup.DELETE("/remove/:id", p.CartHandler.RemoveItem, audited)
	}

	orderGroup := api.Group("/order", authed)
	{
		orderGroup.POST("/add", p.OrderHandler.PlaceOrder, audited)
		orderGroup.GET("/user", p.OrderHandler.ListUserOrders)
		orderGroup.GET("/all", p.OrderHandler.ListAllOrders, admin)
		orderGroup.GET("/:id", p.OrderHandler.GetOrder)
		orderGroup.PUT("/status/:id", p.OrderHandler.UpdateStatus, admin, audited)
	}

	reviewGroup := api.Group("/review")
	{
		reviewGroup.POST("/add", p.ReviewHandler.PostReview, authed, audited)
		reviewGroup.GET("/product/:id", p.ReviewHandler.GetProductReviews)
		reviewGroup.GET("/user/:productId", p.ReviewHandler.GetUserReview, authed)
		reviewGroup.GET("/average/:id", p.ReviewHandler.AverageRating)
		reviewGroup.POST("/averages", p.ReviewHandler.AverageRatings)
	}

	favouriteGroup := api.Group("/favourite", authed)
	{
		favouriteGroup.POST("/add", p.FavouriteHandler.Add, audited)
		favouriteGroup.GET("", p.FavouriteHandler.List)
		favouriteGroup.DELETE("/:id", p.FavouriteHandler.Remove, audited)
	}

	// Khalti checkout handshake. Completion is the gateway's return URL,
	// so it stays outside auth.
	khaltiGroup := api.Group("/khalti")
	{
		khaltiGroup.POST("/initialize-khalti", p.PaymentHandler.InitializeKhalti, authed)
		khaltiGroup.GET("/complete-khalti-payment", p.PaymentHandler.CompleteKhalti)
	}

	api.POST("/payment/add", p.PaymentHandler.RecordPayment, authed, admin, audited)

	api.GET("/logs/activity-logs", p.ActivityLogHandler.List, authed, admin)

	// Test routes for middleware validation, enabled via configuration.
	if p.Config.TestRoutes != nil && p.Config.TestRoutes.Enabled {
		testHandler := handler.NewTestHandler()
		testGroup := e.Group("/test")
		testGroup.GET("/public", testHandler.TestPublicEndpoint)
		testGroup.GET("/auth", testHandler.TestAuthMiddleware, authed)
	}
}
