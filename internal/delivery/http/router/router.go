// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"warden/internal/delivery/http/middleware"
	"warden/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	AuthMiddleware      *middleware.AuthMiddleware
	RequestIDMiddleware *middleware.RequestIDMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	authMiddleware      *middleware.AuthMiddleware
	requestIDMiddleware *middleware.RequestIDMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:         params.AuthHandler,
		userHandler:         params.UserHandler,
		authMiddleware:      params.AuthMiddleware,
		requestIDMiddleware: params.RequestIDMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.Use(r.requestIDMiddleware.Process)

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
	}

	// User routes that require a valid bearer token
	userGroup := e.Group("/user")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("/me", r.userHandler.Me)
	}

	usersGroup := e.Group("/users")
	usersGroup.Use(r.authMiddleware.Authenticate)
	{
		usersGroup.GET("", r.userHandler.List)
		usersGroup.GET("/:id", r.userHandler.GetByID)
	}
}
