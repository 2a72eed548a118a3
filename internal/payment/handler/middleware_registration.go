package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// MiddlewareConfig holds middleware configuration.
type MiddlewareConfig struct {
	EnableLogging bool
	EnableTracing bool
	JWTSecret     []byte
}

// DefaultMiddlewareConfig returns the default middleware configuration.
func DefaultMiddlewareConfig(jwtSecret []byte) MiddlewareConfig {
	return MiddlewareConfig{
		EnableLogging: true,
		EnableTracing: true,
		JWTSecret:     jwtSecret,
	}
}

// RegisterMiddlewares registers all middlewares on the router.
func RegisterMiddlewares(router *mux.Router, config MiddlewareConfig) {
	if config.EnableLogging {
		router.Use(LoggingMiddleware)
	}
	if config.EnableTracing {
		router.Use(func(next http.Handler) http.Handler {
			return TracingMiddleware("http-request", next)
		})
	}
}

// GetAuthMiddleware returns the bearer-token middleware.
func (config MiddlewareConfig) GetAuthMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return AuthMiddleware(config.JWTSecret)
}
