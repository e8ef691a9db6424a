// Package http holds the contracts between the composition root, the router
// and the bounded-context modules.
package http

import (
	"roofing_crm_backend/internal/events"
	"roofing_crm_backend/platform/config"
	"roofing_crm_backend/platform/httpkit"
	"roofing_crm_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Module is a bounded context that mounts its own routes.
type Module interface {
	// Name is used in startup logs.
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// Subscriber is a module that reacts to domain events.
type Subscriber interface {
	RegisterHandlers(bus events.Bus)
}

// RouterContext is what a module receives when mounting routes.
type RouterContext struct {
	// V1 is the public /api/v1 group.
	V1 *gin.RouterGroup
	// Protected requires a valid session token and a resolved roster member.
	Protected *gin.RouterGroup
	// Admin is /api/v1/admin, limited to the admin role.
	Admin *gin.RouterGroup
	// AuthRateLimiter throttles login attempts per client IP.
	AuthRateLimiter *httpkit.AuthRateLimiter
}

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	Config RouterConfig
	Logger *logger.Logger
	// MemberResolver loads the caller's roster record after token validation.
	MemberResolver gin.HandlerFunc
	Modules        []Module
}
