package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/alterlapsus/auth-api/internal/container"
	handlers "github.com/alterlapsus/auth-api/internal/interface/http"
	"github.com/alterlapsus/auth-api/internal/interface/middleware"
)

// AuthModule registers the credential endpoints.
// POST /api/auth/signup and POST /api/auth/signin.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	cfg := container.GetConfig()

	// The login limiter is route middleware, so it runs before the handler
	// binds or validates the payload: malformed attempts consume budget
	// too. That ordering is an anti-enumeration measure, keep it.
	loginLimiter := middleware.RateLimit(
		container.GetRedis(),
		cfg.LoginRateMax,
		cfg.LoginRateWindow,
		middleware.KeyByIPAndPath(),
		nil,
	)

	rg.POST("/auth/signup", m.Handler.Signup)
	rg.POST("/auth/signin", loginLimiter, m.Handler.Signin)
}
