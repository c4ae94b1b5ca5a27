package api

import (
	"crypto/subtle"
	"log/slog"

	"treefs/internal/server/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"
)

// AdminUser is the basic-auth user name for mutating routes.
const AdminUser = "admin"

// AdminAuth guards mutating routes with basic auth. Only the bcrypt hash of
// the password is kept in memory.
type AdminAuth struct {
	hash []byte
}

// NewAdminAuth hashes password. An empty password disables the check.
func NewAdminAuth(password string) (*AdminAuth, error) {
	if password == "" {
		return &AdminAuth{}, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AdminAuth{hash: hash}, nil
}

// Enabled reports whether a password was configured.
func (a *AdminAuth) Enabled() bool {
	return len(a.hash) > 0
}

// Middleware returns basic-auth middleware, or a pass-through when disabled.
func (a *AdminAuth) Middleware() echo.MiddlewareFunc {
	if !a.Enabled() {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Realm:     "treefs",
		Validator: a.validate,
	})
}

func (a *AdminAuth) validate(username, password string, c echo.Context) (bool, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(AdminUser)) == 1
	passOK := bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil

	ok := userOK && passOK
	metrics.RecordAuthAttempt(ok)
	if !ok {
		slog.Warn("admin authentication failed", "ip", c.RealIP(), "user", username)
	}
	return ok, nil
}
