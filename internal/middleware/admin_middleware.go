package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wallet-backend-go/internal/core"
)

// AdminMiddleware gates privileged routes behind the admin capability.
// It must run after AuthMiddleware.VerifyToken, which sets userEmail.
type AdminMiddleware struct {
	adminService core.AdminService
	logger       *zap.Logger
}

// NewAdminMiddleware creates a new AdminMiddleware instance.
func NewAdminMiddleware(adminService core.AdminService, logger *zap.Logger) *AdminMiddleware {
	if adminService == nil {
		panic("AdminMiddleware requires a non-nil AdminService")
	}
	return &AdminMiddleware{adminService: adminService, logger: logger}
}

// RequireAdmin aborts with 403 unless the authenticated email holds the admin
// capability. Lookup failures are treated as "not admin" and logged, never as
// an open door.
func (m *AdminMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString("userEmail")
		if email == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Admin access requires a verified email"})
			return
		}

		isAdmin, err := m.adminService.IsAdminEmail(c.Request.Context(), email)
		if err != nil {
			if m.logger != nil {
				m.logger.Error("Failed to resolve admin capability", zap.String("email", email), zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Admin access could not be verified"})
			return
		}
		if !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Admin access required"})
			return
		}

		c.Next()
	}
}
