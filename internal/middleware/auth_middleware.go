package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/lecturehub/internal/app/models/dto"
	"github.com/yigit/lecturehub/internal/pkg/auth"
)

// Context keys set by RequireSession
const (
	ContextLecturerID = "lecturerID"
	ContextPFNumber   = "pfNumber"
)

// AuthMiddleware checks the session cookie
type AuthMiddleware struct {
	sessions   *auth.SessionService
	cookieName string
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sessions *auth.SessionService, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:   sessions,
		cookieName: cookieName,
	}
}

// RequireSession rejects requests without a valid session cookie
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(m.cookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Authentication required"))
			return
		}

		claims, err := m.sessions.Verify(token)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			if errors.Is(err, auth.ErrExpiredToken) {
				errorCode = dto.ErrorCodeExpiredToken
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorCode, "Invalid or expired token"))
			return
		}

		c.Set(ContextLecturerID, claims.LecturerID)
		c.Set(ContextPFNumber, claims.PFNumber)

		c.Next()
	}
}

// LecturerIDFromContext returns the lecturer set by RequireSession
func LecturerIDFromContext(c *gin.Context) (int64, bool) {
	value, exists := c.Get(ContextLecturerID)
	if !exists {
		return 0, false
	}
	id, ok := value.(int64)
	return id, ok && id > 0
}
