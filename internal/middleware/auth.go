package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eyuppastirmaci/agenda-pulse/internal/auth"
	"github.com/eyuppastirmaci/agenda-pulse/pkg/apperrors"
)

// ContextUserID is the gin context key holding the authenticated user id.
const ContextUserID = "userID"

// Auth validates the bearer token and stores the subject user id in the
// request context.
func Auth(verifier *auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			c.Abort()
			return
		}

		userID, err := verifier.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			apperrors.HandleError(c, apperrors.New(apperrors.CodeInvalidToken, "Invalid token", http.StatusUnauthorized))
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserID returns the authenticated user id stored by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
