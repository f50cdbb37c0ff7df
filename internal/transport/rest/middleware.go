package rest

import (
	"strings"

	"github.com/gin-gonic/gin"

	usersports "github.com/averost/commerce-api/internal/domains/users/ports"
	sharederrors "github.com/averost/commerce-api/internal/shared/errors"
)

// ContextUsernameKey carries the authenticated username through the
// request context.
const ContextUsernameKey = "auth.username"

// RequireSession authenticates the Authorization bearer token against
// the session store and aborts with 401 when it does not resolve.
func RequireSession(users usersports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if users == nil {
			sharederrors.DefaultResponder.Unauthorized(c, "authentication is not configured")
			c.Abort()
			return
		}
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			sharederrors.DefaultResponder.Unauthorized(c, "missing bearer token")
			c.Abort()
			return
		}
		session, err := users.Authenticate(c.Request.Context(), token)
		if err != nil {
			sharederrors.DefaultResponder.Unauthorized(c, "invalid or expired session")
			c.Abort()
			return
		}
		c.Set(ContextUsernameKey, session.Username)
		c.Next()
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
