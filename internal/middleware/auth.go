package middleware

import (
	"context"
	"strings"

	"Child_Shield/internal/handler"
	"Child_Shield/internal/service"

	"github.com/gin-gonic/gin"
)

// Authenticator resolves a bearer token to the calling user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (service.Actor, error)
}

// AuthMiddleware rejects the request before any handler runs unless it carries a
// live access token.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			handler.WriteError(c, &service.Error{Kind: service.ErrUnauthorized, Message: "missing authorization header"})
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			handler.WriteError(c, &service.Error{Kind: service.ErrUnauthorized, Message: "invalid authorization format"})
			return
		}

		actor, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			handler.WriteError(c, err)
			return
		}

		handler.SetActor(c, actor)
		c.Next()
	}
}
