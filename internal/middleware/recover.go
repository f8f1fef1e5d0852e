package middleware

import (
	"fmt"
	"log/slog"

	"Child_Shield/internal/handler"
	"Child_Shield/internal/pkg/logctx"

	"github.com/gin-gonic/gin"
)

// Recover turns a panic into a 500 with the standard error body. The panic value
// is logged, never returned.
func Recover() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		ctx := c.Request.Context()
		logctx.From(ctx).LogAttrs(ctx, slog.LevelError, "panic",
			slog.String("path", c.Request.URL.Path),
			slog.String("reason", fmt.Sprint(rec)),
		)
		handler.WriteError(c, fmt.Errorf("panic"))
	})
}
