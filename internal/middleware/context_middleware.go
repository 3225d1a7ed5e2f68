package middleware

import (
	"e-approval/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}

		c.Set("request_id", rid)

		ctx := contextutil.WithRequestID(c.Request.Context(), rid)
		c.Request = c.Request.WithContext(ctx)

		c.Header("X-Request-ID", rid)
		c.Next()
	}
}

// ContextLogger scopes the logger to the request id. Authenticated re-scopes it with the
// user id once the token is verified. Services read it back with contextutil.GetLogger.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		attachRequestLogger(c, logger)
		c.Next()
	}
}

func attachRequestLogger(c *gin.Context, logger *zap.Logger) {
	rid := c.GetString("request_id")
	if rid == "" {
		rid = contextutil.GetRequestID(c.Request.Context())
	}
	uid := c.GetString("user_id")

	reqLogger := logger.With(
		zap.String("request_id", rid),
		zap.String("user_id", uid),
	)

	ctx := c.Request.Context()
	ctx = contextutil.WithRequestID(ctx, rid)
	ctx = contextutil.WithUserID(ctx, uid)
	ctx = contextutil.WithLogger(ctx, reqLogger)

	c.Request = c.Request.WithContext(ctx)
}
