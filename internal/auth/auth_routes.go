package auth

import (
	"e-approval/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	authMiddleware gin.HandlerFunc,
) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.2, 5), handler.Login)
		auth.POST("/refresh", middleware.RateLimitByIP(0.2, 5), handler.RefreshToken)
		auth.POST("/forgot-password", middleware.RateLimitByIP(0.05, 3), handler.ForgotPassword)
		auth.POST("/reset-password", middleware.RateLimitByIP(0.1, 3), handler.ResetPassword)
		auth.POST("/reset-password/:token", middleware.RateLimitByIP(0.1, 3), handler.ResetPassword)

		auth.GET("/me", authMiddleware, middleware.RateLimitByUser(2, 5), handler.Me)
		auth.POST("/logout", authMiddleware, middleware.RateLimitByUser(2, 5), handler.Logout)
		auth.POST("/register",
			authMiddleware,
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "user", "create"),
			handler.Register,
		)
	}
}
