package request

import (
	"e-approval/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	authMiddleware gin.HandlerFunc,
	idempotency gin.HandlerFunc,
) {
	requests := r.Group("/requests")
	requests.Use(authMiddleware)
	{
		requests.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "request", "create"),
			idempotency,
			handler.Create,
		)

		requests.GET("",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "request", "read"),
			handler.List,
		)

		requests.GET("/approver/me",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "request", "approve"),
			handler.ListForApprover,
		)

		requests.GET("/technician/me",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "request", "progress"),
			handler.ListForTechnician,
		)

		requests.GET("/:id",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "request", "read"),
			handler.GetByID,
		)

		requests.GET("/:id/pdf",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "request", "read"),
			handler.Document,
		)

		requests.PUT("/:id/approve",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "request", "approve"),
			handler.Approve,
		)

		requests.PUT("/:id/reject",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "request", "approve"),
			handler.Reject,
		)

		requests.PUT("/:id/assign-technician",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "request", "assign"),
			handler.AssignTechnician,
		)

		requests.PUT("/:id/maintenance-status",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "request", "progress"),
			handler.AdvanceMaintenanceStatus,
		)

		requests.DELETE("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "request", "delete"),
			handler.Delete,
		)
	}
}
