package app

import (
	"database/sql"
	"fmt"

	"e-approval/internal/attachment"
	"e-approval/internal/auth"
	"e-approval/internal/config"
	"e-approval/internal/document"
	"e-approval/internal/messaging/kafka"
	"e-approval/internal/middleware"
	"e-approval/internal/notification"
	"e-approval/internal/rbac"
	"e-approval/internal/rbac/infra"
	"e-approval/internal/request"
	"e-approval/internal/shared/counter"
	"e-approval/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// modules holds the services shared by the API, the outbox worker and the consumer.
type modules struct {
	userRepo   user.Repository
	users      user.Service
	requests   request.Service
	notifier   notification.Notifier
	dispatcher *notification.Dispatcher
	rbac       rbac.Service
}

func buildModules(
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) (*modules, error) {
	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	requestRepo := request.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)

	// --- Collaborators ---
	store, err := attachment.NewLocalStore(cfg.Storage.BaseDir, cfg.Storage.PublicBaseURL, cfg.Storage.MaxFileSize, logger)
	if err != nil {
		return nil, err
	}
	renderer := document.NewPDFRenderer(cfg.App.Name, logger)
	notifier := notification.NewNotifier(cfg.SMTP, logger)

	// --- Services ---
	userService := user.NewService(userRepo, rdb, logger)
	dispatcher := notification.NewDispatcher(userService, notifier, cfg.App.DashboardURL, logger)

	deps := request.Collaborators{
		Counter:  counterRepo,
		Identity: userService,
		Store:    store,
		Renderer: renderer,
	}
	if cfg.Kafka.OutboxEnabled() {
		deps.Outbox = kafka.NewOutboxRepository(db)
	} else {
		deps.Publisher = dispatcher
	}
	requestService := request.NewService(db, requestRepo, deps, logger)
	dispatcher.SetRequestReader(requestService)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(rbac.DefaultPolicies)
	if err != nil {
		return nil, fmt.Errorf("build rbac enforcer: %w", err)
	}

	return &modules{
		userRepo:   userRepo,
		users:      userService,
		requests:   requestService,
		notifier:   notifier,
		dispatcher: dispatcher,
		rbac:       rbac.NewService(enforcer, logger),
	}, nil
}

func registerRoutes(
	router *gin.Engine,
	cfg *config.Config,
	m *modules,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	authService := auth.NewService(m.userRepo, m.notifier, m.users, auth.Config{
		Secret:       cfg.JWT.Secret,
		AccessTTL:    cfg.JWT.AccessTTL,
		RefreshTTL:   cfg.JWT.RefreshTTL,
		DashboardURL: cfg.App.DashboardURL,
	}, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, cfg.App.IsProduction(), logger)
	userHandler := user.NewHandler(m.users, logger)
	requestHandler := request.NewHandler(m.requests, logger)
	rbacHandler := rbac.NewHandler(m.rbac)

	authenticated := middleware.Authenticated(cfg.JWT.Secret, logger)
	idempotency := middleware.Idempotency(rdb, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, m.rbac, authenticated)
		user.RegisterRoutes(api, userHandler, m.rbac, authenticated)
		request.RegisterRoutes(api, requestHandler, m.rbac, authenticated, idempotency)
		rbac.RegisterRoutes(api, rbacHandler, authenticated)
	}
}
