package app

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"e-approval/internal/bootstrap"
	"e-approval/internal/config"
	"e-approval/internal/middleware"
	"e-approval/internal/shared/connection"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// infrastructure is the set of connections one process owns.
type infrastructure struct {
	gormDB *gorm.DB
	sqlDB  *sql.DB
	redis  *redis.Client
}

func connect(cfg *config.Config, withRedis bool, logger *zap.Logger) (*infrastructure, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database.DSN(), cfg.Database.MaxRetries)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	infra := &infrastructure{gormDB: gormDB, sqlDB: sqlDB}

	if withRedis && cfg.Redis.Addr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Redis.MaxRetries)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		infra.redis = rdb
	} else if withRedis {
		logger.Warn("redis not configured, caching and idempotency disabled")
	}
	return infra, nil
}

func (i *infrastructure) Close() {
	if i.redis != nil {
		_ = i.redis.Close()
	}
	_ = i.sqlDB.Close()
}

// NewRouter builds the engine with the cross-cutting middleware but no API routes.
func NewRouter(cfg *config.Config, logger *zap.Logger) *gin.Engine {
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "Idempotency-Key", "X-Request-ID"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Idempotent-Replayed", "Content-Disposition"}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{cfg.App.DashboardURL}
	}
	r.Use(cors.New(corsConfig))

	r.Use(middleware.RequestID())
	r.Use(middleware.ContextLogger(logger))
	r.Use(middleware.Metrics())
	if cfg.RateLimit.PerSecond > 0 {
		r.Use(middleware.RateLimitByIP(rate.Limit(cfg.RateLimit.PerSecond), cfg.RateLimit.Burst))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "time": time.Now().UTC()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.Storage.BaseDir != "" {
		r.Static(uploadsPath(cfg.Storage.PublicBaseURL), cfg.Storage.BaseDir)
	}

	logger.Debug("router ready", zap.Strings("allowed_origins", corsConfig.AllowOrigins))
	return r
}

// RunAPI serves the HTTP API until ctx is cancelled.
func RunAPI(ctx context.Context, cfg *config.Config) error {
	logger := zap.L().Named("app.api")

	infra, err := connect(cfg, true, logger)
	if err != nil {
		return err
	}
	defer infra.Close()

	if cfg.Database.AutoMigrate {
		if err := Migrate(infra.gormDB, logger); err != nil {
			return err
		}
	}

	m, err := buildModules(cfg, infra.sqlDB, infra.gormDB, infra.redis, zap.L())
	if err != nil {
		return err
	}

	// Rows written before the counter table existed must never be handed out again.
	if err := m.requests.SyncSerialCounter(ctx); err != nil {
		logger.Warn("sync serial counter failed", zap.Error(err))
	}

	router := NewRouter(cfg, zap.L())
	registerRoutes(router, cfg, m, infra.redis, zap.L())

	if cfg.Kafka.OutboxEnabled() {
		logger.Info("lifecycle side effects go through the kafka outbox", zap.Strings("brokers", cfg.Kafka.Brokers))
	} else {
		logger.Info("lifecycle side effects run in-process")
	}

	return bootstrap.StartHTTPServer(ctx, router, cfg.Server, bootstrap.NewStdoutAuditLogger(zap.L()))
}

// uploadsPath takes the path component of the public base URL, "/uploads" by default.
func uploadsPath(publicBaseURL string) string {
	p := publicBaseURL
	if i := strings.Index(p, "://"); i >= 0 {
		p = p[i+3:]
		if j := strings.Index(p, "/"); j >= 0 {
			p = p[j:]
		} else {
			p = ""
		}
	}
	p = "/" + strings.Trim(p, "/")
	if p == "/" {
		return "/uploads"
	}
	return p
}
