package app

import (
	"database/sql"
	"fmt"

	"go-payroll/internal/bootstrap"
	"go-payroll/internal/config"
	"go-payroll/internal/shared/audit"
	"go-payroll/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const connectRetries = 5

type infra struct {
	gorm  *gorm.DB
	sql   *sql.DB
	redis *redis.Client
}

func (i *infra) Close() {
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.sql != nil {
		_ = i.sql.Close()
	}
}

func connectInfra(cfg config.Config, logger *zap.Logger, needRedis bool) (*infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database.DSN(), connectRetries)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	in := &infra{gorm: gormDB, sql: sqlDB}

	if cfg.RedisAddr == "" {
		if needRedis {
			in.Close()
			return nil, fmt.Errorf("REDIS_ADDR is required")
		}
		return in, nil
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, connectRetries)
	if err != nil {
		in.Close()
		return nil, err
	}
	logger.Info("redis connection established")
	in.redis = rdb

	return in, nil
}

func bootstrapAudit(logger *zap.Logger) audit.Logger {
	return bootstrap.NewStdoutAuditLogger(logger)
}

// BuildApp connects the stores, builds every module and mounts its routes on router.
// The returned func releases the connections.
func BuildApp(router *gin.Engine, cfg config.Config, policy config.Policy, logger *zap.Logger) (func(), error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	in, err := connectInfra(cfg, logger, true)
	if err != nil {
		return nil, err
	}

	m, err := buildModules(in.sql, in.gorm, in.redis, cfg, policy, bootstrapAudit(logger), logger)
	if err != nil {
		in.Close()
		return nil, err
	}

	registerRoutes(router, m, in.redis, logger)
	return in.Close, nil
}
