package employee

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	ManagerKeyPrefix = "employees:manager:"
	managerCacheTTL  = time.Hour
	noManager        = "-"
)

func GetManagerKey(employeeID uuid.UUID) string {
	return ManagerKeyPrefix + employeeID.String()
}

// Directory answers reporting-line questions for the approval engine. Reads go through
// Redis; concurrent misses for the same employee share one query.
type Directory struct {
	repo   Repository
	rdb    *redis.Client
	sf     singleflight.Group
	logger *zap.Logger
}

func NewDirectory(repo Repository, rdb *redis.Client, logger ...*zap.Logger) *Directory {
	l := zap.L().Named("employee.directory")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.directory")
	}
	return &Directory{repo: repo, rdb: rdb, logger: l}
}

// ManagerOf returns the direct manager of employeeID. Unknown employees have none.
func (d *Directory) ManagerOf(ctx context.Context, employeeID uuid.UUID) (*uuid.UUID, error) {
	key := GetManagerKey(employeeID)

	if d.rdb != nil {
		cached, err := d.rdb.Get(ctx, key).Result()
		switch {
		case err == nil:
			if cached == noManager {
				return nil, nil
			}
			if id, perr := uuid.Parse(cached); perr == nil {
				return &id, nil
			}
		case !errors.Is(err, redis.Nil):
			d.logger.Warn("manager cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	v, err, _ := d.sf.Do(key, func() (interface{}, error) {
		managerID, err := d.repo.FindManagerID(ctx, employeeID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			managerID, err = nil, nil
		}
		if err != nil {
			return nil, err
		}

		if d.rdb != nil {
			value := noManager
			if managerID != nil {
				value = managerID.String()
			}
			if err := d.rdb.Set(ctx, key, value, managerCacheTTL).Err(); err != nil {
				d.logger.Warn("manager cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return managerID, nil
	})
	if err != nil {
		d.logger.Error("manager lookup failed",
			zap.String("employee_id", employeeID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return v.(*uuid.UUID), nil
}

// Invalidate drops the cached manager of employeeID after a reporting-line change.
func (d *Directory) Invalidate(ctx context.Context, employeeID uuid.UUID) {
	if d.rdb == nil {
		return
	}
	key := GetManagerKey(employeeID)
	if err := d.rdb.Del(ctx, key).Err(); err != nil {
		d.logger.Error("failed to invalidate manager cache",
			zap.Error(err),
			zap.String("key", key),
		)
	}
}
