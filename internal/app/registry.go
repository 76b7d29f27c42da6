package app

import (
	"database/sql"

	"go-payroll/internal/approval"
	"go-payroll/internal/attendance"
	"go-payroll/internal/compensation"
	"go-payroll/internal/config"
	"go-payroll/internal/employee"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/middleware"
	"go-payroll/internal/payroll"
	"go-payroll/internal/payrollgate"
	"go-payroll/internal/rbac"
	"go-payroll/internal/shared/audit"
	"go-payroll/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// modules holds the services shared by the API, worker and consumer binaries.
type modules struct {
	rbac         rbac.Service
	employee     employee.Service
	directory    *employee.Directory
	compensation compensation.Service
	attendance   attendance.Service
	approval     approval.Service
	payroll      payroll.Service
	gate         *payrollgate.Gate
}

func buildModules(
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	cfg config.Config,
	policy config.Policy,
	auditLogger audit.Logger,
	logger *zap.Logger,
) (*modules, error) {
	// --- Repositories ---
	approvalRepo := approval.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	compensationRepo := compensation.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)

	// --- RBAC Core ---
	rbacService, err := rbac.NewDefaultService(cfg.RBACPolicyFile, logger)
	if err != nil {
		return nil, err
	}

	// --- Services ---
	directory := employee.NewDirectory(employeeRepo, rdb, logger)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, counterRepo, outboxRepo, directory, logger)
	compensationService := compensation.NewService(db, compensationRepo, rbacService, policy.CTC, logger)
	attendanceService := attendance.NewService(attendanceRepo, rbacService, policy.WeeklyOff, logger)
	approvalService := approval.NewServiceWithOutbox(db, approvalRepo, outboxRepo, directory, rbacService, auditLogger, logger)
	gate := payrollgate.New(db, approvalRepo, payrollRepo, outboxRepo, logger).
		WithTxBinder(func(tx *sql.Tx) payrollgate.HoldFinder { return approvalRepo.WithTx(tx) })

	payrollCfg := payroll.DefaultConfig()
	payrollCfg.Statutory = policy.Statutory
	payrollCfg.BasicRate = policy.CTC.BasicRate
	payrollCfg.BatchConcurrency = cfg.BatchConcurrency

	payrollService := payroll.NewService(payroll.Dependencies{
		DB:         db,
		Repo:       payrollRepo,
		Counter:    counterRepo,
		Outbox:     outboxRepo,
		Gate:       gate,
		Components: compensationService,
		Attendance: attendanceService,
		Authorizer: rbacService,
	}, payrollCfg, logger)

	return &modules{
		rbac:         rbacService,
		employee:     employeeService,
		directory:    directory,
		compensation: compensationService,
		attendance:   attendanceService,
		approval:     approvalService,
		payroll:      payrollService,
		gate:         gate,
	}, nil
}

func registerRoutes(router *gin.Engine, m *modules, rdb *redis.Client, logger *zap.Logger) {
	// --- Handlers ---
	approvalHandler := approval.NewHandler(m.approval, rdb, logger)
	attendanceHandler := attendance.NewHandler(m.attendance, logger)
	compensationHandler := compensation.NewHandler(m.compensation, logger)
	employeeHandler := employee.NewHandler(m.employee, logger)
	payrollHandler := payroll.NewHandlerWithRedis(m.payroll, rdb, logger)
	rbacHandler := rbac.NewHandler(m.rbac, logger)

	router.Use(middleware.RequestID())

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(middleware.RateLimitByIP(20, 40))
	{
		approval.RegisterRoutes(api, approvalHandler, rdb)
		attendance.RegisterRoutes(api, attendanceHandler)
		compensation.RegisterRoutes(api, compensationHandler, m.rbac)
		employee.RegisterRoutes(api, employeeHandler, m.rbac, logger)
		payroll.RegisterRoutes(api, payrollHandler, m.rbac, rdb)
		rbac.RegisterRoutes(api, rbacHandler)
	}
}
