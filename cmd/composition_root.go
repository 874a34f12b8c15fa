package cmd

import (
	"log/slog"
	"time"

	cafehttp "cafe/internal/adapters/in/http"
	"cafe/internal/adapters/in/tcp"
	"cafe/internal/adapters/out/memory"
	"cafe/internal/adapters/out/postgres/auditrepo"
	"cafe/internal/core/application/usecases/commands"
	"cafe/internal/core/application/usecases/queries"
	"cafe/internal/core/domain/model/capacity"
	"cafe/internal/core/domain/model/item"
	"cafe/internal/core/domain/services"
	"cafe/internal/core/ports"
	"cafe/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires the fulfillment engine and hands out application
// handlers to the adapters.
type CompositionRoot struct {
	config Config
	logger *slog.Logger

	registry    *memory.OrderRegistry
	pool        *capacity.Pool
	scheduler   *services.FulfillmentScheduler
	coordinator *services.CancellationCoordinator
	presences   *tcp.PresenceRegistry
	auditLog    *auditrepo.GormAuditLog
}

// NewCompositionRoot builds the engine from the given config. gormDB may be
// nil; the audit trail is then disabled.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	registry := memory.NewOrderRegistry()

	pool, err := capacity.NewPool(config.SlotsPerType)
	if err != nil {
		return nil, err
	}

	durations := map[item.Type]time.Duration{
		item.Tea:    config.TeaPrepTime,
		item.Coffee: config.CoffeePrepTime,
	}
	scheduler, err := services.NewFulfillmentScheduler(registry, pool, durations, config.DefaultPrepTime, logger)
	if err != nil {
		return nil, err
	}

	coordinator, err := services.NewCancellationCoordinator(registry, pool, scheduler, logger)
	if err != nil {
		return nil, err
	}

	root := &CompositionRoot{
		config:      config,
		logger:      logger,
		registry:    registry,
		pool:        pool,
		scheduler:   scheduler,
		coordinator: coordinator,
		presences:   tcp.NewPresenceRegistry(),
	}

	if gormDB != nil {
		auditLog := auditrepo.NewGormAuditLog(gormDB)
		if err := auditLog.Migrate(); err != nil {
			return nil, err
		}
		root.auditLog = auditLog
	}

	return root, nil
}

// Scheduler exposes the fulfillment scheduler for lifecycle management.
func (c *CompositionRoot) Scheduler() *services.FulfillmentScheduler {
	return c.scheduler
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(c.registry, c.scheduler)
}

func (c *CompositionRoot) CreateCollectOrderCommandHandler() commands.CollectOrderCommandHandler {
	return commands.NewCollectOrderCommandHandler(c.registry)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.registry, c.coordinator)
}

func (c *CompositionRoot) CreateGetOrderStatusQueryHandler() queries.GetOrderStatusQueryHandler {
	return queries.NewGetOrderStatusQueryHandler(c.registry)
}

func (c *CompositionRoot) CreateGetCafeStateQueryHandler() (queries.GetCafeStateQueryHandler, error) {
	return queries.NewGetCafeStateQueryHandler(c.registry, c.pool, []item.Type{item.Tea, item.Coffee}, c.presences)
}

func (c *CompositionRoot) CreateAwaitOrderReadyQueryHandler() queries.AwaitOrderReadyQueryHandler {
	return queries.NewAwaitOrderReadyQueryHandler(c.registry)
}

// CreateTCPServer wires the line protocol server on the given address.
func (c *CompositionRoot) CreateTCPServer(addr string) *tcp.Server {
	handlers := tcp.Handlers{
		PlaceOrder:   c.CreatePlaceOrderCommandHandler(),
		CollectOrder: c.CreateCollectOrderCommandHandler(),
		CancelOrder:  c.CreateCancelOrderCommandHandler(),
		OrderStatus:  c.CreateGetOrderStatusQueryHandler(),
		AwaitReady:   c.CreateAwaitOrderReadyQueryHandler(),
	}
	return tcp.NewServer(addr, handlers, c.presences, c.logger)
}

// CreateHTTPServer wires the monitoring API. The audit route is only present
// when an audit store was configured.
func (c *CompositionRoot) CreateHTTPServer() (*cafehttp.Server, error) {
	cafeStateHandler, err := c.CreateGetCafeStateQueryHandler()
	if err != nil {
		return nil, err
	}

	var auditReader cafehttp.AuditReader
	if c.auditLog != nil {
		auditReader = c.auditLog
	}

	return cafehttp.NewServer(cafeStateHandler, c.CreateGetOrderStatusQueryHandler(), auditReader), nil
}

// CreateJobManager wires the background jobs. The audit job is only present
// when an audit store was configured.
func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	cafeStateHandler, err := c.CreateGetCafeStateQueryHandler()
	if err != nil {
		return nil, err
	}

	var auditLog ports.AuditLog
	if c.auditLog != nil {
		auditLog = c.auditLog
	}

	return jobs.NewJobManager(c.scheduler, cafeStateHandler, auditLog, c.config.AuditSchedule, c.logger), nil
}
