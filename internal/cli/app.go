package cli

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/telecom-tracker/internal/config"
	"github.com/spec-kit/telecom-tracker/internal/events"
	"github.com/spec-kit/telecom-tracker/internal/observability"
	"github.com/spec-kit/telecom-tracker/internal/persistence"
	"github.com/spec-kit/telecom-tracker/internal/repository"
	"github.com/spec-kit/telecom-tracker/internal/service"
	apperrors "github.com/spec-kit/telecom-tracker/pkg/util"
)

// App holds the wired services for one process run.
type App struct {
	Logger      *zap.Logger
	Metrics     *observability.Metrics
	Customers   *service.CustomerService
	Technicians *service.TechnicianService
	Complaints  *service.ComplaintService
	Assignments *service.AssignmentService
	Statuses    *service.StatusService

	pg    *persistence.Postgres
	redis *persistence.Redis
}

// Bootstrap loads configuration, connects storage and wires the services.
// A storage failure here is fatal.
func Bootstrap(ctx context.Context, forceMigrations bool) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, err
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}

	if cfg.Postgres.RunMigrations || forceMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)

	dispatcher := events.NewInMemoryDispatcher()
	var stream service.StreamPublisher
	if redis != nil {
		stream = redis
	}
	service.NewNotificationService(dispatcher, stream, logger, cfg.Events).RegisterHandlers()

	store := repository.NewStore(pg.PoolHandle())
	repos := store.Repos()

	logger.Info("tracker ready",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", cfg.App.Version))

	return &App{
		Logger:  logger,
		Metrics: observability.NewMetrics(),
		Customers: service.NewCustomerService(service.CustomerDependencies{
			CustomerRepo: repos.Customers,
			Dispatcher:   dispatcher,
			Logger:       logger,
		}),
		Technicians: service.NewTechnicianService(service.TechnicianDependencies{
			TechnicianRepo: repos.Technicians,
			Dispatcher:     dispatcher,
			Logger:         logger,
		}),
		Complaints: service.NewComplaintService(service.ComplaintDependencies{
			CustomerRepo:   repos.Customers,
			ComplaintRepo:  repos.Complaints,
			AssignmentRepo: repos.Assignments,
			Dispatcher:     dispatcher,
			Logger:         logger,
		}),
		Assignments: service.NewAssignmentService(service.AssignmentDependencies{
			Tx:         store,
			Dispatcher: dispatcher,
			Logger:     logger,
		}),
		Statuses: service.NewStatusService(service.StatusDependencies{
			Tx:         store,
			Dispatcher: dispatcher,
			Logger:     logger,
		}),
		pg:    pg,
		redis: redis,
	}, nil
}

// Close logs the action summary and releases connections.
func (a *App) Close() {
	if a == nil {
		return
	}
	a.Metrics.LogSummary(a.Logger)
	a.redis.Close()
	if a.pg != nil {
		a.pg.Close()
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
}

// track runs fn and records its outcome under action.
func (a *App) track(action string, fn func() error) error {
	start := time.Now()
	err := fn()
	a.Metrics.RecordAction(action, outcomeOf(err), time.Since(start))
	return err
}

func outcomeOf(err error) observability.Outcome {
	var derr *apperrors.DomainError
	switch {
	case err == nil:
		return observability.OutcomeOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, io.EOF):
		return observability.OutcomeCanceled
	case apperrors.HasCode(err, apperrors.CodeStorageUnavailable):
		return observability.OutcomeFailed
	case errors.As(err, &derr):
		return observability.OutcomeRejected
	default:
		return observability.OutcomeFailed
	}
}
