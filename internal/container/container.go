package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-scheduler/config"
	"github.com/oksasatya/go-ddd-scheduler/internal/application"
	"github.com/oksasatya/go-ddd-scheduler/internal/application/dto"
	repo "github.com/oksasatya/go-ddd-scheduler/internal/domain/repository"
	"github.com/oksasatya/go-ddd-scheduler/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-scheduler/internal/infrastructure/redislock"
)

// Container holds the constructed components of one process. It is built
// once in main and passed down explicitly.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	Store  repo.Store
	Redis  *redis.Client // nil when Redis is not used

	Validator *dto.Validator
	Sync      *application.Synchronizer
	Users     *application.UserService
	Events    *application.EventService
}

// Deps are the infrastructure handles main has opened.
type Deps struct {
	Config *config.Config
	Logger *logrus.Logger
	Store  repo.Store
	Redis  *redis.Client
	Repair application.RepairPublisher
}

func New(d Deps) *Container {
	cfg := d.Config
	debug := !cfg.IsProduction()
	users, events := d.Store.Users(), d.Store.Events()

	v := dto.NewValidator()
	sync := application.NewSynchronizer(users, events, d.Logger, d.Repair)
	conflicts := application.NewConflictDetector(events, application.ParseOverlapMode(cfg.ScheduleOverlapMode))

	return &Container{
		Config:    cfg,
		Logger:    d.Logger,
		Store:     d.Store,
		Redis:     d.Redis,
		Validator: v,
		Sync:      sync,
		Users:     application.NewUserService(users, events, v, d.Logger, debug),
		Events:    application.NewEventService(events, sync, conflicts, newLocker(cfg, d.Redis, d.Logger), v, d.Logger, debug),
	}
}

// newLocker picks the scheduling lock. "redis" falls back to an in-process
// lock when no client is available.
func newLocker(cfg *config.Config, rdb *redis.Client, logger *logrus.Logger) application.Locker {
	switch cfg.ScheduleLock {
	case "redis":
		if rdb != nil {
			return redislock.New(rdb, cfg.ScheduleLockTTL, logger)
		}
		logger.Warn("SCHEDULE_LOCK=redis without redis; using process-local lock")
		return memory.NewLocalLocker()
	case "local":
		return memory.NewLocalLocker()
	default:
		return application.NopLocker{}
	}
}
