// Package bootstrap assembles the application from config: store and queue
// drivers are selected here so cmd binaries stay wiring-free.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/fileclerk/fileclerkai/internal/config"
	"github.com/fileclerk/fileclerkai/internal/core/domain"
	"github.com/fileclerk/fileclerkai/internal/core/ports"
	"github.com/fileclerk/fileclerkai/internal/core/usecase"
	"github.com/fileclerk/fileclerkai/internal/infrastructure/queue/inline"
	"github.com/fileclerk/fileclerkai/internal/infrastructure/queue/nats"
	"github.com/fileclerk/fileclerkai/internal/infrastructure/repository/localstore"
	"github.com/fileclerk/fileclerkai/internal/infrastructure/repository/postgres"
	"github.com/fileclerk/fileclerkai/internal/infrastructure/resilience"
	"github.com/fileclerk/fileclerkai/internal/infrastructure/storage/localfs"
)

type repositories struct {
	docs       ports.DocumentRepository
	activities ports.ActivityRepository
	memories   ports.MemoryRepository
	tasks      ports.TaskRepository
	users      ports.UserRepository
	sessions   ports.SessionRepository
}

type App struct {
	Config config.Config

	Auth       ports.AuthService
	Documents  ports.DocumentService
	Actions    ports.ActionService
	Voice      ports.VoiceService
	Memories   ports.MemoryService
	Activities ports.ActivityService
	Tasks      ports.TaskService

	Queue     ports.TaskQueue
	Processor ports.TaskProcessor

	closeFns []func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg}

	repos, err := app.openRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	delay := time.Duration(cfg.TaskCompletionDelayMS) * time.Millisecond
	app.Processor = usecase.NewProcessTaskUseCase(repos.tasks, delay)

	canceller, err := app.openQueue(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Auth = usecase.NewAuthUseCase(repos.users, repos.sessions)
	app.Documents = usecase.NewDocumentsUseCase(repos.docs, repos.activities, storage)
	app.Actions = usecase.NewActionsUseCase(repos.docs, repos.tasks, repos.activities, app.Queue)
	app.Voice = usecase.NewVoiceUseCase(repos.docs, repos.activities, cfg.DemoTranscription)
	app.Memories = usecase.NewMemoriesUseCase(repos.memories)
	app.Activities = usecase.NewActivitiesUseCase(repos.activities)
	app.Tasks = usecase.NewTasksUseCase(repos.tasks, canceller)

	return app, nil
}

func (a *App) openRepositories(ctx context.Context, cfg config.Config) (*repositories, error) {
	switch cfg.StoreDriver {
	case "postgres":
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		a.closeFns = append(a.closeFns, func() { _ = db.Close() })

		if err := postgres.EnsureSchema(ctx, db); err != nil {
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		users := postgres.NewUserRepository(db)
		if err := users.SeedDemoUser(ctx, demoUser()); err != nil {
			return nil, fmt.Errorf("seed demo user: %w", err)
		}

		return &repositories{
			docs:       postgres.NewDocumentRepository(db),
			activities: postgres.NewActivityRepository(db),
			memories:   postgres.NewMemoryRepository(db),
			tasks:      postgres.NewTaskRepository(db),
			users:      users,
			sessions:   postgres.NewSessionRepository(db),
		}, nil

	case "local", "":
		store, err := localstore.Open(cfg.LocalStorePath)
		if err != nil {
			return nil, fmt.Errorf("open local store: %w", err)
		}
		return &repositories{
			docs:       localstore.NewDocumentRepository(store),
			activities: localstore.NewActivityRepository(store),
			memories:   localstore.NewMemoryRepository(store),
			tasks:      localstore.NewTaskRepository(store),
			users:      localstore.NewUserRepository(store),
			sessions:   localstore.NewSessionRepository(store),
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// openQueue selects the completion transport. The inline scheduler is the
// only driver that can drop a scheduled completion before it fires, so it
// doubles as the canceller; the NATS worker relies on the fire-time status
// re-read instead.
func (a *App) openQueue(cfg config.Config) (ports.CompletionCanceller, error) {
	switch cfg.QueueDriver {
	case "nats":
		queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
			ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
		})
		if err != nil {
			return nil, fmt.Errorf("init nats queue: %w", err)
		}
		a.closeFns = append(a.closeFns, queue.Close)
		a.Queue = queue
		return nil, nil

	case "inline", "":
		scheduler := inline.NewScheduler()
		scheduler.Bind(a.Processor)
		a.closeFns = append(a.closeFns, scheduler.Shutdown)
		a.Queue = scheduler
		return scheduler, nil

	default:
		return nil, fmt.Errorf("unknown queue driver %q", cfg.QueueDriver)
	}
}

func demoUser() *domain.User {
	return &domain.User{
		ID:        "demo_user",
		Username:  "demo_user",
		CreatedAt: time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC),
		Settings: domain.UserSettings{
			Theme:          "light",
			Notifications:  true,
			AutoCategorize: true,
		},
	}
}

// Close releases drivers in reverse acquisition order.
func (a *App) Close() {
	for i := len(a.closeFns) - 1; i >= 0; i-- {
		a.closeFns[i]()
	}
	a.closeFns = nil
}
