package ports

import (
	"context"
	"io"
	"time"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

// DocumentRepository persists document state. Listings are newest first.
type DocumentRepository interface {
	List(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error)
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Document, error)
	// CreateWithActivity writes the document and its correlated activity
	// as one store commit.
	CreateWithActivity(ctx context.Context, doc *domain.Document, activity *domain.Activity) error
	Delete(ctx context.Context, id string) error
}

// ActivityRepository is the append-only activity log.
type ActivityRepository interface {
	Append(ctx context.Context, activity *domain.Activity) error
	List(ctx context.Context, limit int, activityType domain.ActivityType) ([]domain.Activity, error)
	ListSince(ctx context.Context, since time.Time) ([]domain.Activity, error)
}

// MemoryRepository persists user-curated memories.
type MemoryRepository interface {
	Create(ctx context.Context, memory *domain.Memory) error
	List(ctx context.Context, filter domain.MemoryFilter) ([]domain.Memory, error)
	GetByID(ctx context.Context, id string) (*domain.Memory, error)
	Update(ctx context.Context, memory *domain.Memory) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string, limit int) ([]domain.Memory, error)
}

// TaskRepository persists task lifecycle state.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	List(ctx context.Context, limit int, status domain.TaskStatus) ([]domain.Task, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// UpdateIfActive writes the task only while the stored status is
	// still non-terminal. Terminal states are final: a cancellation and
	// a completion can never overwrite each other.
	UpdateIfActive(ctx context.Context, task *domain.Task) error
}

// UserRepository holds the single demo user record.
type UserRepository interface {
	GetUser(ctx context.Context) (*domain.User, error)
	UpdateSettings(ctx context.Context, settings domain.UserSettings) error
}

// SessionRepository persists bearer-token sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// TaskQueue carries task-created events to the completion side.
type TaskQueue interface {
	PublishTaskCreated(ctx context.Context, taskID string) error
	SubscribeTaskCreated(ctx context.Context, handler func(context.Context, string) error) error
}

// CompletionCanceller is implemented by queue drivers that can drop a
// scheduled completion before it fires.
type CompletionCanceller interface {
	CancelPending(taskID string) bool
}

// ObjectStorage stores uploaded file bytes. Contents are opaque.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
