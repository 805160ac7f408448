package ports

import (
	"context"
	"io"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

// AuthService is the inbound contract for sessions and the demo user.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*domain.SessionGrant, error)
	CreateSession(ctx context.Context) (*domain.SessionGrant, error)
	CurrentSession(ctx context.Context, token string) (*domain.Session, *domain.User, error)
	Logout(ctx context.Context, token string) error
	UserSettings(ctx context.Context) (*domain.UserSettings, error)
	UpdateUserSettings(ctx context.Context, settings domain.UserSettings) error
	CleanupExpiredSessions(ctx context.Context) (int, error)
}

// DocumentService is the inbound contract for the document library.
type DocumentService interface {
	List(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error)
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	Upload(ctx context.Context, file domain.FileMeta, body io.Reader, category domain.DocumentCategory, tags []string, autoCategorize bool) (*domain.Document, error)
	Search(ctx context.Context, query string, filter domain.DocumentFilter) ([]domain.SearchResult, error)
	Delete(ctx context.Context, id string) error
	// Open returns the document record and its stored bytes for download.
	Open(ctx context.Context, id string) (*domain.Document, io.ReadCloser, error)
}

// ActionService starts simulated multi-document actions.
type ActionService interface {
	PerformAction(ctx context.Context, action string, documentIDs []string, parameters map[string]any) (*domain.ActionReceipt, error)
}

// TaskProcessor completes a started task; the worker and the inline
// scheduler both drive it.
type TaskProcessor interface {
	ProcessByID(ctx context.Context, taskID string) error
}

// VoiceService classifies free-text commands.
type VoiceService interface {
	ProcessCommand(ctx context.Context, cmd domain.VoiceCommand) (*domain.VoiceResult, error)
	Transcribe(ctx context.Context) (string, error)
}

// MemoryService manages user-curated memories.
type MemoryService interface {
	Create(ctx context.Context, title, content string, memoryType domain.MemoryType, tags []string, starred bool) (*domain.Memory, error)
	List(ctx context.Context, filter domain.MemoryFilter) ([]domain.Memory, error)
	GetByID(ctx context.Context, id string) (*domain.Memory, error)
	Update(ctx context.Context, id string, patch domain.MemoryPatch) (*domain.Memory, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string, limit int) ([]domain.Memory, error)
}

// ActivityService reads the activity feed.
type ActivityService interface {
	List(ctx context.Context, limit int, activityType domain.ActivityType) ([]domain.Activity, error)
	Summary(ctx context.Context, days int) (*domain.ActivitySummary, error)
}

// TaskService reads and cancels tasks.
type TaskService interface {
	List(ctx context.Context, limit int, status domain.TaskStatus) ([]domain.Task, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	Cancel(ctx context.Context, id string) (*domain.Task, error)
}
