package localstore

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

//go:embed seed.yaml
var seedYAML []byte

// Demo fixtures are authored in YAML and mirrored into domain records.
// Each collection seeds only when its key is absent, so user edits survive
// restarts.

type seedFile struct {
	User       seedUser       `yaml:"user"`
	Documents  []seedDocument `yaml:"documents"`
	Activities []seedActivity `yaml:"activities"`
	Memories   []seedMemory   `yaml:"memories"`
	Tasks      []seedTask     `yaml:"tasks"`
}

type seedUser struct {
	ID        string    `yaml:"id"`
	Username  string    `yaml:"username"`
	CreatedAt time.Time `yaml:"created_at"`
	Settings  struct {
		Theme          string `yaml:"theme"`
		Notifications  bool   `yaml:"notifications"`
		AutoCategorize bool   `yaml:"auto_categorize"`
	} `yaml:"settings"`
}

type seedDocument struct {
	ID               string    `yaml:"id"`
	Filename         string    `yaml:"filename"`
	OriginalFilename string    `yaml:"original_filename"`
	FileSize         int64     `yaml:"file_size"`
	FileType         string    `yaml:"file_type"`
	MimeType         string    `yaml:"mime_type"`
	Category         string    `yaml:"category"`
	Status           string    `yaml:"status"`
	Tags             []string  `yaml:"tags"`
	CreatedAt        time.Time `yaml:"created_at"`
	UpdatedAt        time.Time `yaml:"updated_at"`
	ExtractedText    string    `yaml:"extracted_text"`
	ContentSummary   string    `yaml:"content_summary"`
}

type seedActivity struct {
	ID               string         `yaml:"id"`
	Action           string         `yaml:"action"`
	Description      string         `yaml:"description"`
	ActivityType     string         `yaml:"activity_type"`
	Actor            string         `yaml:"actor"`
	Files            []string       `yaml:"files"`
	UserConfirmation *string        `yaml:"user_confirmation"`
	CreatedAt        time.Time      `yaml:"created_at"`
	Metadata         map[string]any `yaml:"metadata"`
}

type seedMemory struct {
	ID         string         `yaml:"id"`
	Title      string         `yaml:"title"`
	Content    string         `yaml:"content"`
	MemoryType string         `yaml:"memory_type"`
	Tags       []string       `yaml:"tags"`
	Starred    bool           `yaml:"starred"`
	CreatedAt  time.Time      `yaml:"created_at"`
	UpdatedAt  time.Time      `yaml:"updated_at"`
	Metadata   map[string]any `yaml:"metadata"`
}

type seedTask struct {
	ID        string    `yaml:"id"`
	TaskType  string    `yaml:"task_type"`
	Status    string    `yaml:"status"`
	Progress  float64   `yaml:"progress"`
	CreatedAt time.Time `yaml:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at"`
	Result    *struct {
		Action    string `yaml:"action"`
		Message   string `yaml:"message"`
		Documents int    `yaml:"documents"`
	} `yaml:"result"`
	Error *string `yaml:"error"`
}

func (s *Store) seed() error {
	var fixtures seedFile
	if err := yaml.Unmarshal(seedYAML, &fixtures); err != nil {
		return fmt.Errorf("decode seed fixtures: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.has(keyDocuments) {
		docs := make([]domain.Document, 0, len(fixtures.Documents))
		for _, d := range fixtures.Documents {
			tags := d.Tags
			if tags == nil {
				tags = []string{}
			}
			docs = append(docs, domain.Document{
				ID:               d.ID,
				Filename:         d.Filename,
				OriginalFilename: d.OriginalFilename,
				StoragePath:      d.Filename,
				FileSize:         d.FileSize,
				FileType:         d.FileType,
				MimeType:         d.MimeType,
				Category:         domain.DocumentCategory(d.Category),
				Status:           domain.DocumentStatus(d.Status),
				Tags:             tags,
				CreatedAt:        d.CreatedAt,
				UpdatedAt:        d.UpdatedAt,
				ExtractedText:    d.ExtractedText,
				ContentSummary:   d.ContentSummary,
			})
		}
		if err := s.put(keyDocuments, docs); err != nil {
			return err
		}
	}

	if !s.has(keyActivities) {
		activities := make([]domain.Activity, 0, len(fixtures.Activities))
		for _, a := range fixtures.Activities {
			metadata := a.Metadata
			if metadata == nil {
				metadata = map[string]any{}
			}
			files := a.Files
			if files == nil {
				files = []string{}
			}
			activities = append(activities, domain.Activity{
				ID:               a.ID,
				Action:           a.Action,
				Description:      a.Description,
				ActivityType:     domain.ActivityType(a.ActivityType),
				Actor:            domain.Actor(a.Actor),
				Files:            files,
				UserConfirmation: a.UserConfirmation,
				CreatedAt:        a.CreatedAt,
				Metadata:         metadata,
			})
		}
		if err := s.put(keyActivities, activities); err != nil {
			return err
		}
	}

	if !s.has(keyMemories) {
		memories := make([]domain.Memory, 0, len(fixtures.Memories))
		for _, m := range fixtures.Memories {
			metadata := m.Metadata
			if metadata == nil {
				metadata = map[string]any{}
			}
			tags := m.Tags
			if tags == nil {
				tags = []string{}
			}
			memories = append(memories, domain.Memory{
				ID:         m.ID,
				Title:      m.Title,
				Content:    m.Content,
				MemoryType: domain.MemoryType(m.MemoryType),
				Tags:       tags,
				Starred:    m.Starred,
				CreatedAt:  m.CreatedAt,
				UpdatedAt:  m.UpdatedAt,
				Metadata:   metadata,
			})
		}
		if err := s.put(keyMemories, memories); err != nil {
			return err
		}
	}

	if !s.has(keyTasks) {
		tasks := make([]domain.Task, 0, len(fixtures.Tasks))
		for _, t := range fixtures.Tasks {
			task := domain.Task{
				ID:        t.ID,
				TaskType:  t.TaskType,
				Status:    domain.TaskStatus(t.Status),
				Progress:  t.Progress,
				CreatedAt: t.CreatedAt,
				UpdatedAt: t.UpdatedAt,
				Error:     t.Error,
			}
			if t.Result != nil {
				task.Result = &domain.TaskResult{
					Action:    t.Result.Action,
					Message:   t.Result.Message,
					Documents: t.Result.Documents,
				}
			}
			tasks = append(tasks, task)
		}
		if err := s.put(keyTasks, tasks); err != nil {
			return err
		}
	}

	if !s.has(keyUser) {
		user := domain.User{
			ID:        fixtures.User.ID,
			Username:  fixtures.User.Username,
			CreatedAt: fixtures.User.CreatedAt,
			Settings: domain.UserSettings{
				Theme:          fixtures.User.Settings.Theme,
				Notifications:  fixtures.User.Settings.Notifications,
				AutoCategorize: fixtures.User.Settings.AutoCategorize,
			},
		}
		if err := s.put(keyUser, user); err != nil {
			return err
		}
	}

	if !s.has(keySessions) {
		if err := s.put(keySessions, []domain.Session{}); err != nil {
			return err
		}
	}

	return nil
}
