package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

type memoryRepoFake struct {
	memories  map[string]domain.Memory
	lastLimit int
}

func newMemoryRepoFake() *memoryRepoFake {
	return &memoryRepoFake{memories: map[string]domain.Memory{}}
}

func (f *memoryRepoFake) Create(_ context.Context, memory *domain.Memory) error {
	f.memories[memory.ID] = *memory
	return nil
}

func (f *memoryRepoFake) List(_ context.Context, filter domain.MemoryFilter) ([]domain.Memory, error) {
	out := make([]domain.Memory, 0, len(f.memories))
	for _, memory := range f.memories {
		if filter.MemoryType != "" && memory.MemoryType != filter.MemoryType {
			continue
		}
		if filter.Starred != nil && memory.Starred != *filter.Starred {
			continue
		}
		out = append(out, memory)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *memoryRepoFake) GetByID(_ context.Context, id string) (*domain.Memory, error) {
	memory, ok := f.memories[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get memory", domain.ErrNotFound)
	}
	return &memory, nil
}

func (f *memoryRepoFake) Update(_ context.Context, memory *domain.Memory) error {
	if _, ok := f.memories[memory.ID]; !ok {
		return domain.WrapError(domain.ErrNotFound, "update memory", domain.ErrNotFound)
	}
	f.memories[memory.ID] = *memory
	return nil
}

func (f *memoryRepoFake) Delete(_ context.Context, id string) error {
	if _, ok := f.memories[id]; !ok {
		return domain.WrapError(domain.ErrNotFound, "delete memory", domain.ErrNotFound)
	}
	delete(f.memories, id)
	return nil
}

func (f *memoryRepoFake) Search(_ context.Context, query string, limit int) ([]domain.Memory, error) {
	f.lastLimit = limit
	needle := strings.ToLower(query)
	out := []domain.Memory{}
	for _, memory := range f.memories {
		if strings.Contains(strings.ToLower(memory.Title), needle) || strings.Contains(strings.ToLower(memory.Content), needle) {
			out = append(out, memory)
		}
	}
	return out, nil
}

func TestCreateMemoryPopulatesDefaults(t *testing.T) {
	repo := newMemoryRepoFake()
	uc := NewMemoriesUseCase(repo)

	memory, err := uc.Create(context.Background(), "Renewal", "Contract renews in March", domain.MemoryBookmark, nil, true)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if memory.ID == "" {
		t.Fatalf("expected generated id")
	}
	if memory.Tags == nil || len(memory.Tags) != 0 {
		t.Fatalf("expected empty tag slice, got %v", memory.Tags)
	}
	if memory.Metadata == nil {
		t.Fatalf("expected metadata map")
	}
	if memory.CreatedAt.IsZero() || !memory.CreatedAt.Equal(memory.UpdatedAt) {
		t.Fatalf("expected matching created/updated stamps")
	}
}

func TestCreateMemoryRequiresTitleAndContent(t *testing.T) {
	uc := NewMemoriesUseCase(newMemoryRepoFake())

	if _, err := uc.Create(context.Background(), "", "content", domain.MemorySummary, nil, false); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for missing title, got %v", err)
	}
	if _, err := uc.Create(context.Background(), "title", "", domain.MemorySummary, nil, false); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for missing content, got %v", err)
	}
}

func TestUpdateMemoryLeavesUnsetFields(t *testing.T) {
	repo := newMemoryRepoFake()
	uc := NewMemoriesUseCase(repo)

	created, err := uc.Create(context.Background(), "Old title", "Old content", domain.MemoryRoutine, []string{"keep"}, false)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	newTitle := "New title"
	starred := true
	updated, err := uc.Update(context.Background(), created.ID, domain.MemoryPatch{Title: &newTitle, Starred: &starred})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "New title" || !updated.Starred {
		t.Fatalf("patched fields not applied: %+v", updated)
	}
	if updated.Content != "Old content" {
		t.Fatalf("unset content must stay, got %q", updated.Content)
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "keep" {
		t.Fatalf("unset tags must stay, got %v", updated.Tags)
	}
}

func TestUpdateMemoryUnknownID(t *testing.T) {
	uc := NewMemoriesUseCase(newMemoryRepoFake())

	title := "x"
	_, err := uc.Update(context.Background(), "missing", domain.MemoryPatch{Title: &title})
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected not found kind, got %v", err)
	}
}

func TestSearchMemoriesDefaultLimit(t *testing.T) {
	repo := newMemoryRepoFake()
	uc := NewMemoriesUseCase(repo)

	if _, err := uc.Search(context.Background(), "anything", 0); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if repo.lastLimit != 20 {
		t.Fatalf("expected default limit of 20, got %d", repo.lastLimit)
	}
}
