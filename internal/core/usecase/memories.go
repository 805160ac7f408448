package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
	"github.com/fileclerk/fileclerkai/internal/core/ports"
)

type MemoriesUseCase struct {
	memories ports.MemoryRepository
}

func NewMemoriesUseCase(memories ports.MemoryRepository) *MemoriesUseCase {
	return &MemoriesUseCase{memories: memories}
}

func (uc *MemoriesUseCase) Create(
	ctx context.Context,
	title, content string,
	memoryType domain.MemoryType,
	tags []string,
	starred bool,
) (*domain.Memory, error) {
	if title == "" || content == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "create memory", errors.New("title and content are required"))
	}
	if tags == nil {
		tags = []string{}
	}

	now := time.Now().UTC()
	memory := &domain.Memory{
		ID:         uuid.NewString(),
		Title:      title,
		Content:    content,
		MemoryType: memoryType,
		Tags:       tags,
		Starred:    starred,
		CreatedAt:  now,
		UpdatedAt:  now,
		Metadata:   map[string]any{},
	}
	if err := uc.memories.Create(ctx, memory); err != nil {
		return nil, fmt.Errorf("create memory: %w", err)
	}
	return memory, nil
}

func (uc *MemoriesUseCase) List(ctx context.Context, filter domain.MemoryFilter) ([]domain.Memory, error) {
	memories, err := uc.memories.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	return memories, nil
}

func (uc *MemoriesUseCase) GetByID(ctx context.Context, id string) (*domain.Memory, error) {
	memory, err := uc.memories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get memory: %w", err)
	}
	return memory, nil
}

func (uc *MemoriesUseCase) Update(ctx context.Context, id string, patch domain.MemoryPatch) (*domain.Memory, error) {
	memory, err := uc.memories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get memory: %w", err)
	}

	if patch.Title != nil {
		memory.Title = *patch.Title
	}
	if patch.Content != nil {
		memory.Content = *patch.Content
	}
	if patch.Tags != nil {
		memory.Tags = patch.Tags
	}
	if patch.Starred != nil {
		memory.Starred = *patch.Starred
	}
	memory.UpdatedAt = time.Now().UTC()

	if err := uc.memories.Update(ctx, memory); err != nil {
		return nil, fmt.Errorf("update memory: %w", err)
	}
	return memory, nil
}

func (uc *MemoriesUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.memories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	return nil
}

func (uc *MemoriesUseCase) Search(ctx context.Context, query string, limit int) ([]domain.Memory, error) {
	if limit <= 0 {
		limit = 20
	}
	memories, err := uc.memories.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search memories: %w", err)
	}
	return memories, nil
}
