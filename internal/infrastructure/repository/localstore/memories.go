package localstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

type MemoryRepository struct {
	store *Store
}

func NewMemoryRepository(store *Store) *MemoryRepository {
	return &MemoryRepository{store: store}
}

func (r *MemoryRepository) Create(_ context.Context, memory *domain.Memory) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var memories []domain.Memory
	r.store.get(keyMemories, &memories)
	memories = append([]domain.Memory{*memory}, memories...)
	return r.store.put(keyMemories, memories)
}

func (r *MemoryRepository) List(_ context.Context, filter domain.MemoryFilter) ([]domain.Memory, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var memories []domain.Memory
	r.store.get(keyMemories, &memories)

	out := make([]domain.Memory, 0, len(memories))
	for _, memory := range memories {
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

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*domain.Memory, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var memories []domain.Memory
	r.store.get(keyMemories, &memories)
	for _, memory := range memories {
		if memory.ID == id {
			found := memory
			return &found, nil
		}
	}
	return nil, domain.WrapError(domain.ErrNotFound, "get memory", fmt.Errorf("id=%s", id))
}

func (r *MemoryRepository) Update(_ context.Context, memory *domain.Memory) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var memories []domain.Memory
	r.store.get(keyMemories, &memories)
	for i := range memories {
		if memories[i].ID == memory.ID {
			memories[i] = *memory
			return r.store.put(keyMemories, memories)
		}
	}
	return domain.WrapError(domain.ErrNotFound, "update memory", fmt.Errorf("id=%s", memory.ID))
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var memories []domain.Memory
	r.store.get(keyMemories, &memories)

	kept := memories[:0]
	removed := false
	for _, memory := range memories {
		if memory.ID == id {
			removed = true
			continue
		}
		kept = append(kept, memory)
	}
	if !removed {
		return domain.WrapError(domain.ErrNotFound, "delete memory", fmt.Errorf("id=%s", id))
	}
	return r.store.put(keyMemories, kept)
}

func (r *MemoryRepository) Search(_ context.Context, query string, limit int) ([]domain.Memory, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var memories []domain.Memory
	r.store.get(keyMemories, &memories)

	needle := strings.ToLower(query)
	out := make([]domain.Memory, 0, limit)
	for _, memory := range memories {
		if needle != "" && !memoryMatches(memory, needle) {
			continue
		}
		out = append(out, memory)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func memoryMatches(memory domain.Memory, needle string) bool {
	if strings.Contains(strings.ToLower(memory.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(memory.Content), needle) {
		return true
	}
	for _, tag := range memory.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}
