package localstore

import (
	"context"
	"fmt"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

type TaskRepository struct {
	store *Store
}

func NewTaskRepository(store *Store) *TaskRepository {
	return &TaskRepository{store: store}
}

func (r *TaskRepository) Create(_ context.Context, task *domain.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var tasks []domain.Task
	r.store.get(keyTasks, &tasks)
	tasks = append([]domain.Task{*task}, tasks...)
	return r.store.put(keyTasks, tasks)
}

func (r *TaskRepository) List(_ context.Context, limit int, status domain.TaskStatus) ([]domain.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var tasks []domain.Task
	r.store.get(keyTasks, &tasks)

	out := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if status != "" && task.Status != status {
			continue
		}
		out = append(out, task)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *TaskRepository) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var tasks []domain.Task
	r.store.get(keyTasks, &tasks)
	for _, task := range tasks {
		if task.ID == id {
			found := task
			return &found, nil
		}
	}
	return nil, domain.WrapError(domain.ErrNotFound, "get task", fmt.Errorf("id=%s", id))
}

// UpdateIfActive rewrites the stored task by id. The status check runs
// under the store lock: once a task is terminal no write lands, whether
// it is a late completion or a racing cancellation.
func (r *TaskRepository) UpdateIfActive(_ context.Context, task *domain.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var tasks []domain.Task
	r.store.get(keyTasks, &tasks)
	for i := range tasks {
		if tasks[i].ID != task.ID {
			continue
		}
		if tasks[i].Status.Terminal() {
			return domain.WrapError(domain.ErrInvalidInput, "update task", fmt.Errorf("task already %s", tasks[i].Status))
		}
		tasks[i] = *task
		return r.store.put(keyTasks, tasks)
	}
	return domain.WrapError(domain.ErrNotFound, "update task", fmt.Errorf("id=%s", task.ID))
}
