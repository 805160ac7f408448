package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, task_type, status, progress, document_ids, result, error_message, created_at, updated_at`

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	docIDsJSON, resultJSON, err := encodeTask(task)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO tasks (`+taskColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		task.ID, task.TaskType, string(task.Status), task.Progress,
		docIDsJSON, resultJSON, task.Error, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) List(ctx context.Context, limit int, status domain.TaskStatus) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	args := []any{}
	if status != "" {
		args = append(args, string(status))
		query += fmt.Sprintf(` WHERE status = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return out, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get task", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &task, nil
}

// UpdateIfActive writes the task conditionally: the WHERE clause skips
// rows already in a terminal state, so the guard holds even with several
// api or worker processes racing on the same row.
func (r *TaskRepository) UpdateIfActive(ctx context.Context, task *domain.Task) error {
	docIDsJSON, resultJSON, err := encodeTask(task)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `
UPDATE tasks
SET status = $2, progress = $3, document_ids = $4, result = $5, error_message = $6, updated_at = $7
WHERE id = $1 AND status NOT IN ('completed', 'failed', 'cancelled')
`, task.ID, string(task.Status), task.Progress, docIDsJSON, resultJSON, task.Error, task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task rows affected: %w", err)
	}
	if rows == 0 {
		if _, getErr := r.GetByID(ctx, task.ID); getErr != nil {
			return getErr
		}
		return domain.WrapError(domain.ErrInvalidInput, "update task", fmt.Errorf("task %s already terminal", task.ID))
	}
	return nil
}

func encodeTask(task *domain.Task) ([]byte, []byte, error) {
	docIDs := task.DocumentIDs
	if docIDs == nil {
		docIDs = []string{}
	}
	docIDsJSON, err := json.Marshal(docIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal document ids: %w", err)
	}
	var resultJSON []byte
	if task.Result != nil {
		resultJSON, err = json.Marshal(task.Result)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal result: %w", err)
		}
	}
	return docIDsJSON, resultJSON, nil
}

func scanTask(row rowScanner) (domain.Task, error) {
	var task domain.Task
	var status string
	var docIDsRaw, resultRaw []byte

	err := row.Scan(
		&task.ID, &task.TaskType, &status, &task.Progress,
		&docIDsRaw, &resultRaw, &task.Error, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return domain.Task{}, err
	}
	if err := json.Unmarshal(docIDsRaw, &task.DocumentIDs); err != nil {
		return domain.Task{}, fmt.Errorf("unmarshal document ids: %w", err)
	}
	if len(resultRaw) > 0 {
		var result domain.TaskResult
		if err := json.Unmarshal(resultRaw, &result); err != nil {
			return domain.Task{}, fmt.Errorf("unmarshal result: %w", err)
		}
		task.Result = &result
	}
	task.Status = domain.TaskStatus(status)
	return task, nil
}
