package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

type MemoryRepository struct {
	db *sql.DB
}

func NewMemoryRepository(db *sql.DB) *MemoryRepository {
	return &MemoryRepository{db: db}
}

const memoryColumns = `id, title, content, memory_type, tags, starred, metadata, created_at, updated_at`

func (r *MemoryRepository) Create(ctx context.Context, memory *domain.Memory) error {
	tagsJSON, err := json.Marshal(memory.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	metadataJSON, err := json.Marshal(memory.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO memories (`+memoryColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		memory.ID, memory.Title, memory.Content, string(memory.MemoryType),
		tagsJSON, memory.Starred, metadataJSON, memory.CreatedAt, memory.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert memory: %w", err)
	}
	return nil
}

func (r *MemoryRepository) List(ctx context.Context, filter domain.MemoryFilter) ([]domain.Memory, error) {
	query := `SELECT ` + memoryColumns + ` FROM memories`
	args := []any{}
	clauses := []string{}

	if filter.MemoryType != "" {
		args = append(args, string(filter.MemoryType))
		clauses = append(clauses, fmt.Sprintf("memory_type = $%d", len(args)))
	}
	if filter.Starred != nil {
		args = append(args, *filter.Starred)
		clauses = append(clauses, fmt.Sprintf("starred = $%d", len(args)))
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	return r.query(ctx, query, args...)
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.Memory, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+memoryColumns+` FROM memories WHERE id = $1`, id)
	memory, err := scanMemory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get memory", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("get memory: %w", err)
	}
	return &memory, nil
}

func (r *MemoryRepository) Update(ctx context.Context, memory *domain.Memory) error {
	tagsJSON, err := json.Marshal(memory.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
UPDATE memories
SET title = $2, content = $3, tags = $4, starred = $5, updated_at = $6
WHERE id = $1
`, memory.ID, memory.Title, memory.Content, tagsJSON, memory.Starred, memory.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update memory: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update memory rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrNotFound, "update memory", fmt.Errorf("id=%s", memory.ID))
	}
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM memories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete memory rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrNotFound, "delete memory", fmt.Errorf("id=%s", id))
	}
	return nil
}

func (r *MemoryRepository) Search(ctx context.Context, query string, limit int) ([]domain.Memory, error) {
	sqlQuery := `
SELECT ` + memoryColumns + `
FROM memories
WHERE title ILIKE $1 OR content ILIKE $1 OR tags::text ILIKE $1
ORDER BY created_at DESC
`
	args := []any{"%" + query + "%"}
	if limit > 0 {
		args = append(args, limit)
		sqlQuery += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	return r.query(ctx, sqlQuery, args...)
}

func (r *MemoryRepository) query(ctx context.Context, query string, args ...any) ([]domain.Memory, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Memory, 0)
	for rows.Next() {
		memory, err := scanMemory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, memory)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memories: %w", err)
	}
	return out, nil
}

func scanMemory(row rowScanner) (domain.Memory, error) {
	var memory domain.Memory
	var memoryType string
	var tagsRaw, metadataRaw []byte

	err := row.Scan(
		&memory.ID, &memory.Title, &memory.Content, &memoryType,
		&tagsRaw, &memory.Starred, &metadataRaw, &memory.CreatedAt, &memory.UpdatedAt,
	)
	if err != nil {
		return domain.Memory{}, err
	}
	if err := json.Unmarshal(tagsRaw, &memory.Tags); err != nil {
		return domain.Memory{}, fmt.Errorf("unmarshal tags: %w", err)
	}
	if err := json.Unmarshal(metadataRaw, &memory.Metadata); err != nil {
		return domain.Memory{}, fmt.Errorf("unmarshal metadata: %w", err)
	}
	memory.MemoryType = domain.MemoryType(memoryType)
	return memory, nil
}
