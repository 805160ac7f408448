package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = `id, filename, original_filename, storage_path, file_size, file_type, mime_type, category, status, tags, extracted_text, content_summary, created_at, updated_at`

func (r *DocumentRepository) List(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents`
	args := []any{}
	where := ""

	if filter.Category != "" {
		args = append(args, string(filter.Category))
		where = fmt.Sprintf(" WHERE category = $%d", len(args))
	}
	query += where + ` ORDER BY created_at DESC`
	if filter.Limit > 0 && len(filter.Categories) == 0 && len(filter.Tags) == 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		if len(filter.Categories) > 0 && !categoryIn(filter.Categories, doc.Category) {
			continue
		}
		if len(filter.Tags) > 0 && !tagOverlap(doc.Tags, filter.Tags) {
			continue
		}
		out = append(out, doc)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get document", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Document, error) {
	if len(ids) == 0 {
		return []domain.Document{}, nil
	}
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("marshal ids: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE id IN (SELECT jsonb_array_elements_text($1::jsonb))
ORDER BY created_at DESC
`, idsJSON)
	if err != nil {
		return nil, fmt.Errorf("get documents by ids: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Document, 0, len(ids))
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

// CreateWithActivity inserts the document and its upload activity in one
// transaction.
func (r *DocumentRepository) CreateWithActivity(ctx context.Context, doc *domain.Document, activity *domain.Activity) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	tagsJSON, err := json.Marshal(doc.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO documents (`+documentColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
`,
		doc.ID, doc.Filename, doc.OriginalFilename, doc.StoragePath, doc.FileSize, doc.FileType,
		doc.MimeType, string(doc.Category), string(doc.Status), tagsJSON,
		doc.ExtractedText, doc.ContentSummary, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	if activity != nil {
		if err := insertActivity(ctx, tx, activity); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create tx: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrNotFound, "delete document", fmt.Errorf("id=%s", id))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (domain.Document, error) {
	var doc domain.Document
	var category, status string
	var tagsRaw []byte
	var extracted, summary sql.NullString

	err := row.Scan(
		&doc.ID, &doc.Filename, &doc.OriginalFilename, &doc.StoragePath, &doc.FileSize, &doc.FileType,
		&doc.MimeType, &category, &status, &tagsRaw, &extracted, &summary, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return domain.Document{}, err
	}
	if err := json.Unmarshal(tagsRaw, &doc.Tags); err != nil {
		return domain.Document{}, fmt.Errorf("unmarshal tags: %w", err)
	}
	doc.Category = domain.DocumentCategory(category)
	doc.Status = domain.DocumentStatus(status)
	doc.ExtractedText = extracted.String
	doc.ContentSummary = summary.String
	return doc, nil
}

func categoryIn(categories []domain.DocumentCategory, category domain.DocumentCategory) bool {
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}

func tagOverlap(docTags, wanted []string) bool {
	for _, w := range wanted {
		for _, t := range docTags {
			if t == w {
				return true
			}
		}
	}
	return false
}
