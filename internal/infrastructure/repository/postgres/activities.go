package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

const activityColumns = `id, action, description, activity_type, actor, files, user_confirmation, metadata, created_at`

type activityExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertActivity(ctx context.Context, db activityExecer, activity *domain.Activity) error {
	filesJSON, err := json.Marshal(activity.Files)
	if err != nil {
		return fmt.Errorf("marshal files: %w", err)
	}
	metadataJSON, err := json.Marshal(activity.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = db.ExecContext(ctx, `
INSERT INTO activities (`+activityColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		activity.ID, activity.Action, activity.Description, string(activity.ActivityType),
		string(activity.Actor), filesJSON, activity.UserConfirmation, metadataJSON, activity.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) Append(ctx context.Context, activity *domain.Activity) error {
	return insertActivity(ctx, r.db, activity)
}

func (r *ActivityRepository) List(ctx context.Context, limit int, activityType domain.ActivityType) ([]domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities`
	args := []any{}
	if activityType != "" {
		args = append(args, string(activityType))
		query += fmt.Sprintf(` WHERE activity_type = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	return r.query(ctx, query, args...)
}

func (r *ActivityRepository) ListSince(ctx context.Context, since time.Time) ([]domain.Activity, error) {
	return r.query(ctx, `
SELECT `+activityColumns+`
FROM activities
WHERE created_at >= $1
ORDER BY created_at DESC
`, since)
}

func (r *ActivityRepository) query(ctx context.Context, query string, args ...any) ([]domain.Activity, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Activity, 0)
	for rows.Next() {
		var activity domain.Activity
		var activityType, actor string
		var filesRaw, metadataRaw []byte

		err := rows.Scan(
			&activity.ID, &activity.Action, &activity.Description, &activityType, &actor,
			&filesRaw, &activity.UserConfirmation, &metadataRaw, &activity.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if err := json.Unmarshal(filesRaw, &activity.Files); err != nil {
			return nil, fmt.Errorf("unmarshal files: %w", err)
		}
		if err := json.Unmarshal(metadataRaw, &activity.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
		activity.ActivityType = domain.ActivityType(activityType)
		activity.Actor = domain.Actor(actor)
		out = append(out, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return out, nil
}
