package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// SeedDemoUser inserts the demo account if the users table is empty.
func (r *UserRepository) SeedDemoUser(ctx context.Context, user *domain.User) error {
	settingsJSON, err := json.Marshal(user.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO users (id, username, settings, created_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (username) DO NOTHING
`, user.ID, user.Username, settingsJSON, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("seed demo user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetUser(ctx context.Context) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, username, settings, created_at
FROM users
ORDER BY created_at
LIMIT 1
`)

	var user domain.User
	var settingsRaw []byte
	if err := row.Scan(&user.ID, &user.Username, &settingsRaw, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get user", errors.New("user record missing"))
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := json.Unmarshal(settingsRaw, &user.Settings); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) UpdateSettings(ctx context.Context, settings domain.UserSettings) error {
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
UPDATE users
SET settings = $1
WHERE id = (SELECT id FROM users ORDER BY created_at LIMIT 1)
`, settingsJSON)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update settings rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrNotFound, "update settings", errors.New("user record missing"))
	}
	return nil
}

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO sessions (id, token, user_id, created_at, last_activity, expires_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, session.ID, session.Token, session.UserID, session.CreatedAt, session.LastActivity, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, token, user_id, created_at, last_activity, expires_at
FROM sessions
WHERE token = $1
`, token)

	var session domain.Session
	err := row.Scan(&session.ID, &session.Token, &session.UserID, &session.CreatedAt, &session.LastActivity, &session.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get session", errors.New("unknown token"))
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &session, nil
}

func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrNotFound, "delete session", errors.New("unknown token"))
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions rows affected: %w", err)
	}
	return int(rows), nil
}
