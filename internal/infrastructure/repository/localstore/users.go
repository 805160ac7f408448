package localstore

import (
	"context"
	"errors"
	"time"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

// UserRepository serves the single demo user record.
type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) GetUser(_ context.Context) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var user domain.User
	r.store.get(keyUser, &user)
	if user.ID == "" {
		return nil, domain.WrapError(domain.ErrNotFound, "get user", errors.New("user record missing"))
	}
	return &user, nil
}

func (r *UserRepository) UpdateSettings(_ context.Context, settings domain.UserSettings) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var user domain.User
	r.store.get(keyUser, &user)
	if user.ID == "" {
		return domain.WrapError(domain.ErrNotFound, "update settings", errors.New("user record missing"))
	}
	user.Settings = settings
	return r.store.put(keyUser, user)
}

// SessionRepository keeps bearer-token sessions under their own key.
type SessionRepository struct {
	store *Store
}

func NewSessionRepository(store *Store) *SessionRepository {
	return &SessionRepository{store: store}
}

func (r *SessionRepository) Create(_ context.Context, session *domain.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var sessions []domain.Session
	r.store.get(keySessions, &sessions)
	sessions = append([]domain.Session{*session}, sessions...)
	return r.store.put(keySessions, sessions)
}

func (r *SessionRepository) GetByToken(_ context.Context, token string) (*domain.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var sessions []domain.Session
	r.store.get(keySessions, &sessions)
	for _, session := range sessions {
		if session.Token == token {
			found := session
			return &found, nil
		}
	}
	return nil, domain.WrapError(domain.ErrNotFound, "get session", errors.New("unknown token"))
}

func (r *SessionRepository) DeleteByToken(_ context.Context, token string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var sessions []domain.Session
	r.store.get(keySessions, &sessions)

	kept := sessions[:0]
	removed := false
	for _, session := range sessions {
		if session.Token == token {
			removed = true
			continue
		}
		kept = append(kept, session)
	}
	if !removed {
		return domain.WrapError(domain.ErrNotFound, "delete session", errors.New("unknown token"))
	}
	return r.store.put(keySessions, kept)
}

func (r *SessionRepository) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var sessions []domain.Session
	r.store.get(keySessions, &sessions)

	kept := sessions[:0]
	removed := 0
	for _, session := range sessions {
		if session.ExpiresAt.Before(now) {
			removed++
			continue
		}
		kept = append(kept, session)
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, r.store.put(keySessions, kept)
}
