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

const (
	demoUsername = "demo_user"
	demoPassword = "demo_password"

	sessionTTL = 24 * time.Hour
)

// AuthUseCase issues and validates demo sessions. The session store is
// injected; there is no process-wide token state.
type AuthUseCase struct {
	users    ports.UserRepository
	sessions ports.SessionRepository
}

func NewAuthUseCase(users ports.UserRepository, sessions ports.SessionRepository) *AuthUseCase {
	return &AuthUseCase{users: users, sessions: sessions}
}

func (uc *AuthUseCase) Login(ctx context.Context, username, password string) (*domain.SessionGrant, error) {
	if username != demoUsername || password != demoPassword {
		return nil, domain.WrapError(domain.ErrInvalidCredentials, "login", fmt.Errorf("unknown credential pair for user %q", username))
	}
	return uc.grant(ctx)
}

// CreateSession is the frictionless demo entry: a login without the
// credential check.
func (uc *AuthUseCase) CreateSession(ctx context.Context) (*domain.SessionGrant, error) {
	return uc.grant(ctx)
}

func (uc *AuthUseCase) grant(ctx context.Context) (*domain.SessionGrant, error) {
	user, err := uc.users.GetUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("load demo user: %w", err)
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:           uuid.NewString(),
		Token:        "fclk_" + uuid.NewString(),
		UserID:       user.ID,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(sessionTTL),
	}
	if err := uc.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	return &domain.SessionGrant{
		Token:     session.Token,
		User:      *user,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (uc *AuthUseCase) CurrentSession(ctx context.Context, token string) (*domain.Session, *domain.User, error) {
	if token == "" {
		return nil, nil, domain.WrapError(domain.ErrNoActiveSession, "current session", errors.New("missing bearer token"))
	}

	session, err := uc.sessions.GetByToken(ctx, token)
	if err != nil {
		if domain.IsKind(err, domain.ErrNotFound) {
			return nil, nil, domain.WrapError(domain.ErrNoActiveSession, "current session", err)
		}
		return nil, nil, fmt.Errorf("load session: %w", err)
	}

	now := time.Now().UTC()
	if session.ExpiresAt.Before(now) {
		_ = uc.sessions.DeleteByToken(ctx, token)
		return nil, nil, domain.WrapError(domain.ErrNoActiveSession, "current session", errors.New("session expired"))
	}

	user, err := uc.users.GetUser(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load demo user: %w", err)
	}

	// Expiry is recomputed per lookup, mirroring the demo backend.
	session.LastActivity = now
	session.ExpiresAt = now.Add(sessionTTL)
	return session, user, nil
}

// Logout clears the session token. It never fails, even for unknown tokens.
func (uc *AuthUseCase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := uc.sessions.DeleteByToken(ctx, token); err != nil && !domain.IsKind(err, domain.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (uc *AuthUseCase) UserSettings(ctx context.Context) (*domain.UserSettings, error) {
	user, err := uc.users.GetUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("load demo user: %w", err)
	}
	settings := user.Settings
	return &settings, nil
}

func (uc *AuthUseCase) UpdateUserSettings(ctx context.Context, settings domain.UserSettings) error {
	if err := uc.users.UpdateSettings(ctx, settings); err != nil {
		return fmt.Errorf("update user settings: %w", err)
	}
	return nil
}

func (uc *AuthUseCase) CleanupExpiredSessions(ctx context.Context) (int, error) {
	removed, err := uc.sessions.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("cleanup sessions: %w", err)
	}
	return removed, nil
}
