package localstore

import (
	"context"
	"time"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

// ActivityRepository is append-only: new entries prepend, nothing mutates
// or deletes.
type ActivityRepository struct {
	store *Store
}

func NewActivityRepository(store *Store) *ActivityRepository {
	return &ActivityRepository{store: store}
}

func (r *ActivityRepository) Append(_ context.Context, activity *domain.Activity) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var activities []domain.Activity
	r.store.get(keyActivities, &activities)
	activities = append([]domain.Activity{*activity}, activities...)
	return r.store.put(keyActivities, activities)
}

func (r *ActivityRepository) List(_ context.Context, limit int, activityType domain.ActivityType) ([]domain.Activity, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var activities []domain.Activity
	r.store.get(keyActivities, &activities)

	out := make([]domain.Activity, 0, len(activities))
	for _, activity := range activities {
		if activityType != "" && activity.ActivityType != activityType {
			continue
		}
		out = append(out, activity)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *ActivityRepository) ListSince(_ context.Context, since time.Time) ([]domain.Activity, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var activities []domain.Activity
	r.store.get(keyActivities, &activities)

	out := make([]domain.Activity, 0, len(activities))
	for _, activity := range activities {
		if activity.CreatedAt.Before(since) {
			continue
		}
		out = append(out, activity)
	}
	return out, nil
}
