package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
	"github.com/fileclerk/fileclerkai/internal/core/ports"
)

type ActivitiesUseCase struct {
	activities ports.ActivityRepository
}

func NewActivitiesUseCase(activities ports.ActivityRepository) *ActivitiesUseCase {
	return &ActivitiesUseCase{activities: activities}
}

func (uc *ActivitiesUseCase) List(ctx context.Context, limit int, activityType domain.ActivityType) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	activities, err := uc.activities.List(ctx, limit, activityType)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

// Summary aggregates activity counts over the trailing period for the
// dashboard snapshot.
func (uc *ActivitiesUseCase) Summary(ctx context.Context, days int) (*domain.ActivitySummary, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	activities, err := uc.activities.ListSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("summarize activities: %w", err)
	}

	summary := &domain.ActivitySummary{
		TotalActivities: len(activities),
		ByType:          make(map[domain.ActivityType]int),
		ByActor:         make(map[domain.Actor]int),
		PeriodDays:      days,
	}
	for _, activity := range activities {
		summary.ByType[activity.ActivityType]++
		summary.ByActor[activity.Actor]++
	}
	return summary, nil
}
