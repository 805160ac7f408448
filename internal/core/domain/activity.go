package domain

import "time"

type ActivityType string

const (
	ActivityUpload       ActivityType = "upload"
	ActivityVoiceCommand ActivityType = "voice_command"
	ActivityMerge        ActivityType = "merge"
	ActivitySummarize    ActivityType = "summarize"
	ActivityTranslate    ActivityType = "translate"
	ActivitySent         ActivityType = "sent"
	ActivityDelete       ActivityType = "delete"
)

type Actor string

const (
	ActorUser Actor = "user"
	ActorAI   Actor = "ai"
)

// Activity is an append-only log entry. Entries are never mutated or
// deleted; listings are newest first.
type Activity struct {
	ID               string         `json:"id"`
	Action           string         `json:"action"`
	Description      string         `json:"description"`
	ActivityType     ActivityType   `json:"activity_type"`
	Actor            Actor          `json:"actor"`
	Files            []string       `json:"files"`
	UserConfirmation *string        `json:"user_confirmation"`
	CreatedAt        time.Time      `json:"created_at"`
	Metadata         map[string]any `json:"metadata"`
}

// ActivitySummary aggregates recent activity counts for the dashboard.
type ActivitySummary struct {
	TotalActivities int                  `json:"total_activities"`
	ByType          map[ActivityType]int `json:"by_type"`
	ByActor         map[Actor]int        `json:"by_actor"`
	PeriodDays      int                  `json:"period_days"`
}
