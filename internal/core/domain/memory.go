package domain

import "time"

type MemoryType string

const (
	MemorySummary  MemoryType = "summary"
	MemoryRoutine  MemoryType = "routine"
	MemoryBookmark MemoryType = "bookmark"
	MemoryHistory  MemoryType = "history"
)

type Memory struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	MemoryType MemoryType     `json:"memory_type"`
	Tags       []string       `json:"tags"`
	Starred    bool           `json:"starred"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	Metadata   map[string]any `json:"metadata"`
}

// MemoryFilter narrows memory listings. Starred is a tri-state: nil means
// no filtering on the flag.
type MemoryFilter struct {
	MemoryType MemoryType
	Starred    *bool
	Limit      int
}

// MemoryPatch carries partial updates. Nil fields are left untouched.
type MemoryPatch struct {
	Title   *string
	Content *string
	Tags    []string
	Starred *bool
}
