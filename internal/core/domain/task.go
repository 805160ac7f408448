package domain

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Terminal reports whether a status ends the task lifecycle. Terminal
// tasks are never transitioned again.
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusFailed, TaskStatusCancelled:
		return true
	}
	return false
}

// TaskResult is the structured payload of a completed task.
type TaskResult struct {
	Action    string `json:"action"`
	Message   string `json:"message"`
	Documents int    `json:"documents"`
}

type Task struct {
	ID          string      `json:"id"`
	TaskType    string      `json:"task_type"`
	Status      TaskStatus  `json:"status"`
	Progress    float64     `json:"progress"`
	DocumentIDs []string    `json:"document_ids,omitempty"`
	Result      *TaskResult `json:"result"`
	Error       *string     `json:"error"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ActionReceipt is returned immediately by PerformAction; callers poll the
// task to observe completion.
type ActionReceipt struct {
	TaskID  string     `json:"task_id"`
	Status  TaskStatus `json:"status"`
	Message string     `json:"message"`
}
