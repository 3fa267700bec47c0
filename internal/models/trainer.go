package models

import "time"

// TrainerClient links a client user to the trainer managing them; the
// (trainer, client) pair is unique.
type TrainerClient struct {
	TrainerID int64     `json:"trainer_id"`
	ClientID  int64     `json:"client_id"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"

	TaskStatusOpen       = "open"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

type TrainerTask struct {
	ID          int64      `json:"id"`
	TrainerID   int64      `json:"trainer_id"`
	ClientID    *int64     `json:"client_id,omitempty"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func ValidTaskPriority(priority string) bool {
	return priority == TaskPriorityLow || priority == TaskPriorityMedium || priority == TaskPriorityHigh
}

func ValidTaskStatus(status string) bool {
	return status == TaskStatusOpen || status == TaskStatusInProgress || status == TaskStatusDone
}
