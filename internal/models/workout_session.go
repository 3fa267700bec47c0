package models

import "time"

type WorkoutSession struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	PlanID      *int64    `json:"plan_id,omitempty"`
	SessionDate time.Time `json:"session_date"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type WorkoutSessionSetLog struct {
	ID            int64     `json:"id"`
	SessionID     int64     `json:"session_id"`
	PlanItemSetID int64     `json:"plan_item_set_id"`
	Reps          string    `json:"reps"`
	Weight        string    `json:"weight"`
	Rest          string    `json:"rest"`
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"created_at"`
}

// WorkoutSessionDetail embeds the resolved plan aggregate when the session
// references a plan; WorkoutPlan stays nil for standalone sessions and for
// plans that could not be resolved in the batch accessor.
type WorkoutSessionDetail struct {
	WorkoutSession
	WorkoutPlan *WorkoutPlanDetail     `json:"workout_plan,omitempty"`
	Exercises   []Exercise             `json:"exercises,omitempty"`
	SetLogs     []WorkoutSessionSetLog `json:"set_logs"`
}
