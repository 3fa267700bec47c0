package models

import "time"

type WorkoutPlan struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	FriendlyName string    `json:"friendly_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type WorkoutPlanItem struct {
	ID         int64     `json:"id"`
	PlanID     int64     `json:"plan_id"`
	ExerciseID int64     `json:"exercise_id"`
	Order      int       `json:"order"`
	CreatedAt  time.Time `json:"created_at"`
}

// Reps, weight and rest are stored as free text: the clients write values
// like "AMRAP" or "10-12" alongside plain numbers.
type WorkoutPlanItemSet struct {
	ID     int64  `json:"id"`
	ItemID int64  `json:"item_id"`
	Reps   string `json:"reps"`
	Weight string `json:"weight"`
	Rest   string `json:"rest"`
}

// WorkoutPlanDetail is the full aggregate: the plan, its items in display
// order, and each item's sets in insertion order.
type WorkoutPlanDetail struct {
	WorkoutPlan
	Items []WorkoutPlanItemDetail `json:"items"`
}

type WorkoutPlanItemDetail struct {
	WorkoutPlanItem
	Sets []WorkoutPlanItemSet `json:"sets"`
}
