package models

import "time"

type DailyGoals struct {
	ID         int64 `json:"id"`
	UserID     int64 `json:"user_id"`
	Steps      int   `json:"steps"`
	WaterMl    int   `json:"water_ml"`
	SleepHours int   `json:"sleep_hours"`
}

// DailyGoalLog rows are unique per (user, log_date) and upserted in place.
type DailyGoalLog struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	LogDate    time.Time `json:"log_date"`
	Steps      int       `json:"steps"`
	WaterMl    int       `json:"water_ml"`
	SleepHours int       `json:"sleep_hours"`
}
