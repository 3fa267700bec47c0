package models

import "time"

// ClientProgram is what the onboarding wizard produces: a plan assigned to a
// client for a number of weeks on fixed weekdays (0=Sunday..6=Saturday).
type ClientProgram struct {
	ID            int64     `json:"id"`
	TrainerID     int64     `json:"trainer_id"`
	ClientID      int64     `json:"client_id"`
	PlanID        int64     `json:"plan_id"`
	Name          string    `json:"name"`
	DurationWeeks int       `json:"duration_weeks"`
	ScheduleDays  []int     `json:"schedule_days"`
	CreatedAt     time.Time `json:"created_at"`
}
