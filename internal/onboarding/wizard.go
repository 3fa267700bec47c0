// Package onboarding drives the client-onboarding flow a trainer walks
// through: pick a client, set daily goals, choose a plan and schedule, set
// the program duration, review, submit.
package onboarding

import (
	"context"

	"github.com/saeid-a/GymAppBack/internal/models"
)

type Step int

const (
	StepClientSelection Step = iota
	StepDailyGoals
	StepWeeklySchedule
	StepProgramDuration
	StepReview

	firstStep = StepClientSelection
	lastStep  = StepReview
)

func (s Step) String() string {
	switch s {
	case StepClientSelection:
		return "client_selection"
	case StepDailyGoals:
		return "daily_goals"
	case StepWeeklySchedule:
		return "weekly_schedule"
	case StepProgramDuration:
		return "program_duration"
	case StepReview:
		return "review"
	default:
		return "unknown"
	}
}

type GoalTargets struct {
	Steps      int `json:"steps"`
	WaterMl    int `json:"water_ml"`
	SleepHours int `json:"sleep_hours"`
}

// State accumulates the wizard's answers. PlanID selects an existing plan;
// an empty PlanID with a NewPlanName creates one on submit.
type State struct {
	ClientID      int64       `json:"client_id"`
	Goals         GoalTargets `json:"goals"`
	PlanID        *int64      `json:"plan_id,omitempty"`
	NewPlanName   string      `json:"new_plan_name,omitempty"`
	ScheduleDays  []int       `json:"schedule_days"`
	ProgramName   string      `json:"program_name"`
	DurationWeeks int         `json:"duration_weeks"`
}

type Wizard struct {
	step  Step
	state State
}

func NewWizard() *Wizard {
	return &Wizard{step: firstStep}
}

func (w *Wizard) Step() Step {
	return w.step
}

func (w *Wizard) State() State {
	return w.state
}

func (w *Wizard) SetState(state State) {
	w.state = state
}

// Next advances by exactly one step, clamped at the review step.
func (w *Wizard) Next() Step {
	if w.step < lastStep {
		w.step++
	}
	return w.step
}

// Prev moves back by exactly one step, clamped at the first step.
func (w *Wizard) Prev() Step {
	if w.step > firstStep {
		w.step--
	}
	return w.step
}

// GoTo jumps to any in-range step. The review UI restricts itself to
// GoToCompleted; the raw machine allows arbitrary in-bounds jumps.
func (w *Wizard) GoTo(step Step) Step {
	if step >= firstStep && step <= lastStep {
		w.step = step
	}
	return w.step
}

// GoToCompleted jumps only backwards or to the current step, never ahead.
func (w *Wizard) GoToCompleted(step Step) Step {
	if step >= firstStep && step <= w.step {
		w.step = step
	}
	return w.step
}

// CanProceed evaluates the current step's gate against accumulated state.
func (w *Wizard) CanProceed() bool {
	switch w.step {
	case StepClientSelection:
		return w.state.ClientID > 0
	case StepDailyGoals:
		return w.state.Goals.Steps > 0 && w.state.Goals.WaterMl > 0 && w.state.Goals.SleepHours > 0
	case StepWeeklySchedule:
		planChosen := w.state.PlanID != nil || w.state.NewPlanName != ""
		return planChosen && len(w.state.ScheduleDays) > 0
	case StepProgramDuration:
		return w.state.ProgramName != "" && w.state.DurationWeeks > 0
	case StepReview:
		return true
	default:
		return false
	}
}

// Complete reports whether every step's gate passes, regardless of the
// wizard's current position.
func (w *Wizard) Complete() bool {
	saved := w.step
	defer func() { w.step = saved }()
	for step := firstStep; step <= lastStep; step++ {
		w.step = step
		if !w.CanProceed() {
			return false
		}
	}
	return true
}

type goalWriter interface {
	SetTargets(ctx context.Context, userID int64, steps, waterMl, sleepHours int) (*models.DailyGoals, error)
}

type planWriter interface {
	CreatePlan(ctx context.Context, userID int64, friendlyName string) (*models.WorkoutPlan, error)
}

type programWriter interface {
	CreateProgram(ctx context.Context, trainerID, clientID, planID int64, name string, durationWeeks int, scheduleDays []int) (*models.ClientProgram, error)
}

type sessionPopulator interface {
	PopulateForUser(ctx context.Context, userID int64) (int, error)
}

type SubmitDeps struct {
	Goals    goalWriter
	Plans    planWriter
	Programs programWriter
	Sessions sessionPopulator
}

// Submit runs the four submission calls in order: goals, plan, program,
// session population. There is no compensating rollback: a failure partway
// leaves the earlier writes in place and surfaces the error.
func (w *Wizard) Submit(ctx context.Context, trainerID int64, deps SubmitDeps) (*models.ClientProgram, error) {
	if !w.Complete() {
		return nil, ErrIncomplete
	}

	if _, err := deps.Goals.SetTargets(
		ctx,
		w.state.ClientID,
		w.state.Goals.Steps,
		w.state.Goals.WaterMl,
		w.state.Goals.SleepHours,
	); err != nil {
		return nil, err
	}

	planID := int64(0)
	if w.state.PlanID != nil {
		planID = *w.state.PlanID
	} else {
		plan, err := deps.Plans.CreatePlan(ctx, w.state.ClientID, w.state.NewPlanName)
		if err != nil {
			return nil, err
		}
		planID = plan.ID
	}

	program, err := deps.Programs.CreateProgram(
		ctx,
		trainerID,
		w.state.ClientID,
		planID,
		w.state.ProgramName,
		w.state.DurationWeeks,
		w.state.ScheduleDays,
	)
	if err != nil {
		return nil, err
	}

	if _, err := deps.Sessions.PopulateForUser(ctx, w.state.ClientID); err != nil {
		return nil, err
	}

	return program, nil
}
