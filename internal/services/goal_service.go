package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/GymAppBack/internal/models"
	"github.com/saeid-a/GymAppBack/internal/repository"
)

type goalStore interface {
	UpsertTargets(ctx context.Context, userID int64, steps, waterMl, sleepHours int) (*models.DailyGoals, error)
	GetTargetsByUserID(ctx context.Context, userID int64) (*models.DailyGoals, error)
	UpsertLog(ctx context.Context, input repository.UpsertGoalLogInput) (*models.DailyGoalLog, error)
	ListLogs(ctx context.Context, userID int64, from, to time.Time) ([]models.DailyGoalLog, error)
}

type GoalService struct {
	goalRepo goalStore
}

func NewGoalService(goalRepo *repository.GoalRepository) *GoalService {
	return &GoalService{goalRepo: goalRepo}
}

func (s *GoalService) SetTargets(ctx context.Context, actorID int64, steps, waterMl, sleepHours int) (*models.DailyGoals, error) {
	if steps < 0 || waterMl < 0 || sleepHours < 0 {
		return nil, ErrInvalidInput
	}
	return s.goalRepo.UpsertTargets(ctx, actorID, steps, waterMl, sleepHours)
}

func (s *GoalService) GetTargets(ctx context.Context, actorID int64) (*models.DailyGoals, error) {
	goals, err := s.goalRepo.GetTargetsByUserID(ctx, actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return goals, nil
}

// LogDay records the actuals for one calendar day; logging the same day
// twice updates the existing row instead of duplicating it.
func (s *GoalService) LogDay(ctx context.Context, actorID int64, day time.Time, steps, waterMl, sleepHours int) (*models.DailyGoalLog, error) {
	if steps < 0 || waterMl < 0 || sleepHours < 0 {
		return nil, ErrInvalidInput
	}
	return s.goalRepo.UpsertLog(ctx, repository.UpsertGoalLogInput{
		UserID:     actorID,
		LogDate:    day,
		Steps:      steps,
		WaterMl:    waterMl,
		SleepHours: sleepHours,
	})
}

func (s *GoalService) ListLogs(ctx context.Context, actorID int64, from, to time.Time) ([]models.DailyGoalLog, error) {
	if to.Before(from) {
		return nil, ErrInvalidInput
	}
	return s.goalRepo.ListLogs(ctx, actorID, from, to)
}
