package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/saeid-a/GymAppBack/internal/models"
	"github.com/saeid-a/GymAppBack/internal/repository"
)

// stubGoalStore keys logs by (user, date) the way the unique constraint does.
type stubGoalStore struct {
	targets map[int64]*models.DailyGoals
	logs    map[string]*models.DailyGoalLog
}

func newStubGoalStore() *stubGoalStore {
	return &stubGoalStore{
		targets: make(map[int64]*models.DailyGoals),
		logs:    make(map[string]*models.DailyGoalLog),
	}
}

func (s *stubGoalStore) UpsertTargets(_ context.Context, userID int64, steps, waterMl, sleepHours int) (*models.DailyGoals, error) {
	goals := &models.DailyGoals{ID: 1, UserID: userID, Steps: steps, WaterMl: waterMl, SleepHours: sleepHours}
	s.targets[userID] = goals
	return goals, nil
}

func (s *stubGoalStore) GetTargetsByUserID(_ context.Context, userID int64) (*models.DailyGoals, error) {
	goals, ok := s.targets[userID]
	if !ok {
		return nil, errors.New("no rows")
	}
	return goals, nil
}

func (s *stubGoalStore) UpsertLog(_ context.Context, input repository.UpsertGoalLogInput) (*models.DailyGoalLog, error) {
	key := input.LogDate.Format("2006-01-02")
	entry, ok := s.logs[key]
	if !ok {
		entry = &models.DailyGoalLog{ID: int64(len(s.logs) + 1), UserID: input.UserID, LogDate: input.LogDate}
		s.logs[key] = entry
	}
	entry.Steps = input.Steps
	entry.WaterMl = input.WaterMl
	entry.SleepHours = input.SleepHours
	return entry, nil
}

func (s *stubGoalStore) ListLogs(_ context.Context, userID int64, from, to time.Time) ([]models.DailyGoalLog, error) {
	out := make([]models.DailyGoalLog, 0, len(s.logs))
	for _, entry := range s.logs {
		out = append(out, *entry)
	}
	return out, nil
}

func TestLogDayUpsertsSameDateInPlace(t *testing.T) {
	store := newStubGoalStore()
	service := &GoalService{goalRepo: store}
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	first, err := service.LogDay(context.Background(), 42, day, 8000, 2000, 7)
	if err != nil {
		t.Fatalf("LogDay: %v", err)
	}
	second, err := service.LogDay(context.Background(), 42, day, 12000, 2500, 8)
	if err != nil {
		t.Fatalf("LogDay: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected same row updated, got ids %d and %d", first.ID, second.ID)
	}
	if len(store.logs) != 1 {
		t.Fatalf("expected 1 log row, got %d", len(store.logs))
	}
	if second.Steps != 12000 {
		t.Fatalf("expected updated steps 12000, got %d", second.Steps)
	}
}

func TestSetTargetsRejectsNegativeValues(t *testing.T) {
	service := &GoalService{goalRepo: newStubGoalStore()}

	if _, err := service.SetTargets(context.Background(), 42, -1, 2000, 8); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListLogsRejectsInvertedRange(t *testing.T) {
	service := &GoalService{goalRepo: newStubGoalStore()}
	from := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -7)

	if _, err := service.ListLogs(context.Background(), 42, from, to); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
