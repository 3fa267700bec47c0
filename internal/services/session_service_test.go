package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/GymAppBack/internal/models"
	"github.com/saeid-a/GymAppBack/internal/repository"
)

type stubSessionStore struct {
	active       *models.WorkoutSession
	activeErr    error
	sessions     []models.WorkoutSession
	setLogs      []models.WorkoutSessionSetLog
	created      []repository.CreateSessionInput
	hasPending   bool
	createdLog   *models.WorkoutSessionSetLog
	completedIDs []int64
}

func (s *stubSessionStore) Create(_ context.Context, input repository.CreateSessionInput) (*models.WorkoutSession, error) {
	s.created = append(s.created, input)
	return &models.WorkoutSession{ID: int64(len(s.created)), UserID: input.UserID, PlanID: input.PlanID, SessionDate: input.SessionDate}, nil
}

func (s *stubSessionStore) GetActiveByID(_ context.Context, sessionID int64) (*models.WorkoutSession, error) {
	if s.activeErr != nil {
		return nil, s.activeErr
	}
	return s.active, nil
}

func (s *stubSessionStore) ListByUserID(_ context.Context, userID int64) ([]models.WorkoutSession, error) {
	return s.sessions, nil
}

func (s *stubSessionStore) Complete(_ context.Context, sessionID int64) (*models.WorkoutSession, error) {
	s.completedIDs = append(s.completedIDs, sessionID)
	session := *s.active
	session.Completed = true
	return &session, nil
}

func (s *stubSessionStore) HasIncompleteOn(_ context.Context, userID int64, day time.Time) (bool, error) {
	return s.hasPending, nil
}

func (s *stubSessionStore) CreateSetLog(_ context.Context, input repository.CreateSetLogInput) (*models.WorkoutSessionSetLog, error) {
	s.createdLog = &models.WorkoutSessionSetLog{
		ID:            77,
		SessionID:     input.SessionID,
		PlanItemSetID: input.PlanItemSetID,
		Reps:          input.Reps,
		Weight:        input.Weight,
		Rest:          input.Rest,
		Completed:     input.Completed,
	}
	return s.createdLog, nil
}

func (s *stubSessionStore) ListSetLogsBySessionID(_ context.Context, sessionID int64) ([]models.WorkoutSessionSetLog, error) {
	return s.setLogs, nil
}

// stubPlanResolver fails specific plan ids to exercise the best-effort batch.
type stubPlanResolver struct {
	mu      sync.Mutex
	plans   map[int64]*models.WorkoutPlanDetail
	failIDs map[int64]bool
	calls   int
}

func (s *stubPlanResolver) GetPlan(_ context.Context, planID int64) (*models.WorkoutPlanDetail, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.failIDs[planID] {
		return nil, errors.New("boom")
	}
	plan, ok := s.plans[planID]
	if !ok {
		return nil, ErrNotFound
	}
	return plan, nil
}

type stubExerciseBatchReader struct{}

func (s *stubExerciseBatchReader) ListByIDs(_ context.Context, exerciseIDs []int64) ([]models.Exercise, error) {
	exercises := make([]models.Exercise, 0, len(exerciseIDs))
	for _, id := range exerciseIDs {
		exercises = append(exercises, models.Exercise{ID: id})
	}
	return exercises, nil
}

type stubProgramReader struct {
	programs []models.ClientProgram
}

func (s *stubProgramReader) ListActive(_ context.Context) ([]models.ClientProgram, error) {
	return s.programs, nil
}

func (s *stubProgramReader) ListActiveByClientID(_ context.Context, clientID int64) ([]models.ClientProgram, error) {
	out := make([]models.ClientProgram, 0)
	for _, program := range s.programs {
		if program.ClientID == clientID {
			out = append(out, program)
		}
	}
	return out, nil
}

func newSessionServiceForTest(store *stubSessionStore, resolver *stubPlanResolver, programs *stubProgramReader) *SessionService {
	if resolver == nil {
		resolver = &stubPlanResolver{}
	}
	if programs == nil {
		programs = &stubProgramReader{}
	}
	return &SessionService{
		sessionRepo:  store,
		planService:  resolver,
		exerciseRepo: &stubExerciseBatchReader{},
		programRepo:  programs,
	}
}

func TestGetActiveSessionCompletedIsNotFound(t *testing.T) {
	store := &stubSessionStore{activeErr: pgx.ErrNoRows}
	service := newSessionServiceForTest(store, nil, nil)

	_, err := service.GetActiveSession(context.Background(), 5)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetActiveSessionEmbedsPlanAndExercises(t *testing.T) {
	planID := int64(3)
	store := &stubSessionStore{
		active: &models.WorkoutSession{ID: 5, UserID: 42, PlanID: &planID},
		setLogs: []models.WorkoutSessionSetLog{
			{ID: 1, SessionID: 5, PlanItemSetID: 20},
		},
	}
	resolver := &stubPlanResolver{plans: map[int64]*models.WorkoutPlanDetail{
		3: {
			WorkoutPlan: models.WorkoutPlan{ID: 3, UserID: 42, FriendlyName: "Leg Day"},
			Items: []models.WorkoutPlanItemDetail{
				{WorkoutPlanItem: models.WorkoutPlanItem{ID: 10, ExerciseID: 1}},
				{WorkoutPlanItem: models.WorkoutPlanItem{ID: 11, ExerciseID: 2}},
				{WorkoutPlanItem: models.WorkoutPlanItem{ID: 12, ExerciseID: 1}},
			},
		},
	}}
	service := newSessionServiceForTest(store, resolver, nil)

	detail, err := service.GetActiveSession(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetActiveSession: %v", err)
	}
	if detail.WorkoutPlan == nil || detail.WorkoutPlan.FriendlyName != "Leg Day" {
		t.Fatalf("expected embedded plan, got %#v", detail.WorkoutPlan)
	}
	// Exercise 1 appears twice in the plan but resolves once.
	if len(detail.Exercises) != 2 {
		t.Fatalf("expected 2 distinct exercises, got %d", len(detail.Exercises))
	}
	if len(detail.SetLogs) != 1 {
		t.Fatalf("expected 1 set log, got %d", len(detail.SetLogs))
	}
}

func TestListSessionsBestEffortPlanResolution(t *testing.T) {
	planA, planB := int64(1), int64(2)
	store := &stubSessionStore{
		sessions: []models.WorkoutSession{
			{ID: 10, UserID: 42, PlanID: &planA},
			{ID: 11, UserID: 42, PlanID: &planB},
			{ID: 12, UserID: 42},
		},
	}
	resolver := &stubPlanResolver{
		plans: map[int64]*models.WorkoutPlanDetail{
			1: {WorkoutPlan: models.WorkoutPlan{ID: 1, UserID: 42, FriendlyName: "Plan A"}},
		},
		failIDs: map[int64]bool{2: true},
	}
	service := newSessionServiceForTest(store, resolver, nil)

	details, err := service.ListSessionsForUser(context.Background(), 42)
	if err != nil {
		t.Fatalf("ListSessionsForUser: %v", err)
	}
	if len(details) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(details))
	}
	if details[0].WorkoutPlan == nil || details[0].WorkoutPlan.FriendlyName != "Plan A" {
		t.Fatalf("expected plan A attached, got %#v", details[0].WorkoutPlan)
	}
	if details[1].WorkoutPlan != nil {
		t.Fatal("expected failed plan resolution to leave plan nil")
	}
	if details[2].WorkoutPlan != nil {
		t.Fatal("expected standalone session to have no plan")
	}
}

func TestStartSessionWithForeignPlanReturnsNoAccess(t *testing.T) {
	planID := int64(3)
	store := &stubSessionStore{}
	resolver := &stubPlanResolver{plans: map[int64]*models.WorkoutPlanDetail{
		3: {WorkoutPlan: models.WorkoutPlan{ID: 3, UserID: 7}},
	}}
	service := newSessionServiceForTest(store, resolver, nil)

	_, err := service.StartSession(context.Background(), 42, &planID, time.Now())
	if !errors.Is(err, ErrNoAccess) {
		t.Fatalf("expected ErrNoAccess, got %v", err)
	}
	if len(store.created) != 0 {
		t.Fatal("expected no session to be created")
	}
}

func TestPopulateAllSkipsUnscheduledAndPendingDays(t *testing.T) {
	// 2026-08-31 is a Monday (weekday 1).
	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	programs := &stubProgramReader{programs: []models.ClientProgram{
		{ID: 1, ClientID: 42, PlanID: 3, ScheduleDays: []int{1, 3, 5}},
		{ID: 2, ClientID: 43, PlanID: 4, ScheduleDays: []int{0, 6}},
	}}
	store := &stubSessionStore{}
	service := newSessionServiceForTest(store, nil, programs)

	created, err := service.PopulateAll(context.Background(), day)
	if err != nil {
		t.Fatalf("PopulateAll: %v", err)
	}
	if created != 1 {
		t.Fatalf("expected 1 created session, got %d", created)
	}
	if len(store.created) != 1 || store.created[0].UserID != 42 {
		t.Fatalf("unexpected created sessions: %#v", store.created)
	}

	// A pending session for the day makes the run a no-op.
	store.created = nil
	store.hasPending = true
	created, err = service.PopulateAll(context.Background(), day)
	if err != nil {
		t.Fatalf("PopulateAll: %v", err)
	}
	if created != 0 || len(store.created) != 0 {
		t.Fatalf("expected idempotent re-run, created %d", created)
	}
}
