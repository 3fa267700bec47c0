package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/GymAppBack/internal/models"
	"github.com/saeid-a/GymAppBack/internal/repository"
)

type sessionStore interface {
	Create(ctx context.Context, input repository.CreateSessionInput) (*models.WorkoutSession, error)
	GetActiveByID(ctx context.Context, sessionID int64) (*models.WorkoutSession, error)
	ListByUserID(ctx context.Context, userID int64) ([]models.WorkoutSession, error)
	Complete(ctx context.Context, sessionID int64) (*models.WorkoutSession, error)
	HasIncompleteOn(ctx context.Context, userID int64, day time.Time) (bool, error)
	CreateSetLog(ctx context.Context, input repository.CreateSetLogInput) (*models.WorkoutSessionSetLog, error)
	ListSetLogsBySessionID(ctx context.Context, sessionID int64) ([]models.WorkoutSessionSetLog, error)
}

type planResolver interface {
	GetPlan(ctx context.Context, planID int64) (*models.WorkoutPlanDetail, error)
}

type exerciseBatchReader interface {
	ListByIDs(ctx context.Context, exerciseIDs []int64) ([]models.Exercise, error)
}

type programReader interface {
	ListActive(ctx context.Context) ([]models.ClientProgram, error)
	ListActiveByClientID(ctx context.Context, clientID int64) ([]models.ClientProgram, error)
}

type SessionService struct {
	sessionRepo  sessionStore
	planService  planResolver
	exerciseRepo exerciseBatchReader
	programRepo  programReader
}

func NewSessionService(
	sessionRepo *repository.WorkoutSessionRepository,
	planService *PlanService,
	exerciseRepo *repository.ExerciseRepository,
	programRepo *repository.ClientProgramRepository,
) *SessionService {
	return &SessionService{
		sessionRepo:  sessionRepo,
		planService:  planService,
		exerciseRepo: exerciseRepo,
		programRepo:  programRepo,
	}
}

func (s *SessionService) StartSession(ctx context.Context, actorID int64, planID *int64, sessionDate time.Time) (*models.WorkoutSession, error) {
	if planID != nil {
		plan, err := s.planService.GetPlan(ctx, *planID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, ErrNoAccess
			}
			return nil, err
		}
		if err := AuthorizeOwner(actorID, plan.UserID); err != nil {
			return nil, err
		}
	}
	return s.sessionRepo.Create(ctx, repository.CreateSessionInput{
		UserID:      actorID,
		PlanID:      planID,
		SessionDate: sessionDate,
	})
}

// GetActiveSession resolves one live session: the row (completed sessions are
// not-found here), its plan aggregate when referenced, the exercises the plan
// points at, and the logged sets.
func (s *SessionService) GetActiveSession(ctx context.Context, sessionID int64) (*models.WorkoutSessionDetail, error) {
	session, err := s.sessionRepo.GetActiveByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	detail := &models.WorkoutSessionDetail{
		WorkoutSession: *session,
		SetLogs:        []models.WorkoutSessionSetLog{},
	}

	if session.PlanID != nil {
		plan, err := s.planService.GetPlan(ctx, *session.PlanID)
		if err != nil {
			return nil, err
		}
		detail.WorkoutPlan = plan

		exercises, err := s.exerciseRepo.ListByIDs(ctx, exerciseIDsOf(plan))
		if err != nil {
			return nil, err
		}
		detail.Exercises = exercises
	}

	logs, err := s.sessionRepo.ListSetLogsBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	detail.SetLogs = logs

	return detail, nil
}

// ListSessionsForUser returns every session with its plan attached where the
// plan resolves. Plans are resolved concurrently and best-effort: one failed
// lookup leaves that session's plan nil instead of failing the batch.
func (s *SessionService) ListSessionsForUser(ctx context.Context, userID int64) ([]models.WorkoutSessionDetail, error) {
	sessions, err := s.sessionRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	planIDs := make(map[int64]struct{})
	for _, session := range sessions {
		if session.PlanID != nil {
			planIDs[*session.PlanID] = struct{}{}
		}
	}

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		plans = make(map[int64]*models.WorkoutPlanDetail, len(planIDs))
	)
	for planID := range planIDs {
		wg.Add(1)
		go func(planID int64) {
			defer wg.Done()
			plan, err := s.planService.GetPlan(ctx, planID)
			if err != nil {
				log.Printf("session list: resolve plan %d: %v", planID, err)
				return
			}
			mu.Lock()
			plans[planID] = plan
			mu.Unlock()
		}(planID)
	}
	wg.Wait()

	details := make([]models.WorkoutSessionDetail, 0, len(sessions))
	for _, session := range sessions {
		detail := models.WorkoutSessionDetail{
			WorkoutSession: session,
			SetLogs:        []models.WorkoutSessionSetLog{},
		}
		if session.PlanID != nil {
			detail.WorkoutPlan = plans[*session.PlanID]
		}
		details = append(details, detail)
	}

	return details, nil
}

type LogSetInput struct {
	PlanItemSetID int64
	Reps          string
	Weight        string
	Rest          string
	Completed     bool
}

func (s *SessionService) LogSet(ctx context.Context, actorID, sessionID int64, input LogSetInput) (*models.WorkoutSessionSetLog, error) {
	if input.PlanItemSetID <= 0 {
		return nil, ErrInvalidInput
	}
	if _, err := s.authorizeSessionMutation(ctx, actorID, sessionID); err != nil {
		return nil, err
	}
	return s.sessionRepo.CreateSetLog(ctx, repository.CreateSetLogInput{
		SessionID:     sessionID,
		PlanItemSetID: input.PlanItemSetID,
		Reps:          input.Reps,
		Weight:        input.Weight,
		Rest:          input.Rest,
		Completed:     input.Completed,
	})
}

func (s *SessionService) CompleteSession(ctx context.Context, actorID, sessionID int64) (*models.WorkoutSession, error) {
	if _, err := s.authorizeSessionMutation(ctx, actorID, sessionID); err != nil {
		return nil, err
	}
	return s.sessionRepo.Complete(ctx, sessionID)
}

// PopulateForUser creates today's pending session for each of the user's
// active programs scheduled on this weekday. Already-pending days are
// skipped so repeated runs stay idempotent.
func (s *SessionService) PopulateForUser(ctx context.Context, userID int64, day time.Time) (int, error) {
	programs, err := s.programRepo.ListActiveByClientID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.populatePrograms(ctx, programs, day)
}

// PopulateAll walks every active program; per-user failures are logged and
// skipped so one bad row never stalls the whole run.
func (s *SessionService) PopulateAll(ctx context.Context, day time.Time) (int, error) {
	programs, err := s.programRepo.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	return s.populatePrograms(ctx, programs, day)
}

func (s *SessionService) populatePrograms(ctx context.Context, programs []models.ClientProgram, day time.Time) (int, error) {
	weekday := int(day.Weekday())
	created := 0
	for _, program := range programs {
		if !scheduledOn(program.ScheduleDays, weekday) {
			continue
		}
		pending, err := s.sessionRepo.HasIncompleteOn(ctx, program.ClientID, day)
		if err != nil {
			log.Printf("session populate: check user %d: %v", program.ClientID, err)
			continue
		}
		if pending {
			continue
		}
		planID := program.PlanID
		if _, err := s.sessionRepo.Create(ctx, repository.CreateSessionInput{
			UserID:      program.ClientID,
			PlanID:      &planID,
			SessionDate: day,
		}); err != nil {
			log.Printf("session populate: create for user %d: %v", program.ClientID, err)
			continue
		}
		created++
	}
	return created, nil
}

func (s *SessionService) authorizeSessionMutation(ctx context.Context, actorID, sessionID int64) (*models.WorkoutSession, error) {
	session, err := s.sessionRepo.GetActiveByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoAccess
		}
		return nil, err
	}
	if err := AuthorizeOwner(actorID, session.UserID); err != nil {
		return nil, err
	}
	return session, nil
}

func exerciseIDsOf(plan *models.WorkoutPlanDetail) []int64 {
	seen := make(map[int64]struct{}, len(plan.Items))
	ids := make([]int64, 0, len(plan.Items))
	for _, item := range plan.Items {
		if _, ok := seen[item.ExerciseID]; ok {
			continue
		}
		seen[item.ExerciseID] = struct{}{}
		ids = append(ids, item.ExerciseID)
	}
	return ids
}

func scheduledOn(scheduleDays []int, weekday int) bool {
	for _, day := range scheduleDays {
		if day == weekday {
			return true
		}
	}
	return false
}
