package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/saeid-a/GymAppBack/internal/models"
	"github.com/saeid-a/GymAppBack/internal/repository"
)

type trainerClientStore interface {
	Assign(ctx context.Context, trainerID, clientID int64, notes *string) (*models.TrainerClient, error)
	Get(ctx context.Context, trainerID, clientID int64) (*models.TrainerClient, error)
	ListByTrainerID(ctx context.Context, trainerID int64) ([]models.TrainerClient, error)
	UpdateNotes(ctx context.Context, trainerID, clientID int64, notes *string) (*models.TrainerClient, error)
	Unassign(ctx context.Context, trainerID, clientID int64) error
}

type trainerTaskStore interface {
	Create(ctx context.Context, input repository.CreateTrainerTaskInput) (*models.TrainerTask, error)
	GetByID(ctx context.Context, taskID int64) (*models.TrainerTask, error)
	List(ctx context.Context, filter repository.TrainerTaskListFilter) ([]models.TrainerTask, error)
	Update(ctx context.Context, taskID int64, title string, description *string, priority, status string, dueDate *time.Time) (*models.TrainerTask, error)
	Delete(ctx context.Context, taskID int64) error
}

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type TrainerService struct {
	clientRepo trainerClientStore
	taskRepo   trainerTaskStore
	userRepo   userReader
}

func NewTrainerService(
	clientRepo *repository.TrainerClientRepository,
	taskRepo *repository.TrainerTaskRepository,
	userRepo *repository.UserRepository,
) *TrainerService {
	return &TrainerService{
		clientRepo: clientRepo,
		taskRepo:   taskRepo,
		userRepo:   userRepo,
	}
}

func (s *TrainerService) AssignClient(ctx context.Context, trainerID, clientID int64, notes *string) (*models.TrainerClient, error) {
	if trainerID == clientID {
		return nil, ErrInvalidInput
	}

	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidInput
		}
		return nil, err
	}
	if client.Role != models.RoleMember {
		return nil, ErrInvalidInput
	}

	assignment, err := s.clientRepo.Assign(ctx, trainerID, clientID, notes)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return assignment, nil
}

func (s *TrainerService) ListClients(ctx context.Context, trainerID int64) ([]models.TrainerClient, error) {
	return s.clientRepo.ListByTrainerID(ctx, trainerID)
}

func (s *TrainerService) UpdateClientNotes(ctx context.Context, trainerID, clientID int64, notes *string) (*models.TrainerClient, error) {
	assignment, err := s.clientRepo.UpdateNotes(ctx, trainerID, clientID, notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoAccess
		}
		return nil, err
	}
	return assignment, nil
}

func (s *TrainerService) UnassignClient(ctx context.Context, trainerID, clientID int64) error {
	if err := s.clientRepo.Unassign(ctx, trainerID, clientID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNoAccess
		}
		return err
	}
	return nil
}

// ManagesClient reports whether the trainer has the given user assigned.
func (s *TrainerService) ManagesClient(ctx context.Context, trainerID, clientID int64) (bool, error) {
	_, err := s.clientRepo.Get(ctx, trainerID, clientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type CreateTaskInput struct {
	ClientID    *int64
	Title       string
	Description *string
	Priority    string
	DueDate     *time.Time
}

func (s *TrainerService) CreateTask(ctx context.Context, trainerID int64, input CreateTaskInput) (*models.TrainerTask, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrInvalidInput
	}
	priority := input.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !models.ValidTaskPriority(priority) {
		return nil, ErrInvalidInput
	}
	if input.ClientID != nil {
		manages, err := s.ManagesClient(ctx, trainerID, *input.ClientID)
		if err != nil {
			return nil, err
		}
		if !manages {
			return nil, ErrNoAccess
		}
	}
	return s.taskRepo.Create(ctx, repository.CreateTrainerTaskInput{
		TrainerID:   trainerID,
		ClientID:    input.ClientID,
		Title:       title,
		Description: input.Description,
		Priority:    priority,
		DueDate:     input.DueDate,
	})
}

func (s *TrainerService) ListTasks(ctx context.Context, trainerID int64, status, priority string) ([]models.TrainerTask, error) {
	if status != "" && !models.ValidTaskStatus(status) {
		return nil, ErrInvalidInput
	}
	if priority != "" && !models.ValidTaskPriority(priority) {
		return nil, ErrInvalidInput
	}
	return s.taskRepo.List(ctx, repository.TrainerTaskListFilter{
		TrainerID: trainerID,
		Status:    status,
		Priority:  priority,
	})
}

type UpdateTaskInput struct {
	Title       string
	Description *string
	Priority    string
	Status      string
	DueDate     *time.Time
}

func (s *TrainerService) UpdateTask(ctx context.Context, trainerID, taskID int64, input UpdateTaskInput) (*models.TrainerTask, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || !models.ValidTaskPriority(input.Priority) || !models.ValidTaskStatus(input.Status) {
		return nil, ErrInvalidInput
	}
	if _, err := s.authorizeTaskMutation(ctx, trainerID, taskID); err != nil {
		return nil, err
	}
	return s.taskRepo.Update(ctx, taskID, title, input.Description, input.Priority, input.Status, input.DueDate)
}

func (s *TrainerService) DeleteTask(ctx context.Context, trainerID, taskID int64) error {
	if _, err := s.authorizeTaskMutation(ctx, trainerID, taskID); err != nil {
		return err
	}
	return s.taskRepo.Delete(ctx, taskID)
}

func (s *TrainerService) authorizeTaskMutation(ctx context.Context, trainerID, taskID int64) (*models.TrainerTask, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoAccess
		}
		return nil, err
	}
	if err := AuthorizeOwner(trainerID, task.TrainerID); err != nil {
		return nil, err
	}
	return task, nil
}
