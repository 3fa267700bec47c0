package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/GymAppBack/internal/models"
	"github.com/saeid-a/GymAppBack/internal/repository"
)

type programStore interface {
	Create(ctx context.Context, input repository.CreateClientProgramInput) (*models.ClientProgram, error)
	GetByID(ctx context.Context, programID int64) (*models.ClientProgram, error)
	ListByClientID(ctx context.Context, clientID int64) ([]models.ClientProgram, error)
	ListByTrainerID(ctx context.Context, trainerID int64) ([]models.ClientProgram, error)
}

type clientAssignmentReader interface {
	Get(ctx context.Context, trainerID, clientID int64) (*models.TrainerClient, error)
}

type ProgramService struct {
	programRepo programStore
	clientRepo  clientAssignmentReader
}

func NewProgramService(programRepo *repository.ClientProgramRepository, clientRepo *repository.TrainerClientRepository) *ProgramService {
	return &ProgramService{programRepo: programRepo, clientRepo: clientRepo}
}

// CreateProgram assigns a plan to a managed client for a number of weeks on
// fixed weekdays (0=Sunday..6=Saturday). Trainers can only create programs
// for clients assigned to them.
func (s *ProgramService) CreateProgram(
	ctx context.Context,
	trainerID, clientID, planID int64,
	name string,
	durationWeeks int,
	scheduleDays []int,
) (*models.ClientProgram, error) {
	name = strings.TrimSpace(name)
	if name == "" || planID <= 0 || durationWeeks <= 0 || len(scheduleDays) == 0 {
		return nil, ErrInvalidInput
	}
	for _, day := range scheduleDays {
		if day < 0 || day > 6 {
			return nil, ErrInvalidInput
		}
	}

	if _, err := s.clientRepo.Get(ctx, trainerID, clientID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoAccess
		}
		return nil, err
	}

	return s.programRepo.Create(ctx, repository.CreateClientProgramInput{
		TrainerID:     trainerID,
		ClientID:      clientID,
		PlanID:        planID,
		Name:          name,
		DurationWeeks: durationWeeks,
		ScheduleDays:  scheduleDays,
	})
}

func (s *ProgramService) ListProgramsForTrainer(ctx context.Context, trainerID int64) ([]models.ClientProgram, error) {
	return s.programRepo.ListByTrainerID(ctx, trainerID)
}

func (s *ProgramService) ListProgramsForClient(ctx context.Context, clientID int64) ([]models.ClientProgram, error) {
	return s.programRepo.ListByClientID(ctx, clientID)
}
