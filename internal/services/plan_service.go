package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/GymAppBack/internal/models"
	"github.com/saeid-a/GymAppBack/internal/repository"
)

type planStore interface {
	Create(ctx context.Context, userID int64, friendlyName string) (*models.WorkoutPlan, error)
	GetByID(ctx context.Context, planID int64) (*models.WorkoutPlan, error)
	ListByUserID(ctx context.Context, userID int64) ([]models.WorkoutPlan, error)
	Rename(ctx context.Context, planID int64, friendlyName string) (*models.WorkoutPlan, error)
	Delete(ctx context.Context, planID int64) error
	CreateItem(ctx context.Context, input repository.CreatePlanItemInput) (*models.WorkoutPlanItem, error)
	ListItemsByPlanID(ctx context.Context, planID int64) ([]models.WorkoutPlanItem, error)
	UpdateItemOrder(ctx context.Context, itemID int64, order int) error
	DeleteItem(ctx context.Context, itemID int64) error
	CreateSet(ctx context.Context, input repository.CreatePlanItemSetInput) (*models.WorkoutPlanItemSet, error)
	ListSetsByItemIDs(ctx context.Context, itemIDs []int64) ([]models.WorkoutPlanItemSet, error)
	UpdateSet(ctx context.Context, setID int64, reps, weight, rest string) (*models.WorkoutPlanItemSet, error)
	DeleteSet(ctx context.Context, setID int64) error
}

type exerciseReader interface {
	GetByID(ctx context.Context, exerciseID int64) (*models.Exercise, error)
}

type PlanService struct {
	planRepo     planStore
	exerciseRepo exerciseReader
}

func NewPlanService(planRepo *repository.WorkoutPlanRepository, exerciseRepo *repository.ExerciseRepository) *PlanService {
	return &PlanService{planRepo: planRepo, exerciseRepo: exerciseRepo}
}

// GetPlan assembles the full aggregate: the plan row, its items ordered by
// display order, and every item's sets grouped in one query. An item without
// sets carries an empty slice, a plan without items an empty items slice.
// Errors never produce a partial aggregate.
func (s *PlanService) GetPlan(ctx context.Context, planID int64) (*models.WorkoutPlanDetail, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	detail := &models.WorkoutPlanDetail{
		WorkoutPlan: *plan,
		Items:       []models.WorkoutPlanItemDetail{},
	}

	items, err := s.planRepo.ListItemsByPlanID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return detail, nil
	}

	itemIDs := make([]int64, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}

	sets, err := s.planRepo.ListSetsByItemIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	setsByItem := make(map[int64][]models.WorkoutPlanItemSet, len(items))
	for _, set := range sets {
		setsByItem[set.ItemID] = append(setsByItem[set.ItemID], set)
	}

	for _, item := range items {
		itemSets, ok := setsByItem[item.ID]
		if !ok {
			itemSets = []models.WorkoutPlanItemSet{}
		}
		detail.Items = append(detail.Items, models.WorkoutPlanItemDetail{
			WorkoutPlanItem: item,
			Sets:            itemSets,
		})
	}

	return detail, nil
}

func (s *PlanService) CreatePlan(ctx context.Context, actorID int64, friendlyName string) (*models.WorkoutPlan, error) {
	friendlyName = strings.TrimSpace(friendlyName)
	if friendlyName == "" {
		return nil, ErrInvalidInput
	}
	return s.planRepo.Create(ctx, actorID, friendlyName)
}

func (s *PlanService) ListPlans(ctx context.Context, actorID int64) ([]models.WorkoutPlan, error) {
	return s.planRepo.ListByUserID(ctx, actorID)
}

func (s *PlanService) GetOwnedPlan(ctx context.Context, actorID, planID int64) (*models.WorkoutPlanDetail, error) {
	return s.authorizePlanMutation(ctx, actorID, planID)
}

func (s *PlanService) RenamePlan(ctx context.Context, actorID, planID int64, friendlyName string) (*models.WorkoutPlan, error) {
	friendlyName = strings.TrimSpace(friendlyName)
	if friendlyName == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.authorizePlanMutation(ctx, actorID, planID); err != nil {
		return nil, err
	}
	return s.planRepo.Rename(ctx, planID, friendlyName)
}

func (s *PlanService) DeletePlan(ctx context.Context, actorID, planID int64) error {
	if _, err := s.authorizePlanMutation(ctx, actorID, planID); err != nil {
		return err
	}
	return s.planRepo.Delete(ctx, planID)
}

func (s *PlanService) AddItem(ctx context.Context, actorID, planID, exerciseID int64, order int) (*models.WorkoutPlanItem, error) {
	if exerciseID <= 0 || order < 0 {
		return nil, ErrInvalidInput
	}
	if _, err := s.authorizePlanMutation(ctx, actorID, planID); err != nil {
		return nil, err
	}
	if _, err := s.exerciseRepo.GetByID(ctx, exerciseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidInput
		}
		return nil, err
	}
	return s.planRepo.CreateItem(ctx, repository.CreatePlanItemInput{
		PlanID:     planID,
		ExerciseID: exerciseID,
		Order:      order,
	})
}

func (s *PlanService) RemoveItem(ctx context.Context, actorID, planID, itemID int64) error {
	detail, err := s.authorizePlanMutation(ctx, actorID, planID)
	if err != nil {
		return err
	}
	if !planHasItem(detail, itemID) {
		return ErrNoAccess
	}
	return s.planRepo.DeleteItem(ctx, itemID)
}

// ReorderItems assigns positions 0..n-1 following the given id order and
// persists only the items whose position actually changed.
func (s *PlanService) ReorderItems(ctx context.Context, actorID, planID int64, orderedItemIDs []int64) (*models.WorkoutPlanDetail, error) {
	detail, err := s.authorizePlanMutation(ctx, actorID, planID)
	if err != nil {
		return nil, err
	}
	if len(orderedItemIDs) != len(detail.Items) {
		return nil, ErrInvalidInput
	}

	currentOrder := make(map[int64]int, len(detail.Items))
	for _, item := range detail.Items {
		currentOrder[item.ID] = item.Order
	}

	for position, itemID := range orderedItemIDs {
		existing, ok := currentOrder[itemID]
		if !ok {
			return nil, ErrInvalidInput
		}
		if existing == position {
			continue
		}
		if err := s.planRepo.UpdateItemOrder(ctx, itemID, position); err != nil {
			return nil, err
		}
	}

	return s.GetPlan(ctx, planID)
}

// SetItemOrder moves one item to the given position without touching its
// siblings; bulk moves go through ReorderItems.
func (s *PlanService) SetItemOrder(ctx context.Context, actorID, planID, itemID int64, order int) error {
	if order < 0 {
		return ErrInvalidInput
	}
	detail, err := s.authorizePlanMutation(ctx, actorID, planID)
	if err != nil {
		return err
	}
	if !planHasItem(detail, itemID) {
		return ErrNoAccess
	}
	return s.planRepo.UpdateItemOrder(ctx, itemID, order)
}

func (s *PlanService) AddSet(ctx context.Context, actorID, planID, itemID int64, reps, weight, rest string) (*models.WorkoutPlanItemSet, error) {
	detail, err := s.authorizePlanMutation(ctx, actorID, planID)
	if err != nil {
		return nil, err
	}
	if !planHasItem(detail, itemID) {
		return nil, ErrNoAccess
	}
	return s.planRepo.CreateSet(ctx, repository.CreatePlanItemSetInput{
		ItemID: itemID,
		Reps:   reps,
		Weight: weight,
		Rest:   rest,
	})
}

func (s *PlanService) UpdateSet(ctx context.Context, actorID, planID, setID int64, reps, weight, rest string) (*models.WorkoutPlanItemSet, error) {
	detail, err := s.authorizePlanMutation(ctx, actorID, planID)
	if err != nil {
		return nil, err
	}
	if !planHasSet(detail, setID) {
		return nil, ErrNoAccess
	}
	return s.planRepo.UpdateSet(ctx, setID, reps, weight, rest)
}

func (s *PlanService) RemoveSet(ctx context.Context, actorID, planID, setID int64) error {
	detail, err := s.authorizePlanMutation(ctx, actorID, planID)
	if err != nil {
		return err
	}
	if !planHasSet(detail, setID) {
		return ErrNoAccess
	}
	return s.planRepo.DeleteSet(ctx, setID)
}

// authorizePlanMutation re-fetches the whole target aggregate and applies the
// ownership policy; missing plan and foreign plan are indistinguishable to
// the caller.
func (s *PlanService) authorizePlanMutation(ctx context.Context, actorID, planID int64) (*models.WorkoutPlanDetail, error) {
	detail, err := s.GetPlan(ctx, planID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNoAccess
		}
		return nil, err
	}
	if err := AuthorizeOwner(actorID, detail.UserID); err != nil {
		return nil, err
	}
	return detail, nil
}

func planHasItem(detail *models.WorkoutPlanDetail, itemID int64) bool {
	for _, item := range detail.Items {
		if item.ID == itemID {
			return true
		}
	}
	return false
}

func planHasSet(detail *models.WorkoutPlanDetail, setID int64) bool {
	for _, item := range detail.Items {
		for _, set := range item.Sets {
			if set.ID == setID {
				return true
			}
		}
	}
	return false
}
