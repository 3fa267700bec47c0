package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/GymAppBack/internal/models"
	"github.com/saeid-a/GymAppBack/internal/repository"
)

const exerciseCacheTTL = 15 * time.Minute

type exerciseSearcher interface {
	GetByID(ctx context.Context, exerciseID int64) (*models.Exercise, error)
	Search(ctx context.Context, filter repository.ExerciseSearchFilter) ([]models.Exercise, int, error)
}

type ExerciseService struct {
	exerciseRepo exerciseSearcher
	cache        ExerciseCache
	storage      StorageService
}

// NewExerciseService accepts nil cache and storage: without Redis searches
// hit the database directly, without S3 image URLs stay unresolved.
func NewExerciseService(exerciseRepo *repository.ExerciseRepository, cache ExerciseCache, storage StorageService) *ExerciseService {
	return &ExerciseService{exerciseRepo: exerciseRepo, cache: cache, storage: storage}
}

type exerciseSearchPage struct {
	Exercises []models.Exercise `json:"exercises"`
	Total     int               `json:"total"`
}

func (s *ExerciseService) Search(ctx context.Context, filter repository.ExerciseSearchFilter) ([]models.Exercise, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	cacheKey := fmt.Sprintf(
		"exercises:search:%s:%s:%s:%d:%d",
		filter.Query, filter.MuscleGroup, filter.Equipment, filter.Page, filter.Limit,
	)
	if s.cache != nil {
		var page exerciseSearchPage
		hit, err := s.cache.Get(ctx, cacheKey, &page)
		if err != nil {
			log.Printf("exercise cache get: %v", err)
		} else if hit {
			return page.Exercises, page.Total, nil
		}
	}

	exercises, total, err := s.exerciseRepo.Search(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, exerciseSearchPage{Exercises: exercises, Total: total}, exerciseCacheTTL); err != nil {
			log.Printf("exercise cache set: %v", err)
		}
	}

	return exercises, total, nil
}

// GetExercise resolves the catalog row and signs its image keys when object
// storage is configured.
func (s *ExerciseService) GetExercise(ctx context.Context, exerciseID int64) (*models.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if s.storage != nil && len(exercise.ImageKeys) > 0 {
		urls := make([]string, 0, len(exercise.ImageKeys))
		for _, key := range exercise.ImageKeys {
			url, err := s.storage.GetDownloadURL(ctx, key)
			if err != nil {
				log.Printf("exercise image sign %q: %v", key, err)
				continue
			}
			urls = append(urls, url)
		}
		exercise.ImageURLs = urls
	}

	return exercise, nil
}
