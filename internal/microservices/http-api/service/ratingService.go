package service

import (
	"context"
	"errors"
	"fmt"

	"pinduca/internal/microservices/http-api/models"
	"pinduca/internal/microservices/http-api/repository"
	"pinduca/internal/policy"

	"gorm.io/gorm"
)

const (
	MinScore = 1
	MaxScore = 5
)

type RatingService interface {
	ListByComic(ctx context.Context, comicID int64) ([]models.Rating, error)
	Create(ctx context.Context, comicID int64, score int, p *policy.Principal) (*models.Rating, error)
	Update(ctx context.Context, id, comicID int64, score int, p *policy.Principal) (*models.Rating, error)
	Delete(ctx context.Context, id int64, p *policy.Principal) error
}

type ratingService struct {
	ratingRepo repository.RatingRepository
	comicRepo  repository.ComicRepository
}

func NewRatingService(ratingRepo repository.RatingRepository, comicRepo repository.ComicRepository) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		comicRepo:  comicRepo,
	}
}

// ListByComic returns every rating for the comic, newest first.
func (s *ratingService) ListByComic(ctx context.Context, comicID int64) ([]models.Rating, error) {
	ratings, err := s.ratingRepo.ListByComic(ctx, comicID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return ratings, nil
}

// Create adds a rating. A user may rate the same comic any number of times.
func (s *ratingService) Create(ctx context.Context, comicID int64, score int, p *policy.Principal) (*models.Rating, error) {
	if err := authorize(policy.ActionCreate, policy.ResourceRating, 0, p, ErrForbidden); err != nil {
		return nil, err
	}
	if err := validateScore(score); err != nil {
		return nil, err
	}

	// Check if comic exists; deleted comics still accept ratings
	if err := s.ensureComic(ctx, comicID); err != nil {
		return nil, err
	}

	rating := &models.Rating{
		ComicID: comicID,
		UserID:  p.UserID,
		Score:   score,
	}
	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		return nil, fmt.Errorf("create rating: %w", err)
	}
	return rating, nil
}

func (s *ratingService) Update(ctx context.Context, id, comicID int64, score int, p *policy.Principal) (*models.Rating, error) {
	if p == nil {
		return nil, ErrAuthRequired
	}
	if err := validateScore(score); err != nil {
		return nil, err
	}
	if comicID <= 0 {
		return nil, Validationf("gibiId", "ID do gibi inválido.")
	}

	rating, err := s.ratingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ratingLookupError(err)
	}
	if err := authorize(policy.ActionUpdate, policy.ResourceRating, rating.UserID, p, ErrRatingEditDenied); err != nil {
		return nil, err
	}

	if comicID != rating.ComicID {
		if err := s.ensureComic(ctx, comicID); err != nil {
			return nil, err
		}
		rating.ComicID = comicID
	}
	rating.Score = score

	if err := s.ratingRepo.Update(ctx, rating); err != nil {
		return nil, fmt.Errorf("update rating: %w", err)
	}
	return rating, nil
}

func (s *ratingService) Delete(ctx context.Context, id int64, p *policy.Principal) error {
	if p == nil {
		return ErrAuthRequired
	}

	rating, err := s.ratingRepo.FindByID(ctx, id)
	if err != nil {
		return ratingLookupError(err)
	}
	if err := authorize(policy.ActionDelete, policy.ResourceRating, rating.UserID, p, ErrRatingDeleteDenied); err != nil {
		return err
	}

	if err := s.ratingRepo.Delete(ctx, rating.ID); err != nil {
		return ratingLookupError(err)
	}
	return nil
}

func (s *ratingService) ensureComic(ctx context.Context, comicID int64) error {
	if _, err := s.comicRepo.FindByID(ctx, comicID); err != nil {
		return comicLookupError(err)
	}
	return nil
}

func validateScore(score int) error {
	if score < MinScore || score > MaxScore {
		return Validationf("avaliacao", "A nota deve ser um número inteiro entre %d e %d.", MinScore, MaxScore)
	}
	return nil
}

func ratingLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRatingNotFound
	}
	return fmt.Errorf("find rating: %w", err)
}
