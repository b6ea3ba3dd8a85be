package repository

import (
	"context"

	"pinduca/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type RatingRepository interface {
	Create(ctx context.Context, rating *models.Rating) error
	FindByID(ctx context.Context, id int64) (*models.Rating, error)
	Update(ctx context.Context, rating *models.Rating) error
	Delete(ctx context.Context, id int64) error
	ListByComic(ctx context.Context, comicID int64) ([]models.Rating, error)
	// LatestScores returns, per user, the score of that user's most recently
	// created rating for the comic. Users without a rating are absent.
	LatestScores(ctx context.Context, comicID int64, userIDs []int64) (map[int64]int, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Create a new rating
func (r *ratingRepository) Create(ctx context.Context, rating *models.Rating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

func (r *ratingRepository) FindByID(ctx context.Context, id int64) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.WithContext(ctx).First(&rating, id).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

// Update an existing rating
func (r *ratingRepository) Update(ctx context.Context, rating *models.Rating) error {
	return r.db.WithContext(ctx).
		Model(rating).
		Select("comic_id", "score", "updated_at").
		Updates(rating).Error
}

// Delete a rating by id
func (r *ratingRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Rating{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByComic retrieves all ratings for a specific comic
func (r *ratingRepository) ListByComic(ctx context.Context, comicID int64) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.WithContext(ctx).
		Where("comic_id = ?", comicID).
		Order("created_at DESC").Order("id DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *ratingRepository) LatestScores(ctx context.Context, comicID int64, userIDs []int64) (map[int64]int, error) {
	scores := make(map[int64]int, len(userIDs))
	if len(userIDs) == 0 {
		return scores, nil
	}

	var rows []struct {
		UserID int64
		Score  int
	}
	err := r.db.WithContext(ctx).Raw(
		`SELECT DISTINCT ON (user_id) user_id, score
		   FROM ratings
		  WHERE comic_id = ? AND user_id IN ?
		  ORDER BY user_id, created_at DESC, id DESC`,
		comicID, userIDs,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		scores[row.UserID] = row.Score
	}
	return scores, nil
}
