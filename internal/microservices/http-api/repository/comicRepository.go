package repository

import (
	"context"
	"strings"

	"pinduca/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ComicFilter narrows List. Term is matched against the normalized
// title_search and author_search columns and must already be normalized.
type ComicFilter struct {
	Year *int
	Term string
}

type ComicRepository interface {
	Create(ctx context.Context, comic *models.Comic) error
	// FindByID returns the comic whatever its deleted state.
	FindByID(ctx context.Context, id int64) (*models.Comic, error)
	FindActiveByID(ctx context.Context, id int64) (*models.Comic, error)
	FindActiveByTitle(ctx context.Context, title string) (*models.Comic, error)
	Update(ctx context.Context, comic *models.Comic) error
	MarkDeleted(ctx context.Context, id int64) error
	List(ctx context.Context, filter ComicFilter) ([]models.Comic, error)
	ListReviewedBy(ctx context.Context, userID int64) ([]models.Comic, error)
}

type comicRepository struct {
	db *gorm.DB
}

func NewComicRepository(db *gorm.DB) ComicRepository {
	return &comicRepository{db: db}
}

// activeComics is the single place the soft-delete filter is applied.
func activeComics(db *gorm.DB) *gorm.DB {
	return db.Where("comics.deleted = ?", false)
}

func withOwner(db *gorm.DB) *gorm.DB {
	return db.Preload("Owner", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "name")
	})
}

func (r *comicRepository) Create(ctx context.Context, comic *models.Comic) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comic).Error
}

func (r *comicRepository) FindByID(ctx context.Context, id int64) (*models.Comic, error) {
	var comic models.Comic
	if err := r.db.WithContext(ctx).First(&comic, id).Error; err != nil {
		return nil, err
	}
	return &comic, nil
}

func (r *comicRepository) FindActiveByID(ctx context.Context, id int64) (*models.Comic, error) {
	var comic models.Comic
	if err := r.db.WithContext(ctx).
		Scopes(activeComics, withOwner).
		First(&comic, id).Error; err != nil {
		return nil, err
	}
	return &comic, nil
}

func (r *comicRepository) FindActiveByTitle(ctx context.Context, title string) (*models.Comic, error) {
	var comic models.Comic
	if err := r.db.WithContext(ctx).
		Scopes(activeComics).
		Where("LOWER(title) = LOWER(?)", title).
		First(&comic).Error; err != nil {
		return nil, err
	}
	return &comic, nil
}

// Update replaces the editable columns; owner and deleted flag are left alone.
func (r *comicRepository) Update(ctx context.Context, comic *models.Comic) error {
	return r.db.WithContext(ctx).
		Model(comic).
		Omit(clause.Associations).
		Select("title", "year", "synopsis", "cover_url", "author", "title_search", "author_search", "updated_at").
		Updates(comic).Error
}

func (r *comicRepository) MarkDeleted(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Comic{}).
		Where("id = ?", id).
		Update("deleted", true).Error
}

func (r *comicRepository) List(ctx context.Context, filter ComicFilter) ([]models.Comic, error) {
	query := r.db.WithContext(ctx).Scopes(activeComics, withOwner)

	if filter.Year != nil {
		query = query.Where("year = ?", *filter.Year)
	} else if filter.Term != "" {
		pattern := "%" + escapeLike(filter.Term) + "%"
		query = query.Where("title_search LIKE ? OR author_search LIKE ?", pattern, pattern)
	}

	var comics []models.Comic
	if err := query.Order("title ASC").Order("id ASC").Find(&comics).Error; err != nil {
		return nil, err
	}
	return comics, nil
}

func (r *comicRepository) ListReviewedBy(ctx context.Context, userID int64) ([]models.Comic, error) {
	var comics []models.Comic
	err := r.db.WithContext(ctx).
		Scopes(activeComics, withOwner).
		Where(
			"EXISTS (SELECT 1 FROM ratings WHERE ratings.comic_id = comics.id AND ratings.user_id = ?) OR "+
				"EXISTS (SELECT 1 FROM comments WHERE comments.comic_id = comics.id AND comments.user_id = ?)",
			userID, userID,
		).
		Order("title ASC").Order("id ASC").
		Find(&comics).Error
	if err != nil {
		return nil, err
	}
	return comics, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input literal inside a LIKE pattern (backslash is
// the default escape character in PostgreSQL).
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
