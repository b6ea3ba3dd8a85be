package service

import (
	"context"
	"fmt"
	"sync"

	"pinduca/internal/microservices/http-api/dto"
	"pinduca/internal/microservices/http-api/models"
	"pinduca/internal/microservices/http-api/repository"
	"pinduca/internal/policy"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, email string, role policy.Role) (*models.User, error) {
	args := m.Called(ctx, email, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockComicRepository mocks the ComicRepository interface
type MockComicRepository struct {
	mock.Mock
}

func (m *MockComicRepository) Create(ctx context.Context, comic *models.Comic) error {
	args := m.Called(ctx, comic)
	return args.Error(0)
}

func (m *MockComicRepository) FindByID(ctx context.Context, id int64) (*models.Comic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comic), args.Error(1)
}

func (m *MockComicRepository) FindActiveByID(ctx context.Context, id int64) (*models.Comic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comic), args.Error(1)
}

func (m *MockComicRepository) FindActiveByTitle(ctx context.Context, title string) (*models.Comic, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comic), args.Error(1)
}

func (m *MockComicRepository) Update(ctx context.Context, comic *models.Comic) error {
	args := m.Called(ctx, comic)
	return args.Error(0)
}

func (m *MockComicRepository) MarkDeleted(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockComicRepository) List(ctx context.Context, filter repository.ComicFilter) ([]models.Comic, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comic), args.Error(1)
}

func (m *MockComicRepository) ListReviewedBy(ctx context.Context, userID int64) ([]models.Comic, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comic), args.Error(1)
}

// MockRatingRepository mocks the RatingRepository interface
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *MockRatingRepository) FindByID(ctx context.Context, id int64) (*models.Rating, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) Update(ctx context.Context, rating *models.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *MockRatingRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRatingRepository) ListByComic(ctx context.Context, comicID int64) ([]models.Rating, error) {
	args := m.Called(ctx, comicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *MockRatingRepository) LatestScores(ctx context.Context, comicID int64, userIDs []int64) (map[int64]int, error) {
	args := m.Called(ctx, comicID, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]int), args.Error(1)
}

// MockCommentRepository mocks the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id int64) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) UpdateContent(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommentRepository) ListByComic(ctx context.Context, comicID int64) ([]models.Comment, error) {
	args := m.Called(ctx, comicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

// memoryComicCache is an in-process cache.ComicCache with the same
// generation semantics as the Redis implementation.
type memoryComicCache struct {
	mu      sync.Mutex
	gen     int64
	entries map[string]any
	// invalidations counts Invalidate calls
	invalidations int
}

func newMemoryComicCache() *memoryComicCache {
	return &memoryComicCache{entries: make(map[string]any)}
}

func (c *memoryComicCache) Generation(context.Context) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, true
}

func (c *memoryComicCache) GetList(_ context.Context, gen int64, term string) ([]dto.ComicResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[fmt.Sprintf("list:%d:%s", gen, term)]
	if !ok {
		return nil, false
	}
	return v.([]dto.ComicResponse), true
}

func (c *memoryComicCache) SetList(_ context.Context, gen int64, term string, comics []dto.ComicResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fmt.Sprintf("list:%d:%s", gen, term)] = comics
}

func (c *memoryComicCache) GetDetail(_ context.Context, gen int64, id int64) (*dto.ComicResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[fmt.Sprintf("detail:%d:%d", gen, id)]
	if !ok {
		return nil, false
	}
	comic := v.(dto.ComicResponse)
	return &comic, true
}

func (c *memoryComicCache) SetDetail(_ context.Context, gen int64, id int64, comic *dto.ComicResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fmt.Sprintf("detail:%d:%d", gen, id)] = *comic
}

func (c *memoryComicCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.invalidations++
}

// plainHasher keeps tests fast; bcrypt itself is covered in internal/auth.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Verify(hashedPassword, providedPassword string) error {
	if hashedPassword != "hashed:"+providedPassword {
		return errMismatch
	}
	return nil
}

var errMismatch = &Error{Kind: KindUnauthenticated, Message: "mismatch"}

func strPtr(s string) *string { return &s }

var (
	owner   = &policy.Principal{UserID: 1, Role: policy.RoleUser}
	someone = &policy.Principal{UserID: 2, Role: policy.RoleUser}
	admin   = &policy.Principal{UserID: 99, Role: policy.RoleAdmin}
)
