package service

import (
	"context"
	"errors"
	"fmt"

	"pinduca/database"
	"pinduca/internal/microservices/http-api/dto"
	"pinduca/internal/microservices/http-api/repository"
	"pinduca/internal/policy"

	"gorm.io/gorm"
)

type UserService interface {
	Get(ctx context.Context, id int64, p *policy.Principal) (*dto.UserResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateUserRequest, p *policy.Principal) (*dto.UserResponse, error)
	Delete(ctx context.Context, id int64, p *policy.Principal) error
	// List is restricted to ADMIN principals.
	List(ctx context.Context, p *policy.Principal) ([]dto.UserResponse, error)
	// ReviewedComics lists non-deleted comics the principal rated or commented on.
	ReviewedComics(ctx context.Context, p *policy.Principal) ([]dto.ComicResponse, error)
}

type userService struct {
	userRepo  repository.UserRepository
	comicRepo repository.ComicRepository
	hasher    PasswordHasher
}

func NewUserService(userRepo repository.UserRepository, comicRepo repository.ComicRepository, hasher PasswordHasher) UserService {
	return &userService{
		userRepo:  userRepo,
		comicRepo: comicRepo,
		hasher:    hasher,
	}
}

func (s *userService) Get(ctx context.Context, id int64, p *policy.Principal) (*dto.UserResponse, error) {
	if p == nil {
		return nil, ErrAuthRequired
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, userLookupError(err)
	}

	if err := authorize(policy.ActionRead, policy.ResourceUser, user.ID, p, ErrUserForbidden); err != nil {
		return nil, err
	}

	resp := dto.FromModelToUserResponse(user)
	return &resp, nil
}

// Update applies a partial update; a new password is hashed before saving.
func (s *userService) Update(ctx context.Context, id int64, req dto.UpdateUserRequest, p *policy.Principal) (*dto.UserResponse, error) {
	if p == nil {
		return nil, ErrAuthRequired
	}
	if req.Empty() {
		return nil, ErrNoUpdateData
	}
	if err := validateUserUpdate(&req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, userLookupError(err)
	}

	if err := authorize(policy.ActionUpdate, policy.ResourceUser, user.ID, p, ErrUserForbidden); err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		existing, err := s.userRepo.FindByEmail(ctx, *req.Email)
		switch {
		case err == nil && existing.ID != user.ID:
			return nil, ErrEmailInUse
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("find user by email: %w", err)
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Password != nil {
		hashed, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if _, ok := database.UniqueViolation(err); ok {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	resp := dto.FromModelToUserResponse(user)
	return &resp, nil
}

func validateUserUpdate(req *dto.UpdateUserRequest) error {
	if req.Name != nil && !minRunes(*req.Name, minNameLen) {
		return Validationf("nome", "O nome deve ter pelo menos %d caracteres.", minNameLen)
	}
	if req.Email != nil {
		email := NormalizeEmail(*req.Email)
		if !validEmail(email) {
			return Validationf("email", "Email inválido.")
		}
		req.Email = &email
	}
	if req.Password != nil && len(*req.Password) < minPasswordLen {
		return Validationf("senha", "A senha deve ter pelo menos %d caracteres.", minPasswordLen)
	}
	return nil
}

// Delete removes the account. Users that still own comics, ratings or
// comments cannot be deleted.
func (s *userService) Delete(ctx context.Context, id int64, p *policy.Principal) error {
	if p == nil {
		return ErrAuthRequired
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return userLookupError(err)
	}

	if err := authorize(policy.ActionDelete, policy.ResourceUser, user.ID, p, ErrUserForbidden); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		if _, ok := database.ForeignKeyViolation(err); ok {
			return ErrUserHasRecords
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *userService) List(ctx context.Context, p *policy.Principal) ([]dto.UserResponse, error) {
	if p == nil {
		return nil, ErrAuthRequired
	}
	if !p.IsAdmin() {
		return nil, ErrAdminOnly
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return dto.FromModelsToUserResponses(users), nil
}

func (s *userService) ReviewedComics(ctx context.Context, p *policy.Principal) ([]dto.ComicResponse, error) {
	if p == nil {
		return nil, ErrAuthRequired
	}

	comics, err := s.comicRepo.ListReviewedBy(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("list reviewed comics: %w", err)
	}
	return dto.FromModelsToComicResponses(comics), nil
}

func userLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return fmt.Errorf("find user: %w", err)
}
