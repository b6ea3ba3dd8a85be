package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pinduca/database"
	"pinduca/internal/config"
	"pinduca/internal/microservices/http-api/models"
	"pinduca/internal/microservices/http-api/repository"
	"pinduca/internal/policy"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// PasswordHasher is satisfied by auth.BcryptHasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, providedPassword string) error
}

// Claims is the token payload: {userId, role, iat, exp}.
type Claims struct {
	UserID int64       `json:"userId"`
	Role   policy.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Principal() *policy.Principal {
	return &policy.Principal{UserID: c.UserID, Role: c.Role}
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (token string, user *models.User, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo  repository.UserRepository
	hasher    PasswordHasher
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(userRepo repository.UserRepository, hasher PasswordHasher, cfg *config.Config) AuthService {
	return &authService{
		userRepo:  userRepo,
		hasher:    hasher,
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  cfg.JWTExpiry,
		now:       time.Now,
	}
}

// Register creates a USER account.
func (s *authService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if err := validateRegistration(name, email, password); err != nil {
		return nil, err
	}

	// Check if email exists
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         policy.RoleUser,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if _, ok := database.UniqueViolation(err); ok {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func validateRegistration(name, email, password string) error {
	switch {
	case !minRunes(name, minNameLen):
		return Validationf("nome", "O nome deve ter pelo menos %d caracteres.", minNameLen)
	case !validEmail(email):
		return Validationf("email", "Email inválido.")
	case len(password) < minPasswordLen:
		return Validationf("senha", "A senha deve ter pelo menos %d caracteres.", minPasswordLen)
	}
	return nil
}

// Login authenticates a user and returns a signed token upon success.
func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, fmt.Errorf("find user by email: %w", err)
		}
		// User not found, we use dummy compare to mitigate timing attacks (always take same time)
		_ = s.hasher.Verify(s.dummy(), password)
		return "", nil, ErrInvalidCredentials
	}

	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	return token, user, nil
}

// dummy returns a hash at the configured cost so unknown emails cost as much as wrong passwords.
func (s *authService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("pinduca-dummy-password")
	})
	return s.dummyHash
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken verifies the HMAC signature and expiry of tokenString.
func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid || claims.UserID <= 0 || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
