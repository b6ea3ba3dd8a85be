// Package server assembles the HTTP API and runs it until the context ends.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pinduca/database"
	"pinduca/internal/auth"
	"pinduca/internal/cache"
	"pinduca/internal/config"
	"pinduca/internal/microservices/http-api/handler"
	"pinduca/internal/microservices/http-api/middleware"
	"pinduca/internal/microservices/http-api/repository"
	"pinduca/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services is everything the router needs; tests swap in mocks.
type Services struct {
	Auth     service.AuthService
	Users    service.UserService
	Comics   service.ComicService
	Ratings  service.RatingService
	Comments service.CommentService
	Ping     handler.Pinger
}

// NewServices wires repositories and services over one database pool.
func NewServices(db *gorm.DB, comicCache cache.ComicCache, cfg *config.Config) Services {
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	userRepo := repository.NewUserRepository(db)
	comicRepo := repository.NewComicRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	return Services{
		Auth:     service.NewAuthService(userRepo, hasher, cfg),
		Users:    service.NewUserService(userRepo, comicRepo, hasher),
		Comics:   service.NewComicService(comicRepo, comicCache),
		Ratings:  service.NewRatingService(ratingRepo, comicRepo),
		Comments: service.NewCommentService(commentRepo, ratingRepo, comicRepo),
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
	}
}

// NewRouter builds the gin engine with the middleware chain and every route.
func NewRouter(svc Services, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	handler.RegisterValidators()

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORSOrigins),
		middleware.Timeout(cfg.RequestTimeout),
	)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"erro": "Rota não encontrada."})
	})

	requireAuth := middleware.AuthMiddleware(svc.Auth)
	limiter := middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	root := &r.RouterGroup
	handler.NewHealthHandler(svc.Ping, logger).RegisterRoutes(root)
	handler.NewAuthHandler(svc.Auth, logger).RegisterRoutes(root, limiter.Middleware())
	handler.NewUserHandler(svc.Users, logger).RegisterRoutes(root, requireAuth)
	handler.NewComicHandler(svc.Comics, logger).RegisterRoutes(root, requireAuth)
	handler.NewRatingHandler(svc.Ratings, logger).RegisterRoutes(root, requireAuth)
	handler.NewCommentHandler(svc.Comments, logger).RegisterRoutes(root, requireAuth)

	return r
}

// Run serves h on cfg.HTTPAddr() until ctx is cancelled, then drains
// in-flight requests for at most cfg.ShutdownTimeout.
func Run(ctx context.Context, h http.Handler, cfg *config.Config, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down http server", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
