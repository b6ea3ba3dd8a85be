package handler

import (
	"net/http"

	"pinduca/internal/microservices/http-api/dto"
	"pinduca/internal/microservices/http-api/middleware"
	"pinduca/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RatingHandler struct {
	ratingService service.RatingService
	logger        *zap.Logger
}

func NewRatingHandler(ratingService service.RatingService, logger *zap.Logger) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		logger:        logger,
	}
}

// RegisterRoutes registers rating-related routes
func (h *RatingHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	ratings := rg.Group("/nota")
	{
		ratings.GET("/:gibiId", h.List) // every rating of a comic

		ratings.POST("", requireAuth, h.Create)
		ratings.PUT("/:id", requireAuth, h.Update)
		ratings.DELETE("/:id", requireAuth, h.Delete)
	}
}

// GET /nota/:gibiId
func (h *RatingHandler) List(c *gin.Context) {
	comicID, ok := parseID(c, "gibiId")
	if !ok {
		return
	}

	ratings, err := h.ratingService.ListByComic(c.Request.Context(), comicID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ratings)
}

// POST /nota
func (h *RatingHandler) Create(c *gin.Context) {
	var req dto.RatingRequest
	if !bindJSON(c, &req) {
		return
	}

	rating, err := h.ratingService.Create(c.Request.Context(), req.ComicID, req.Score, middleware.Principal(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, rating)
}

// PUT /nota/:id
func (h *RatingHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.RatingRequest
	if !bindJSON(c, &req) {
		return
	}

	rating, err := h.ratingService.Update(c.Request.Context(), id, req.ComicID, req.Score, middleware.Principal(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// DELETE /nota/:id
func (h *RatingHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.ratingService.Delete(c.Request.Context(), id, middleware.Principal(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
