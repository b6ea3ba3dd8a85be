package handler

import (
	"net/http"

	"pinduca/internal/microservices/http-api/dto"
	"pinduca/internal/microservices/http-api/middleware"
	"pinduca/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentHandler struct {
	commentService service.CommentService
	logger         *zap.Logger
}

func NewCommentHandler(commentService service.CommentService, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		logger:         logger,
	}
}

// RegisterRoutes registers comment-related routes
func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	comments := rg.Group("/comentario")
	{
		comments.GET("/:gibiId", h.List)

		comments.POST("", requireAuth, h.Create)
		comments.PUT("/:id", requireAuth, h.Update)
		comments.DELETE("/:id", requireAuth, h.Delete)
	}
}

// GET /comentario/:gibiId
func (h *CommentHandler) List(c *gin.Context) {
	comicID, ok := parseID(c, "gibiId")
	if !ok {
		return
	}

	comments, err := h.commentService.ListByComic(c.Request.Context(), comicID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// POST /comentario
func (h *CommentHandler) Create(c *gin.Context) {
	var req dto.CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), req.ComicID, req.Content, middleware.Principal(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// PUT /comentario/:id
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.commentService.Update(c.Request.Context(), id, req.Content, middleware.Principal(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// DELETE /comentario/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), id, middleware.Principal(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
