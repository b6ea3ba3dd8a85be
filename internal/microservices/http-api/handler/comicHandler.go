package handler

import (
	"net/http"

	"pinduca/internal/microservices/http-api/dto"
	"pinduca/internal/microservices/http-api/middleware"
	"pinduca/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ComicHandler struct {
	comicService service.ComicService
	logger       *zap.Logger
}

func NewComicHandler(comicService service.ComicService, logger *zap.Logger) *ComicHandler {
	return &ComicHandler{comicService: comicService, logger: logger}
}

// RegisterRoutes registers comic routes: reads are public, writes need a token.
func (h *ComicHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	comics := rg.Group("/gibi")
	{
		comics.GET("", h.List)
		comics.GET("/:id", h.Get)

		comics.POST("", requireAuth, h.Create)
		comics.PUT("/:id", requireAuth, h.Update)
		comics.DELETE("/:id", requireAuth, h.Delete)
	}
}

// List searches the catalog
// GET /gibi?q=
func (h *ComicHandler) List(c *gin.Context) {
	comics, err := h.comicService.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, comics)
}

// GET /gibi/:id
func (h *ComicHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	comic, err := h.comicService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, comic)
}

// POST /gibi
func (h *ComicHandler) Create(c *gin.Context) {
	var req dto.ComicRequest
	if !bindJSON(c, &req) {
		return
	}

	comic, err := h.comicService.Create(c.Request.Context(), req, middleware.Principal(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, comic)
}

// PUT /gibi/:id
func (h *ComicHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.ComicRequest
	if !bindJSON(c, &req) {
		return
	}

	comic, err := h.comicService.Update(c.Request.Context(), id, req, middleware.Principal(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, comic)
}

// DELETE /gibi/:id
func (h *ComicHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.comicService.Delete(c.Request.Context(), id, middleware.Principal(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
