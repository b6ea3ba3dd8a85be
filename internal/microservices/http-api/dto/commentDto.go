package dto

import (
	"time"

	"pinduca/internal/microservices/http-api/models"
)

type CreateCommentRequest struct {
	ComicID int64  `json:"gibiId" binding:"required,min=1"`
	Content string `json:"conteudo" binding:"required,min=3,max=5000"`
}

type UpdateCommentRequest struct {
	Content string `json:"conteudo" binding:"required,min=3,max=5000"`
}

// AuthorRating is the author's latest score for the commented comic.
type AuthorRating struct {
	Score int `json:"avaliacao"`
}

type CommentAuthor struct {
	ID      int64          `json:"id"`
	Name    string         `json:"nome"`
	Ratings []AuthorRating `json:"notas"`
}

type CommentResponse struct {
	ID        int64          `json:"id"`
	Content   string         `json:"conteudo"`
	CreatedAt time.Time      `json:"createdAt"`
	ComicID   int64          `json:"gibiId"`
	UserID    int64          `json:"usuarioId"`
	User      *CommentAuthor `json:"usuario"`
}

// FromModelToCommentResponse builds the enriched response. score is the
// author's latest rating for the comic, nil when there is none.
func FromModelToCommentResponse(comment *models.Comment, score *int) CommentResponse {
	author := &CommentAuthor{ID: comment.UserID, Ratings: []AuthorRating{}}
	if comment.User != nil {
		author.Name = comment.User.Name
	}
	if score != nil {
		author.Ratings = append(author.Ratings, AuthorRating{Score: *score})
	}

	return CommentResponse{
		ID:        comment.ID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		ComicID:   comment.ComicID,
		UserID:    comment.UserID,
		User:      author,
	}
}
