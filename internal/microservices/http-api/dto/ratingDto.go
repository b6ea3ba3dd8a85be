package dto

// RatingRequest for creating or updating a rating
type RatingRequest struct {
	ComicID int64 `json:"gibiId" binding:"required,min=1"`
	Score   int   `json:"avaliacao" binding:"required,min=1,max=5"`
}
