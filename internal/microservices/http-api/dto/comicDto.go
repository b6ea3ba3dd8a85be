package dto

import (
	"time"

	"pinduca/internal/microservices/http-api/models"
)

// ComicRequest is the body of POST /gibi and PUT /gibi/:id. Updates replace
// every editable field, so omitted optionals are cleared.
type ComicRequest struct {
	Title    string  `json:"titulo" binding:"required,min=3,max=255"`
	Year     int     `json:"ano" binding:"required,comicyear"`
	Synopsis *string `json:"sinopse" binding:"omitempty,max=5000"`
	CoverURL *string `json:"capaUrl" binding:"omitempty,url,max=2048"`
	Author   *string `json:"autor" binding:"omitempty,min=2,max=255"`
}

// OwnerSummary is the owner as embedded in comic responses.
type OwnerSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}

type ComicResponse struct {
	ID        int64         `json:"id"`
	Title     string        `json:"titulo"`
	Year      int           `json:"ano"`
	Synopsis  *string       `json:"sinopse"`
	CoverURL  *string       `json:"capaUrl"`
	Author    *string       `json:"autor"`
	OwnerID   int64         `json:"usuarioId"`
	Deleted   bool          `json:"excluido"`
	Owner     *OwnerSummary `json:"usuario,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func FromModelToComicResponse(comic *models.Comic) ComicResponse {
	resp := ComicResponse{
		ID:        comic.ID,
		Title:     comic.Title,
		Year:      comic.Year,
		Synopsis:  comic.Synopsis,
		CoverURL:  comic.CoverURL,
		Author:    comic.Author,
		OwnerID:   comic.OwnerID,
		Deleted:   comic.Deleted,
		CreatedAt: comic.CreatedAt,
		UpdatedAt: comic.UpdatedAt,
	}
	if comic.Owner != nil {
		resp.Owner = &OwnerSummary{ID: comic.Owner.ID, Name: comic.Owner.Name}
	}
	return resp
}

func FromModelsToComicResponses(comics []models.Comic) []ComicResponse {
	out := make([]ComicResponse, 0, len(comics))
	for i := range comics {
		out = append(out, FromModelToComicResponse(&comics[i]))
	}
	return out
}
