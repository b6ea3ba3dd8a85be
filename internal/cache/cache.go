// Package cache holds the optional read-through cache for the comic catalog.
package cache

import (
	"context"

	"pinduca/internal/microservices/http-api/dto"
)

// ComicCache stores rendered comic reads under a generation number.
//
// Readers take Generation before querying the database and pass the same gen
// to Set, so a fill that races with Invalidate lands under a generation nobody
// reads anymore. Implementations never return errors; a failing cache behaves
// as a miss.
type ComicCache interface {
	// Generation returns the current generation; ok is false when the cache
	// cannot be used for this request.
	Generation(ctx context.Context) (gen int64, ok bool)
	GetList(ctx context.Context, gen int64, term string) ([]dto.ComicResponse, bool)
	SetList(ctx context.Context, gen int64, term string, comics []dto.ComicResponse)
	GetDetail(ctx context.Context, gen int64, id int64) (*dto.ComicResponse, bool)
	SetDetail(ctx context.Context, gen int64, id int64, comic *dto.ComicResponse)
	// Invalidate starts a new generation, dropping every cached read.
	Invalidate(ctx context.Context)
}

// Nop is used when no Redis URL is configured.
type Nop struct{}

func (Nop) Generation(context.Context) (int64, bool) { return 0, false }
func (Nop) GetList(context.Context, int64, string) ([]dto.ComicResponse, bool) { return nil, false }
func (Nop) SetList(context.Context, int64, string, []dto.ComicResponse) {}
func (Nop) GetDetail(context.Context, int64, int64) (*dto.ComicResponse, bool) { return nil, false }
func (Nop) SetDetail(context.Context, int64, int64, *dto.ComicResponse) {}
func (Nop) Invalidate(context.Context) {}
