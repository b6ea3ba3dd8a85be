package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"pinduca/database"
	"pinduca/internal/cache"
	"pinduca/internal/microservices/http-api/dto"
	"pinduca/internal/microservices/http-api/models"
	"pinduca/internal/microservices/http-api/repository"
	"pinduca/internal/policy"

	"gorm.io/gorm"
)

type ComicService interface {
	// List returns non-deleted comics ordered by title. A four digit term
	// within the accepted year range filters by year, any other term by
	// title or author substring.
	List(ctx context.Context, term string) ([]dto.ComicResponse, error)
	Get(ctx context.Context, id int64) (*dto.ComicResponse, error)
	Create(ctx context.Context, req dto.ComicRequest, p *policy.Principal) (*dto.ComicResponse, error)
	Update(ctx context.Context, id int64, req dto.ComicRequest, p *policy.Principal) (*dto.ComicResponse, error)
	Delete(ctx context.Context, id int64, p *policy.Principal) error
}

type comicService struct {
	comicRepo repository.ComicRepository
	cache     cache.ComicCache
	now       func() time.Time
}

func NewComicService(comicRepo repository.ComicRepository, comicCache cache.ComicCache) ComicService {
	if comicCache == nil {
		comicCache = cache.Nop{}
	}
	return &comicService{
		comicRepo: comicRepo,
		cache:     comicCache,
		now:       time.Now,
	}
}

var yearTerm = regexp.MustCompile(`^\d{4}$`)

func parseSearchTerm(term string, now time.Time) repository.ComicFilter {
	term = strings.TrimSpace(term)
	if term == "" {
		return repository.ComicFilter{}
	}
	if yearTerm.MatchString(term) {
		if year, err := strconv.Atoi(term); err == nil && ValidComicYear(year, now) {
			return repository.ComicFilter{Year: &year}
		}
	}
	return repository.ComicFilter{Term: searchKey(term)}
}

func (s *comicService) List(ctx context.Context, term string) ([]dto.ComicResponse, error) {
	key := searchKey(term)
	// the generation is read before the query so a concurrent write orphans this fill
	gen, cached := s.cache.Generation(ctx)
	if cached {
		if comics, ok := s.cache.GetList(ctx, gen, key); ok {
			return comics, nil
		}
	}

	comics, err := s.comicRepo.List(ctx, parseSearchTerm(term, s.now()))
	if err != nil {
		return nil, fmt.Errorf("list comics: %w", err)
	}

	resp := dto.FromModelsToComicResponses(comics)
	if cached {
		s.cache.SetList(ctx, gen, key, resp)
	}
	return resp, nil
}

func (s *comicService) Get(ctx context.Context, id int64) (*dto.ComicResponse, error) {
	gen, cached := s.cache.Generation(ctx)
	if cached {
		if comic, ok := s.cache.GetDetail(ctx, gen, id); ok {
			return comic, nil
		}
	}

	comic, err := s.comicRepo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, comicLookupError(err)
	}

	resp := dto.FromModelToComicResponse(comic)
	if cached {
		s.cache.SetDetail(ctx, gen, id, &resp)
	}
	return &resp, nil
}

func (s *comicService) Create(ctx context.Context, req dto.ComicRequest, p *policy.Principal) (*dto.ComicResponse, error) {
	if err := authorize(policy.ActionCreate, policy.ResourceComic, 0, p, ErrForbidden); err != nil {
		return nil, err
	}
	req = normalizeComic(req)
	if err := s.validateComic(req); err != nil {
		return nil, err
	}

	if err := s.ensureTitleFree(ctx, req.Title, 0); err != nil {
		return nil, err
	}

	comic := &models.Comic{OwnerID: p.UserID}
	applyComic(comic, req)

	if err := s.comicRepo.Create(ctx, comic); err != nil {
		if _, ok := database.UniqueViolation(err); ok {
			return nil, ErrComicTitleInUse
		}
		return nil, fmt.Errorf("create comic: %w", err)
	}
	s.cache.Invalidate(ctx)

	resp := dto.FromModelToComicResponse(comic)
	return &resp, nil
}

// Update replaces every editable field. Deleted comics cannot be edited by anyone.
func (s *comicService) Update(ctx context.Context, id int64, req dto.ComicRequest, p *policy.Principal) (*dto.ComicResponse, error) {
	if p == nil {
		return nil, ErrAuthRequired
	}
	req = normalizeComic(req)
	if err := s.validateComic(req); err != nil {
		return nil, err
	}

	comic, err := s.comicRepo.FindByID(ctx, id)
	if err != nil {
		return nil, comicLookupError(err)
	}
	if comic.Deleted {
		return nil, ErrComicDeleted
	}
	if err := authorize(policy.ActionUpdate, policy.ResourceComic, comic.OwnerID, p, ErrComicEditDenied); err != nil {
		return nil, err
	}

	if err := s.ensureTitleFree(ctx, req.Title, comic.ID); err != nil {
		return nil, err
	}

	applyComic(comic, req)
	if err := s.comicRepo.Update(ctx, comic); err != nil {
		if _, ok := database.UniqueViolation(err); ok {
			return nil, ErrComicTitleInUse
		}
		return nil, fmt.Errorf("update comic: %w", err)
	}
	s.cache.Invalidate(ctx)

	resp := dto.FromModelToComicResponse(comic)
	return &resp, nil
}

// Delete hides the comic. Deleting an already deleted comic succeeds without change.
func (s *comicService) Delete(ctx context.Context, id int64, p *policy.Principal) error {
	if p == nil {
		return ErrAuthRequired
	}

	comic, err := s.comicRepo.FindByID(ctx, id)
	if err != nil {
		return comicLookupError(err)
	}
	if comic.Deleted {
		return nil
	}
	if err := authorize(policy.ActionDelete, policy.ResourceComic, comic.OwnerID, p, ErrComicDeleteDenied); err != nil {
		return err
	}

	if err := s.comicRepo.MarkDeleted(ctx, comic.ID); err != nil {
		return fmt.Errorf("delete comic: %w", err)
	}
	s.cache.Invalidate(ctx)
	return nil
}

// ensureTitleFree fails when another non-deleted comic already uses title.
func (s *comicService) ensureTitleFree(ctx context.Context, title string, selfID int64) error {
	existing, err := s.comicRepo.FindActiveByTitle(ctx, title)
	switch {
	case err == nil && existing.ID != selfID:
		return ErrComicTitleInUse
	case err == nil, errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return fmt.Errorf("find comic by title: %w", err)
	}
}

func (s *comicService) validateComic(req dto.ComicRequest) error {
	if !minRunes(req.Title, minTitleLen) {
		return Validationf("titulo", "O título deve ter pelo menos %d caracteres.", minTitleLen)
	}
	if !ValidComicYear(req.Year, s.now()) {
		return Validationf("ano", "O ano deve estar entre %d e %d.", MinComicYear, s.now().Year()+MaxYearsAhead)
	}
	if req.Author != nil && !minRunes(*req.Author, minAuthorLen) {
		return Validationf("autor", "O autor deve ter pelo menos %d caracteres.", minAuthorLen)
	}
	if req.CoverURL != nil && !validURL(*req.CoverURL) {
		return Validationf("capaUrl", "URL da capa inválida.")
	}
	return nil
}

func normalizeComic(req dto.ComicRequest) dto.ComicRequest {
	req.Title = strings.TrimSpace(req.Title)
	req.Synopsis = optional(req.Synopsis)
	req.CoverURL = optional(req.CoverURL)
	req.Author = optional(req.Author)
	return req
}

func applyComic(comic *models.Comic, req dto.ComicRequest) {
	comic.Title = req.Title
	comic.Year = req.Year
	comic.Synopsis = req.Synopsis
	comic.CoverURL = req.CoverURL
	comic.Author = req.Author
	comic.TitleSearch = searchKey(req.Title)
	comic.AuthorSearch = searchKey(deref(req.Author))
}

func comicLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrComicNotFound
	}
	return fmt.Errorf("find comic: %w", err)
}
