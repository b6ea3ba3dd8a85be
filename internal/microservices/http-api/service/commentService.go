package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pinduca/internal/microservices/http-api/dto"
	"pinduca/internal/microservices/http-api/models"
	"pinduca/internal/microservices/http-api/repository"
	"pinduca/internal/policy"

	"gorm.io/gorm"
)

type CommentService interface {
	// ListByComic returns the comic's comments newest first, each with the
	// author's name and latest score for the comic.
	ListByComic(ctx context.Context, comicID int64) ([]dto.CommentResponse, error)
	Create(ctx context.Context, comicID int64, content string, p *policy.Principal) (*dto.CommentResponse, error)
	Update(ctx context.Context, id int64, content string, p *policy.Principal) (*dto.CommentResponse, error)
	Delete(ctx context.Context, id int64, p *policy.Principal) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	ratingRepo  repository.RatingRepository
	comicRepo   repository.ComicRepository
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	ratingRepo repository.RatingRepository,
	comicRepo repository.ComicRepository,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		ratingRepo:  ratingRepo,
		comicRepo:   comicRepo,
	}
}

func (s *commentService) ListByComic(ctx context.Context, comicID int64) ([]dto.CommentResponse, error) {
	comments, err := s.commentRepo.ListByComic(ctx, comicID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	userIDs := make([]int64, 0, len(comments))
	seen := make(map[int64]struct{}, len(comments))
	for _, c := range comments {
		if _, ok := seen[c.UserID]; !ok {
			seen[c.UserID] = struct{}{}
			userIDs = append(userIDs, c.UserID)
		}
	}

	scores, err := s.ratingRepo.LatestScores(ctx, comicID, userIDs)
	if err != nil {
		return nil, fmt.Errorf("load author ratings: %w", err)
	}

	out := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, dto.FromModelToCommentResponse(&comments[i], scoreOf(scores, comments[i].UserID)))
	}
	return out, nil
}

func (s *commentService) Create(ctx context.Context, comicID int64, content string, p *policy.Principal) (*dto.CommentResponse, error) {
	if err := authorize(policy.ActionCreate, policy.ResourceComment, 0, p, ErrForbidden); err != nil {
		return nil, err
	}
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}

	if _, err := s.comicRepo.FindByID(ctx, comicID); err != nil {
		return nil, comicLookupError(err)
	}

	comment := &models.Comment{
		Content: content,
		ComicID: comicID,
		UserID:  p.UserID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	return s.enrich(ctx, comment.ID)
}

func (s *commentService) Update(ctx context.Context, id int64, content string, p *policy.Principal) (*dto.CommentResponse, error) {
	if p == nil {
		return nil, ErrAuthRequired
	}
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, commentLookupError(err)
	}
	if err := authorize(policy.ActionUpdate, policy.ResourceComment, comment.UserID, p, ErrCommentEditDenied); err != nil {
		return nil, err
	}

	comment.Content = content
	if err := s.commentRepo.UpdateContent(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}

	return s.respond(ctx, comment)
}

func (s *commentService) Delete(ctx context.Context, id int64, p *policy.Principal) error {
	if p == nil {
		return ErrAuthRequired
	}

	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return commentLookupError(err)
	}
	if err := authorize(policy.ActionDelete, policy.ResourceComment, comment.UserID, p, ErrCommentDeleteDenied); err != nil {
		return err
	}

	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		return commentLookupError(err)
	}
	return nil
}

// enrich reloads the comment with its author before building the response.
func (s *commentService) enrich(ctx context.Context, id int64) (*dto.CommentResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload comment: %w", err)
	}
	return s.respond(ctx, comment)
}

func (s *commentService) respond(ctx context.Context, comment *models.Comment) (*dto.CommentResponse, error) {
	scores, err := s.ratingRepo.LatestScores(ctx, comment.ComicID, []int64{comment.UserID})
	if err != nil {
		return nil, fmt.Errorf("load author rating: %w", err)
	}
	resp := dto.FromModelToCommentResponse(comment, scoreOf(scores, comment.UserID))
	return &resp, nil
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if !minRunes(content, minContentLen) {
		return "", Validationf("conteudo", "O comentário deve ter pelo menos %d caracteres.", minContentLen)
	}
	return content, nil
}

func scoreOf(scores map[int64]int, userID int64) *int {
	score, ok := scores[userID]
	if !ok {
		return nil
	}
	return &score
}

func commentLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCommentNotFound
	}
	return fmt.Errorf("find comment: %w", err)
}
