package service

import (
	"context"
	"database/sql"
	"errors"

	"cfp-engine/internal/apperr"
	"cfp-engine/internal/models"
	"cfp-engine/internal/repository"
)

const (
	defaultTagSearchLimit = 20
	maxTagSearchLimit     = 100
)

// TagService manages the tag catalog
type TagService struct {
	tagRepo *repository.TagRepository
}

// NewTagService creates a new tag service
func NewTagService(db *sql.DB) *TagService {
	return &TagService{tagRepo: repository.NewTagRepository(db)}
}

// CreateSuggested adds an admin-curated tag
func (s *TagService) CreateSuggested(ctx context.Context, name string) (*models.Tag, error) {
	names := normalizeTagNames([]string{name})
	if len(names) == 0 {
		return nil, apperr.Validation(map[string]string{"name": "is required"})
	}
	if len([]rune(names[0])) > 100 {
		return nil, apperr.Validation(map[string]string{"name": "must be at most 100 characters"})
	}

	tag := &models.Tag{Name: names[0], IsSuggested: true}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		if apperr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("tag %q already exists", tag.Name)
		}
		return nil, apperr.Internal(err, "failed to create tag")
	}
	return tag, nil
}

// ImportSuggested creates every missing suggested tag and reports how many were new
func (s *TagService) ImportSuggested(ctx context.Context, names []string) (int, error) {
	created := 0
	for _, name := range normalizeTagNames(names) {
		_, err := s.CreateSuggested(ctx, name)
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperr.ErrConflict):
		default:
			return created, err
		}
	}
	return created, nil
}

// Delete removes a tag and its submission links
func (s *TagService) Delete(ctx context.Context, id uint) error {
	if err := s.tagRepo.Delete(ctx, id); err != nil {
		return apperr.FromDB(err, "tag")
	}
	return nil
}

// Search finds tags by prefix, suggested first
func (s *TagService) Search(ctx context.Context, prefix string, suggestedOnly bool, limit int) ([]models.Tag, error) {
	if limit <= 0 {
		limit = defaultTagSearchLimit
	}
	if limit > maxTagSearchLimit {
		limit = maxTagSearchLimit
	}
	tags, err := s.tagRepo.Search(ctx, prefix, suggestedOnly, limit)
	if err != nil {
		return nil, apperr.Internal(err, "failed to search tags")
	}
	return tags, nil
}
