package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"recipebox-backend/internal/domains/tag"
	"recipebox-backend/internal/shared/utils"
)

type tagService struct {
	repo tag.Repository
}

func NewTagService(repo tag.Repository) tag.Service {
	return &tagService{repo: repo}
}

func (s *tagService) List(ctx context.Context) ([]tag.TagDTO, error) {
	tags, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]tag.TagDTO, len(tags))
	for i, t := range tags {
		dtos[i] = t.ToDTO()
	}
	return dtos, nil
}

func (s *tagService) GetByID(ctx context.Context, id uuid.UUID) (*tag.TagDTO, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, tag.ErrTagNotFound
	}

	dto := t.ToDTO()
	return &dto, nil
}

func (s *tagService) Create(ctx context.Context, req tag.CreateTagRequest) (*tag.TagDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.GenerateSlug(req.Name)
	}

	t := &tag.Tag{
		ID:        uuid.New(),
		Name:      req.Name,
		Color:     req.Color,
		Slug:      slug,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	dto := t.ToDTO()
	return &dto, nil
}

func (s *tagService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return tag.ErrTagNotFound
	}
	return nil
}
