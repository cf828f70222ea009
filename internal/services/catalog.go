package services

import (
	"context"
	"errors"
	"fmt"

	"inviteflow/internal/domain"
)

type catalogService struct {
	templateRepo domain.TemplateRepository
	themeRepo    domain.ThemeRepository
}

// NewCatalogService creates a CatalogService over the template and theme stores.
func NewCatalogService(templateRepo domain.TemplateRepository, themeRepo domain.ThemeRepository) domain.CatalogService {
	return &catalogService{
		templateRepo: templateRepo,
		themeRepo:    themeRepo,
	}
}

func (s *catalogService) ListTemplates(ctx context.Context, category string) ([]*domain.Template, error) {
	if category != "" && !domain.ValidCategory(category) {
		return []*domain.Template{}, nil
	}
	templates, err := s.templateRepo.ListActive(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

func (s *catalogService) GetTemplate(ctx context.Context, id string) (*domain.Template, error) {
	t, err := s.templateRepo.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return t, nil
}

func (s *catalogService) Categories() []domain.TemplateCategory {
	return domain.TemplateCategories()
}

func (s *catalogService) ListThemes(ctx context.Context) ([]*domain.Theme, error) {
	themes, err := s.themeRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list themes: %w", err)
	}
	return themes, nil
}
