package service

import (
	"context"
	"fmt"

	"github.com/priyanshu73/theUniBay/internal/domain"
	"github.com/priyanshu73/theUniBay/internal/repository"
)

// CatalogService serves category and campus reference data.
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	campusRepo   repository.CampusRepository
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(categoryRepo repository.CategoryRepository, campusRepo repository.CampusRepository) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		campusRepo:   campusRepo,
	}
}

// ListCategories returns all categories ordered by name.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// CategoryStats returns a product count per category, busiest first.
func (s *CatalogService) CategoryStats(ctx context.Context) ([]domain.CategoryCount, error) {
	counts, err := s.categoryRepo.CountsByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}
	return counts, nil
}

// ListCampuses returns all campuses ordered by name.
func (s *CatalogService) ListCampuses(ctx context.Context) ([]domain.Campus, error) {
	campuses, err := s.campusRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list campuses: %w", err)
	}
	return campuses, nil
}
