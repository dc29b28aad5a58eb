package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/repository"
)

// CategoryTree is a category with its direct relations resolved.
type CategoryTree struct {
	Category entity.Category   `json:"category"`
	Parents  []entity.Category `json:"parents"`
	Children []entity.Category `json:"children"`
}

type CategoryService interface {
	Create(ctx context.Context, name, slug string, parentIDs []string) (*entity.Category, error)
	Get(ctx context.Context, categoryID string) (*CategoryTree, error)
	Update(ctx context.Context, categoryID, name, slug string) (*entity.Category, error)
	// AssignParents replaces the parent edge set. Any proposed parent that is
	// a descendant of the category (or the category itself) would close a
	// cycle and is rejected.
	AssignParents(ctx context.Context, categoryID string, parentIDs []string) error
	Deactivate(ctx context.Context, categoryID string) error
	List(ctx context.Context, params repository.ListCategoriesParams) (*repository.ListCategoriesResult, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	log          logger.Logger
}

func NewCategoryService(categoryRepo repository.CategoryRepository, log logger.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		log:          log,
	}
}

func (s *categoryService) getCategory(ctx context.Context, categoryID string) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFound("category %s not found", categoryID)
		}
		return nil, fmt.Errorf("could not load category %s: %w", categoryID, err)
	}
	return category, nil
}

func (s *categoryService) Create(ctx context.Context, name, slug string, parentIDs []string) (*entity.Category, error) {
	category, err := entity.NewCategory(name, slug)
	if err != nil {
		return nil, domain.NewValidation("%s", err.Error())
	}

	taken, err := s.categoryRepo.ExistsWithSlugOrName(ctx, category.Slug, category.Name, "")
	if err != nil {
		return nil, fmt.Errorf("could not check category uniqueness: %w", err)
	}
	if taken {
		return nil, domain.NewConflict("a category named %q or with slug %q already exists", category.Name, category.Slug)
	}

	id, err := s.categoryRepo.Create(ctx, category)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, domain.NewConflict("a category with slug %q already exists", category.Slug)
		}
		return nil, fmt.Errorf("could not create category: %w", err)
	}
	category.ID = id

	if len(parentIDs) > 0 {
		if err := s.AssignParents(ctx, id, parentIDs); err != nil {
			return nil, err
		}
	}

	s.log.Infof("Category %s created (%s)", id, category.Slug)
	return category, nil
}

func (s *categoryService) Get(ctx context.Context, categoryID string) (*CategoryTree, error) {
	category, err := s.getCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	tree := &CategoryTree{Category: *category}

	parentIDs, err := s.categoryRepo.ParentIDs(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("could not load parents of category %s: %w", categoryID, err)
	}
	childIDs, err := s.categoryRepo.ChildIDs(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("could not load children of category %s: %w", categoryID, err)
	}

	tree.Parents, err = s.resolve(ctx, parentIDs)
	if err != nil {
		return nil, err
	}
	tree.Children, err = s.resolve(ctx, childIDs)
	if err != nil {
		return nil, err
	}
	return tree, nil
}

func (s *categoryService) resolve(ctx context.Context, ids []string) ([]entity.Category, error) {
	categories := make([]entity.Category, 0, len(ids))
	for _, id := range ids {
		category, err := s.categoryRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("could not resolve category %s: %w", id, err)
		}
		categories = append(categories, *category)
	}
	return categories, nil
}

func (s *categoryService) Update(ctx context.Context, categoryID, name, slug string) (*entity.Category, error) {
	category, err := s.getCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	updated, err := entity.NewCategory(name, slug)
	if err != nil {
		return nil, domain.NewValidation("%s", err.Error())
	}

	taken, err := s.categoryRepo.ExistsWithSlugOrName(ctx, updated.Slug, updated.Name, categoryID)
	if err != nil {
		return nil, fmt.Errorf("could not check category uniqueness: %w", err)
	}
	if taken {
		return nil, domain.NewConflict("a category named %q or with slug %q already exists", updated.Name, updated.Slug)
	}

	category.Name = updated.Name
	category.Slug = updated.Slug
	category.UpdatedAt = time.Now().UTC()

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("could not update category %s: %w", categoryID, err)
	}
	return category, nil
}

func (s *categoryService) AssignParents(ctx context.Context, categoryID string, parentIDs []string) error {
	if _, err := s.getCategory(ctx, categoryID); err != nil {
		return err
	}

	descendants, err := s.categoryRepo.DescendantIDs(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("could not compute descendants of category %s: %w", categoryID, err)
	}
	forbidden := make(map[string]struct{}, len(descendants)+1)
	forbidden[categoryID] = struct{}{}
	for _, id := range descendants {
		forbidden[id] = struct{}{}
	}

	for _, parentID := range parentIDs {
		if _, bad := forbidden[parentID]; bad {
			return domain.NewValidation("category %s cannot become a parent of %s: it would create a cycle", parentID, categoryID)
		}
		if _, err := s.getCategory(ctx, parentID); err != nil {
			return err
		}
	}

	if err := s.categoryRepo.ReplaceParents(ctx, categoryID, parentIDs); err != nil {
		return fmt.Errorf("could not assign parents of category %s: %w", categoryID, err)
	}
	s.log.Infof("Category %s now has %d parent(s)", categoryID, len(parentIDs))
	return nil
}

func (s *categoryService) Deactivate(ctx context.Context, categoryID string) error {
	if err := s.categoryRepo.SetActive(ctx, categoryID, false); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewNotFound("category %s not found", categoryID)
		}
		return fmt.Errorf("could not deactivate category %s: %w", categoryID, err)
	}
	if err := s.categoryRepo.DetachAll(ctx, categoryID); err != nil {
		return fmt.Errorf("could not detach edges of category %s: %w", categoryID, err)
	}
	s.log.Infof("Category %s deactivated and detached", categoryID)
	return nil
}

func (s *categoryService) List(ctx context.Context, params repository.ListCategoriesParams) (*repository.ListCategoriesResult, error) {
	return s.categoryRepo.List(ctx, params)
}
