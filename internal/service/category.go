package service

import (
	"context"
	"fmt"
	"strings"

	"restaurant-forum/internal/domain"
	"restaurant-forum/internal/view"
)

type CategoryService struct {
	categories domain.CategoryRepository
}

func NewCategoryService(categories domain.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// CategoryList Selected 为 nil 表示未选中、不存在或已软删
type CategoryList struct {
	Categories []view.Category `json:"categories"`
	Selected   *view.Category  `json:"selected"`
}

func (s *CategoryService) List(ctx context.Context, selectedID uint) (CategoryList, error) {
	cs, err := s.categories.ListActive(ctx)
	if err != nil {
		return CategoryList{}, fmt.Errorf("list categories: %w", err)
	}
	out := CategoryList{Categories: view.NewCategories(cs)}
	if selectedID == 0 {
		return out, nil
	}
	c, err := s.active(ctx, selectedID)
	if err != nil {
		return CategoryList{}, err
	}
	if c != nil {
		v := view.NewCategory(*c)
		out.Selected = &v
	}
	return out, nil
}

func (s *CategoryService) Create(ctx context.Context, name string) (view.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return view.Category{}, domain.Validation("category name is required")
	}
	c := &domain.Category{Name: name}
	if err := s.categories.Create(ctx, c); err != nil {
		return view.Category{}, fmt.Errorf("create category: %w", err)
	}
	return view.NewCategory(*c), nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, name string) (view.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return view.Category{}, domain.Validation("category name is required")
	}
	c, err := s.mustActive(ctx, id)
	if err != nil {
		return view.Category{}, err
	}
	c.Name = name
	if err := s.categories.Update(ctx, c); err != nil {
		return view.Category{}, fmt.Errorf("update category: %w", err)
	}
	return view.NewCategory(*c), nil
}

// SoftDelete 只置 deleted=true；已删的再删一次视为不存在
func (s *CategoryService) SoftDelete(ctx context.Context, id uint) error {
	c, err := s.mustActive(ctx, id)
	if err != nil {
		return err
	}
	c.Deleted = true
	if err := s.categories.Update(ctx, c); err != nil {
		return fmt.Errorf("soft delete category: %w", err)
	}
	return nil
}

// active 返回未软删的分类，不存在或已删时为 nil
func (s *CategoryService) active(ctx context.Context, id uint) (*domain.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if c == nil || c.Deleted {
		return nil, nil
	}
	return c, nil
}

func (s *CategoryService) mustActive(ctx context.Context, id uint) (*domain.Category, error) {
	c, err := s.active(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("category not found")
	}
	return c, nil
}
