package service

import (
	"errors"

	"github.com/GTM-04/newsblogbackend/internal/db"
	"gorm.io/gorm"
)

// CategoryService exposes read access to the category tree.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// List returns all categories ordered by name, each annotated with the
// number of published articles it holds.
func (s *CategoryService) List() ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.Preload("Parent").Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}

	counts, err := s.publishedCounts()
	if err != nil {
		return nil, err
	}

	for i := range categories {
		categories[i].ArticleCount = counts[categories[i].ID]
	}
	return categories, nil
}

// GetBySlug fetches a category with its children preloaded.
func (s *CategoryService) GetBySlug(slug string) (*db.Category, error) {
	var category db.Category
	if err := s.db.Preload("Parent").Preload("Children").
		Where("slug = ?", slug).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	counts, err := s.publishedCounts()
	if err != nil {
		return nil, err
	}
	category.ArticleCount = counts[category.ID]

	return &category, nil
}

func (s *CategoryService) publishedCounts() (map[uint]int64, error) {
	var rows []struct {
		CategoryID uint
		Count      int64
	}
	if err := s.db.Model(&db.Article{}).
		Select("category_id, COUNT(*) AS count").
		Where("status = ?", db.StatusPublished).
		Group("category_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.Count
	}
	return counts, nil
}
