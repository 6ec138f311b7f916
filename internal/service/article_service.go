package service

import (
	"errors"
	"strings"
	"time"

	"github.com/GTM-04/newsblogbackend/internal/db"
	"gorm.io/gorm"
)

const searchResultLimit = 20

var (
	ErrArticleNotFound  = errors.New("article not found")
	ErrTitleRequired    = errors.New("article title is required")
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidStatus    = errors.New("invalid article status")
	ErrSlugTaken        = errors.New("article slug already in use")
)

// ArticleService wraps article related database operations.
type ArticleService struct {
	db   *gorm.DB
	tags *TagService
}

// ArticleInput represents fields accepted when creating or updating an article.
type ArticleInput struct {
	Title              string
	Subtitle           string
	Summary            string
	Body               string
	HeroImageURL       string
	CategorySlug       string
	TagNames           []string
	ContentType        string
	Status             string
	IsEditorPick       bool
	IsPaywalled        bool
	SourcesCount       int
	ExpertsInterviewed int
	ConfidenceRating   string
	WhatWeDontKnow     string
	MetaTitle          string
	MetaDescription    string
	SchemaType         string
}

// ArticleFilter describes filters for listing articles.
type ArticleFilter struct {
	Status       string
	CategorySlug string
	ContentType  string
	TagName      string
	EditorPick   *bool
	OrderBy      string
	Page         int
	PerPage      int

	// IncludeUnpublished 仅对编辑后台开放。
	IncludeUnpublished bool
}

// ArticleListResult aggregates paginated list data.
type ArticleListResult struct {
	Articles   []db.Article
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// NewArticleService creates an ArticleService instance.
func NewArticleService(gdb *gorm.DB, tags *TagService) *ArticleService {
	return &ArticleService{db: gdb, tags: tags}
}

// GetBySlug fetches an article with its relations preloaded.
// Unpublished articles are only visible when includeUnpublished is set.
func (s *ArticleService) GetBySlug(slug string, includeUnpublished bool) (*db.Article, error) {
	query := s.db.Preload("Tags").Preload("Category").Preload("Author").
		Where("slug = ?", slug)
	if !includeUnpublished {
		query = query.Where("status = ?", db.StatusPublished)
	}

	var article db.Article
	if err := query.First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

// Create persists an article, upserting tags by name in a transaction.
func (s *ArticleService) Create(input ArticleInput, authorID uint, now time.Time) (*db.Article, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	status, err := normalizeStatus(input.Status)
	if err != nil {
		return nil, err
	}

	category, err := s.categoryBySlug(input.CategorySlug)
	if err != nil {
		return nil, err
	}

	article := db.Article{
		Title:              strings.TrimSpace(input.Title),
		Subtitle:           strings.TrimSpace(input.Subtitle),
		Summary:            strings.TrimSpace(input.Summary),
		Body:               input.Body,
		HeroImageURL:       strings.TrimSpace(input.HeroImageURL),
		CategoryID:         category.ID,
		AuthorID:           authorID,
		ContentType:        defaultString(input.ContentType, db.ContentTypeNews),
		Status:             status,
		IsEditorPick:       input.IsEditorPick,
		IsPaywalled:        input.IsPaywalled,
		SourcesCount:       input.SourcesCount,
		ExpertsInterviewed: input.ExpertsInterviewed,
		ConfidenceRating:   defaultString(input.ConfidenceRating, db.ConfidenceMedium),
		WhatWeDontKnow:     input.WhatWeDontKnow,
		MetaTitle:          strings.TrimSpace(input.MetaTitle),
		MetaDescription:    strings.TrimSpace(input.MetaDescription),
		SchemaType:         defaultString(input.SchemaType, "Article"),
	}
	article.PrepareForSave(now)

	return s.saveWithTags(&article, input.TagNames)
}

// Update applies updates to an existing article looked up by slug.
func (s *ArticleService) Update(slug string, input ArticleInput, now time.Time) (*db.Article, error) {
	var existing db.Article
	if err := s.db.Where("slug = ?", slug).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	status, err := normalizeStatus(input.Status)
	if err != nil {
		return nil, err
	}

	category, err := s.categoryBySlug(input.CategorySlug)
	if err != nil {
		return nil, err
	}

	existing.Title = strings.TrimSpace(input.Title)
	existing.Subtitle = strings.TrimSpace(input.Subtitle)
	existing.Summary = strings.TrimSpace(input.Summary)
	existing.Body = input.Body
	existing.HeroImageURL = strings.TrimSpace(input.HeroImageURL)
	existing.CategoryID = category.ID
	existing.ContentType = defaultString(input.ContentType, existing.ContentType)
	existing.Status = status
	existing.IsEditorPick = input.IsEditorPick
	existing.IsPaywalled = input.IsPaywalled
	existing.SourcesCount = input.SourcesCount
	existing.ExpertsInterviewed = input.ExpertsInterviewed
	existing.ConfidenceRating = defaultString(input.ConfidenceRating, existing.ConfidenceRating)
	existing.WhatWeDontKnow = input.WhatWeDontKnow
	existing.MetaTitle = strings.TrimSpace(input.MetaTitle)
	existing.MetaDescription = strings.TrimSpace(input.MetaDescription)
	existing.SchemaType = defaultString(input.SchemaType, existing.SchemaType)
	existing.PrepareForSave(now)

	return s.saveWithTags(&existing, input.TagNames)
}

// Delete removes an article by slug.
func (s *ArticleService) Delete(slug string) error {
	result := s.db.Where("slug = ?", slug).Delete(&db.Article{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrArticleNotFound
	}
	return nil
}

// List provides paginated articles based on filters.
func (s *ArticleService) List(filter ArticleFilter) (*ArticleListResult, error) {
	result := &ArticleListResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 10
	}

	countQuery := s.applyFilters(s.db.Model(&db.Article{}), filter)
	if err := countQuery.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage

	dataQuery := s.applyFilters(
		s.db.Model(&db.Article{}).Preload("Tags").Preload("Category").Preload("Author"),
		filter,
	)

	var articles []db.Article
	if err := dataQuery.
		Order(orderClause(filter.OrderBy)).
		Limit(result.PerPage).
		Offset(offset).
		Find(&articles).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}

	result.Articles = articles
	return result, nil
}

// Search 在已发布文章的标题、摘要、正文与标签上做子串匹配，
// 按发布时间倒序返回最多 20 条。
func (s *ArticleService) Search(query string) ([]db.Article, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return []db.Article{}, nil
	}

	pattern := "%" + trimmed + "%"

	tagMatch := s.db.Model(&db.Article{}).
		Select("articles.id").
		Joins("JOIN article_tags ON article_tags.article_id = articles.id").
		Joins("JOIN tags ON tags.id = article_tags.tag_id").
		Where("tags.name LIKE ?", pattern)

	var articles []db.Article
	if err := s.db.Model(&db.Article{}).
		Preload("Tags").Preload("Category").Preload("Author").
		Where("articles.status = ?", db.StatusPublished).
		Where(
			s.db.Where("articles.title LIKE ?", pattern).
				Or("articles.summary LIKE ?", pattern).
				Or("articles.body LIKE ?", pattern).
				Or("articles.id IN (?)", tagMatch),
		).
		Order("articles.published_at desc, articles.id desc").
		Limit(searchResultLimit).
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (s *ArticleService) saveWithTags(article *db.Article, tagNames []string) (*db.Article, error) {
	return article, s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(article).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrSlugTaken
			}
			return err
		}

		tags, err := s.tags.EnsureTags(tx, tagNames)
		if err != nil {
			return err
		}

		if err := tx.Model(article).Association("Tags").Replace(tags); err != nil {
			return err
		}

		return tx.Preload("Tags").Preload("Category").Preload("Author").
			First(article, article.ID).Error
	})
}

func (s *ArticleService) categoryBySlug(slug string) (*db.Category, error) {
	var category db.Category
	if err := s.db.Where("slug = ?", strings.TrimSpace(slug)).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (s *ArticleService) applyFilters(query *gorm.DB, filter ArticleFilter) *gorm.DB {
	if !filter.IncludeUnpublished {
		query = query.Where("articles.status = ?", db.StatusPublished)
	} else if filter.Status != "" {
		query = query.Where("articles.status = ?", filter.Status)
	}

	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = articles.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}

	if filter.ContentType != "" {
		query = query.Where("articles.content_type = ?", filter.ContentType)
	}

	if filter.TagName != "" {
		subQuery := s.db.Model(&db.Article{}).
			Select("articles.id").
			Joins("JOIN article_tags ON article_tags.article_id = articles.id").
			Joins("JOIN tags ON tags.id = article_tags.tag_id").
			Where("tags.name = ?", filter.TagName)
		query = query.Where("articles.id IN (?)", subQuery)
	}

	if filter.EditorPick != nil {
		query = query.Where("articles.is_editor_pick = ?", *filter.EditorPick)
	}

	return query
}

func orderClause(orderBy string) string {
	switch orderBy {
	case "view_count":
		return "articles.view_count desc, articles.id desc"
	case "created_at":
		return "articles.created_at desc, articles.id desc"
	default:
		return "articles.published_at desc, articles.id desc"
	}
}

func normalizeStatus(status string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(status))
	switch trimmed {
	case "":
		return db.StatusDraft, nil
	case db.StatusDraft, db.StatusReview, db.StatusPublished:
		return trimmed, nil
	default:
		return "", ErrInvalidStatus
	}
}

func defaultString(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
