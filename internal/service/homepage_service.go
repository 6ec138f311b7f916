package service

import (
	"github.com/GTM-04/newsblogbackend/internal/db"
	"gorm.io/gorm"
)

// HomepageService resolves curated homepage sections into content.
type HomepageService struct {
	db *gorm.DB
}

// SectionContent bundles a section with its resolved content lists.
type SectionContent struct {
	Section  db.HomepageSection
	Articles []db.Article
	Podcasts []db.Podcast
	Videos   []db.Video
}

// NewHomepageService creates a HomepageService instance.
func NewHomepageService(gdb *gorm.DB) *HomepageService {
	return &HomepageService{db: gdb}
}

// Sections returns all active sections ordered by position with their
// content resolved. Non-curated sections are auto-populated from their
// configured rule; curated sections only expose published articles.
func (s *HomepageService) Sections() ([]SectionContent, error) {
	var sections []db.HomepageSection
	if err := s.db.
		Preload("Articles", "status = ?", db.StatusPublished).
		Preload("Articles.Category").
		Preload("Articles.Author").
		Preload("Articles.Tags").
		Preload("Podcasts").
		Preload("Podcasts.Author").
		Preload("Videos").
		Preload("Videos.Author").
		Where("is_active = ?", true).
		Order("position asc, id asc").
		Find(&sections).Error; err != nil {
		return nil, err
	}

	contents := make([]SectionContent, 0, len(sections))
	for _, section := range sections {
		content := SectionContent{
			Section:  section,
			Articles: section.Articles,
			Podcasts: section.Podcasts,
			Videos:   section.Videos,
		}

		if !section.ManuallyCurated && section.AutoContentType != "" {
			articles, err := s.autoPopulate(section.AutoContentType, int(section.AutoArticleCount))
			if err != nil {
				return nil, err
			}
			content.Articles = articles
		}

		contents = append(contents, content)
	}

	return contents, nil
}

// autoPopulate 按配置规则取文章：最新、最热或编辑精选。
func (s *HomepageService) autoPopulate(rule string, limit int) ([]db.Article, error) {
	if limit <= 0 {
		limit = 5
	}

	query := s.db.Model(&db.Article{}).
		Preload("Category").Preload("Author").Preload("Tags").
		Where("status = ?", db.StatusPublished).
		Limit(limit)

	switch rule {
	case db.AutoContentPopular:
		query = query.Order("view_count desc, id desc")
	case db.AutoContentEditorPicks:
		query = query.Where("is_editor_pick = ?", true).
			Order("published_at desc, id desc")
	default: // RECENT
		query = query.Order("published_at desc, id desc")
	}

	var articles []db.Article
	if err := query.Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}
