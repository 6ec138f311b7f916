package service

import (
	"strings"

	"github.com/GTM-04/newsblogbackend/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagService wraps tag related operations.
type TagService struct {
	db *gorm.DB
}

// TagUsage 描述标签在已发布文章中的使用次数
type TagUsage struct {
	ID    uint
	Name  string
	Count int64
}

// NewTagService creates a TagService instance.
func NewTagService(gdb *gorm.DB) *TagService {
	return &TagService{db: gdb}
}

// EnsureTags upserts tags by name inside the caller's transaction and
// returns them in input order. Blank and duplicate names are dropped.
func (s *TagService) EnsureTags(tx *gorm.DB, names []string) ([]db.Tag, error) {
	seen := make(map[string]struct{}, len(names))
	tags := make([]db.Tag, 0, len(names))

	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		tag := db.Tag{Name: name}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&tag).Error; err != nil {
			return nil, err
		}

		// DoNothing leaves the id empty on conflict, reload by name.
		if tag.ID == 0 {
			if err := tx.Where("name = ?", name).First(&tag).Error; err != nil {
				return nil, err
			}
		}

		tags = append(tags, tag)
	}

	return tags, nil
}

// PublishedUsage 返回已发布文章中每个标签的使用统计。
func (s *TagService) PublishedUsage() ([]TagUsage, error) {
	var rows []TagUsage
	if err := s.db.Table("tags").
		Select("tags.id, tags.name, COUNT(DISTINCT articles.id) AS count").
		Joins("JOIN article_tags ON article_tags.tag_id = tags.id").
		Joins("JOIN articles ON articles.id = article_tags.article_id").
		Where("articles.status = ?", db.StatusPublished).
		Where("articles.deleted_at IS NULL").
		Group("tags.id, tags.name").
		Order("count desc").
		Order("tags.name asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
