package db

import (
	"time"

	"gorm.io/gorm"
)

// Podcast 定义了播客单集模型
type Podcast struct {
	gorm.Model
	Title       string `gorm:"size:300;not null;index"`
	Slug        string `gorm:"size:320;uniqueIndex;not null"`
	Description string

	AudioURL     string
	ThumbnailURL string

	EpisodeNumber   *uint
	DurationSeconds uint
	Transcript      string

	RelatedArticles []Article `gorm:"many2many:podcast_related_articles;"`
	Tags            []Tag     `gorm:"many2many:podcast_tags;"`
	AuthorID        uint
	Author          User

	IsFeatured bool `gorm:"index"`

	MetaTitle       string `gorm:"size:70"`
	MetaDescription string `gorm:"size:160"`

	ViewCount   uint      `gorm:"default:0"`
	PublishedAt time.Time `gorm:"index"`
}

// PrepareForSave 补全 slug 与 SEO 元信息。
func (p *Podcast) PrepareForSave(now time.Time) {
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	if p.MetaTitle == "" {
		p.MetaTitle = truncateRunes(p.Title, 70)
	}
	if p.MetaDescription == "" {
		p.MetaDescription = truncateRunes(p.Description, 160)
	}
	if p.PublishedAt.IsZero() {
		p.PublishedAt = now
	}
}
