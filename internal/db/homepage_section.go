package db

import "gorm.io/gorm"

// 首页分区类型
const (
	SectionHero          = "HERO"
	SectionCollage       = "COLLAGE"
	SectionResearchStrip = "RESEARCH_STRIP"
	SectionReflections   = "REFLECTIONS"
	SectionQNA           = "QNA"
	SectionFeaturedMedia = "FEATURED_MEDIA"
)

// 非人工策展分区的自动填充规则
const (
	AutoContentRecent      = "RECENT"
	AutoContentPopular     = "POPULAR"
	AutoContentEditorPicks = "EDITOR_PICKS"
)

// HomepageSection 定义了首页策展分区模型
type HomepageSection struct {
	gorm.Model
	SectionType string `gorm:"size:30;index;not null"`
	Title       string `gorm:"size:200;not null"`
	Subtitle    string `gorm:"size:300"`

	// Position 越小越靠前。
	Position uint `gorm:"default:0;index"`

	Articles []Article `gorm:"many2many:homepage_section_articles;"`
	Podcasts []Podcast `gorm:"many2many:homepage_section_podcasts;"`
	Videos   []Video   `gorm:"many2many:homepage_section_videos;"`

	ManuallyCurated bool `gorm:"default:true"`
	IsActive        bool `gorm:"default:true;index"`

	AutoContentType  string `gorm:"size:20"`
	AutoArticleCount uint   `gorm:"default:5"`
}
