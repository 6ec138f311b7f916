package db

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrVideoSourceMissing 表示视频既没有上传文件也没有外链。
var ErrVideoSourceMissing = errors.New("either a video file or an external url is required")

// Video 定义了视频内容模型
type Video struct {
	gorm.Model
	Title       string `gorm:"size:300;not null;index"`
	Slug        string `gorm:"size:320;uniqueIndex;not null"`
	Description string

	// 视频可以是站内文件或外部链接（YouTube/Vimeo）。
	VideoURL     string
	ExternalURL  string
	ThumbnailURL string

	DurationSeconds uint

	RelatedArticles []Article `gorm:"many2many:video_related_articles;"`
	Tags            []Tag     `gorm:"many2many:video_tags;"`
	AuthorID        uint
	Author          User

	IsFeatured bool `gorm:"index"`

	MetaTitle       string `gorm:"size:70"`
	MetaDescription string `gorm:"size:160"`

	ViewCount   uint      `gorm:"default:0"`
	PublishedAt time.Time `gorm:"index"`
}

// PrepareForSave 补全 slug 与 SEO 元信息。
func (v *Video) PrepareForSave(now time.Time) {
	if v.Slug == "" {
		v.Slug = Slugify(v.Title)
	}
	if v.MetaTitle == "" {
		v.MetaTitle = truncateRunes(v.Title, 70)
	}
	if v.MetaDescription == "" {
		v.MetaDescription = truncateRunes(v.Description, 160)
	}
	if v.PublishedAt.IsZero() {
		v.PublishedAt = now
	}
}

// Validate 校验视频来源至少填写一种。
func (v *Video) Validate() error {
	if strings.TrimSpace(v.VideoURL) == "" && strings.TrimSpace(v.ExternalURL) == "" {
		return ErrVideoSourceMissing
	}
	return nil
}
