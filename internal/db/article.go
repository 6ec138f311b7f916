package db

import (
	"strings"
	"time"
	"unicode"

	"gorm.io/gorm"
)

// 文章状态
const (
	StatusDraft     = "DRAFT"
	StatusReview    = "REVIEW"
	StatusPublished = "PUBLISHED"
)

// 文章类型
const (
	ContentTypeNews     = "NEWS"
	ContentTypeResearch = "RESEARCH"
	ContentTypeEssay    = "ESSAY"
)

// 可信度评级
const (
	ConfidenceHigh   = "HIGH"
	ConfidenceMedium = "MEDIUM"
	ConfidenceLow    = "LOW"
)

// Article 定义了文章模型
type Article struct {
	gorm.Model
	Title        string `gorm:"size:300;not null;index"`
	Slug         string `gorm:"size:320;uniqueIndex;not null"`
	Subtitle     string `gorm:"size:400"`
	Summary      string `gorm:"size:500"`
	Body         string
	HeroImageURL string

	CategoryID uint
	Category   Category
	Tags       []Tag `gorm:"many2many:article_tags;"`
	AuthorID   uint
	Author     User

	ContentType string `gorm:"size:20;default:NEWS;index"`
	Status      string `gorm:"size:20;default:DRAFT;index"`

	IsEditorPick bool `gorm:"index"`
	IsPaywalled  bool

	SourcesCount       int
	ExpertsInterviewed int
	ConfidenceRating   string `gorm:"size:20;default:MEDIUM"`
	WhatWeDontKnow     string

	MetaTitle       string `gorm:"size:70"`
	MetaDescription string `gorm:"size:160"`
	SchemaType      string `gorm:"size:20;default:Article"`

	ViewCount uint `gorm:"default:0"`

	// PublishedAt 在首次进入 PUBLISHED 状态时写入，此前为空。
	PublishedAt *time.Time `gorm:"index"`
}

// PrepareForSave 补全保存前的派生字段：slug、发布时间与 SEO 元信息。
// 由服务层显式调用，而不是依赖持久化钩子。
func (a *Article) PrepareForSave(now time.Time) {
	if strings.TrimSpace(a.Slug) == "" {
		a.Slug = Slugify(a.Title)
	}

	if a.Status == StatusPublished && a.PublishedAt == nil {
		stamp := now
		a.PublishedAt = &stamp
	}

	if strings.TrimSpace(a.MetaTitle) == "" {
		a.MetaTitle = truncateRunes(a.Title, 70)
	}
	if strings.TrimSpace(a.MetaDescription) == "" {
		a.MetaDescription = truncateRunes(a.Summary, 160)
	}
}

// IsRecommendable 判断文章是否可进入推荐结果。
func (a *Article) IsRecommendable() bool {
	return a.Status == StatusPublished && a.PublishedAt != nil
}

// LimitedBody 返回付费内容的限制正文：前 30% 的单词加省略号。
// 非付费文章返回完整正文。
func (a *Article) LimitedBody() string {
	if !a.IsPaywalled {
		return a.Body
	}

	words := strings.Fields(a.Body)
	limit := int(float64(len(words)) * 0.3)
	return strings.Join(words[:limit], " ") + "..."
}

// TagNames 返回文章标签名集合。
func (a *Article) TagNames() []string {
	names := make([]string, 0, len(a.Tags))
	for _, tag := range a.Tags {
		names = append(names, tag.Name)
	}
	return names
}

// Slugify 将标题转换为 URL 友好的 slug。
func Slugify(value string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

func truncateRunes(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}
