package db

import "time"

// ArticleView 记录用户对文章的浏览历史，用于个性化推荐。
// (user_id, article_id) 唯一，重复浏览只刷新时间戳。
type ArticleView struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"uniqueIndex:idx_article_views_user_article;index"`
	ArticleID uint `gorm:"uniqueIndex:idx_article_views_user_article;index"`
	ViewedAt  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定自定义表名。
func (ArticleView) TableName() string {
	return "article_views"
}
