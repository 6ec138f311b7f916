package db

import "gorm.io/gorm"

// Category 定义了层级化的内容分类
type Category struct {
	gorm.Model
	Name        string `gorm:"size:100;uniqueIndex;not null"`
	Slug        string `gorm:"size:100;uniqueIndex;not null"`
	Description string
	ParentID    *uint
	Parent      *Category  `gorm:"foreignKey:ParentID"`
	Children    []Category `gorm:"foreignKey:ParentID"`

	// ArticleCount 为已发布文章数，由查询填充，不落库。
	ArticleCount int64 `gorm:"-"`
}
