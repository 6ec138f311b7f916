package handler

import (
	"errors"
	"net/http"

	"github.com/GTM-04/newsblogbackend/internal/db"
	"github.com/GTM-04/newsblogbackend/internal/service"
	"github.com/gin-gonic/gin"
)

// ListCategories 返回全部分类及其已发布文章数
func (a *API) ListCategories(c *gin.Context) {
	categories, err := a.categories.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list categories")
		return
	}

	items := make([]gin.H, 0, len(categories))
	for i := range categories {
		items = append(items, categoryJSON(&categories[i]))
	}

	c.JSON(http.StatusOK, gin.H{"categories": items})
}

// GetCategory 按 slug 返回单个分类
func (a *API) GetCategory(c *gin.Context) {
	category, err := a.categories.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, http.StatusNotFound, "category not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load category")
		return
	}

	payload := categoryJSON(category)
	children := make([]gin.H, 0, len(category.Children))
	for i := range category.Children {
		children = append(children, categoryJSON(&category.Children[i]))
	}
	payload["children"] = children

	c.JSON(http.StatusOK, payload)
}

func categoryJSON(category *db.Category) gin.H {
	payload := gin.H{
		"id":            category.ID,
		"name":          category.Name,
		"slug":          category.Slug,
		"description":   category.Description,
		"article_count": category.ArticleCount,
	}
	if category.Parent != nil {
		payload["parent"] = gin.H{
			"name": category.Parent.Name,
			"slug": category.Parent.Slug,
		}
	}
	return payload
}
