package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListTags 返回标签列表及每个标签下已发布文章数
func (a *API) ListTags(c *gin.Context) {
	usage, err := a.tags.PublishedUsage()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list tags")
		return
	}

	items := make([]gin.H, 0, len(usage))
	for _, row := range usage {
		items = append(items, gin.H{
			"id":            row.ID,
			"name":          row.Name,
			"article_count": row.Count,
		})
	}

	c.JSON(http.StatusOK, gin.H{"tags": items})
}
