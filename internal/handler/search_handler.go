package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Search 在已发布文章上做子串搜索
func (a *API) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"query": query, "count": 0, "results": []gin.H{}})
		return
	}

	articles, err := a.articles.Search(query)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "search failed")
		return
	}

	results := make([]gin.H, 0, len(articles))
	for i := range articles {
		results = append(results, articleSummaryJSON(&articles[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}
