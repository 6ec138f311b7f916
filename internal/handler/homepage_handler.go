package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetHomepage 返回按位置排序的首页分区及其内容
func (a *API) GetHomepage(c *gin.Context) {
	sections, err := a.homepage.Sections()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load homepage")
		return
	}

	items := make([]gin.H, 0, len(sections))
	for _, content := range sections {
		articles := make([]gin.H, 0, len(content.Articles))
		for i := range content.Articles {
			articles = append(articles, articleSummaryJSON(&content.Articles[i]))
		}
		podcasts := make([]gin.H, 0, len(content.Podcasts))
		for i := range content.Podcasts {
			podcasts = append(podcasts, podcastJSON(&content.Podcasts[i]))
		}
		videos := make([]gin.H, 0, len(content.Videos))
		for i := range content.Videos {
			videos = append(videos, videoJSON(&content.Videos[i]))
		}

		items = append(items, gin.H{
			"id":           content.Section.ID,
			"section_type": content.Section.SectionType,
			"title":        content.Section.Title,
			"subtitle":     content.Section.Subtitle,
			"position":     content.Section.Position,
			"articles":     articles,
			"podcasts":     podcasts,
			"videos":       videos,
		})
	}

	c.JSON(http.StatusOK, gin.H{"sections": items})
}
