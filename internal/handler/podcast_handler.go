package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/GTM-04/newsblogbackend/internal/db"
	"github.com/GTM-04/newsblogbackend/internal/service"
	"github.com/gin-gonic/gin"
)

type podcastRequest struct {
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description"`
	AudioURL        string   `json:"audio_url"`
	ThumbnailURL    string   `json:"thumbnail_url"`
	EpisodeNumber   *uint    `json:"episode_number"`
	DurationSeconds uint     `json:"duration_seconds"`
	Transcript      string   `json:"transcript"`
	Tags            []string `json:"tags"`
	IsFeatured      bool     `json:"is_featured"`
}

// ListPodcasts 返回播客列表
func (a *API) ListPodcasts(c *gin.Context) {
	featured := parseBoolQuery(c, "featured")
	podcasts, err := a.podcasts.List(service.PodcastFilter{
		FeaturedOnly: featured != nil && *featured,
		Page:         parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage:      parsePositiveInt(c.DefaultQuery("per_page", "10"), 10),
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list podcasts")
		return
	}

	items := make([]gin.H, 0, len(podcasts))
	for i := range podcasts {
		items = append(items, podcastJSON(&podcasts[i]))
	}
	c.JSON(http.StatusOK, gin.H{"podcasts": items})
}

// GetPodcast 返回单集详情
func (a *API) GetPodcast(c *gin.Context) {
	podcast, err := a.podcasts.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPodcastNotFound) {
			respondError(c, http.StatusNotFound, "podcast not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load podcast")
		return
	}

	payload := podcastJSON(podcast)
	payload["transcript"] = podcast.Transcript
	related := make([]gin.H, 0, len(podcast.RelatedArticles))
	for i := range podcast.RelatedArticles {
		related = append(related, articleSummaryJSON(&podcast.RelatedArticles[i]))
	}
	payload["related_articles"] = related

	c.JSON(http.StatusOK, payload)
}

// CreatePodcast 新建播客单集（编辑权限）
func (a *API) CreatePodcast(c *gin.Context) {
	var req podcastRequest
	if !bindJSON(c, &req, "title is required") {
		return
	}

	user := currentUser(c)
	podcast, err := a.podcasts.Create(service.PodcastInput{
		Title:           req.Title,
		Description:     req.Description,
		AudioURL:        req.AudioURL,
		ThumbnailURL:    req.ThumbnailURL,
		EpisodeNumber:   req.EpisodeNumber,
		DurationSeconds: req.DurationSeconds,
		Transcript:      req.Transcript,
		TagNames:        req.Tags,
		IsFeatured:      req.IsFeatured,
	}, user.ID, time.Now())
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusCreated, podcastJSON(podcast))
}

// UpdatePodcast 更新播客单集（编辑权限）
func (a *API) UpdatePodcast(c *gin.Context) {
	var req podcastRequest
	if !bindJSON(c, &req, "title is required") {
		return
	}

	podcast, err := a.podcasts.Update(c.Param("slug"), service.PodcastInput{
		Title:           req.Title,
		Description:     req.Description,
		AudioURL:        req.AudioURL,
		ThumbnailURL:    req.ThumbnailURL,
		EpisodeNumber:   req.EpisodeNumber,
		DurationSeconds: req.DurationSeconds,
		Transcript:      req.Transcript,
		TagNames:        req.Tags,
		IsFeatured:      req.IsFeatured,
	}, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrPodcastNotFound) {
			respondError(c, http.StatusNotFound, "podcast not found")
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, podcastJSON(podcast))
}

// DeletePodcast 删除播客单集（编辑权限）
func (a *API) DeletePodcast(c *gin.Context) {
	if err := a.podcasts.Delete(c.Param("slug")); err != nil {
		if errors.Is(err, service.ErrPodcastNotFound) {
			respondError(c, http.StatusNotFound, "podcast not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete podcast")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "podcast deleted"})
}

// IncrementPodcastView 原子自增播客浏览数
func (a *API) IncrementPodcastView(c *gin.Context) {
	slug := c.Param("slug")
	count, err := a.podcasts.IncrementViewCount(slug)
	if err != nil {
		if errors.Is(err, service.ErrPodcastNotFound) {
			respondError(c, http.StatusNotFound, "podcast not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to record view")
		return
	}

	c.JSON(http.StatusOK, gin.H{"view_count": count, "slug": slug})
}

func podcastJSON(podcast *db.Podcast) gin.H {
	tags := make([]string, 0, len(podcast.Tags))
	for _, tag := range podcast.Tags {
		tags = append(tags, tag.Name)
	}

	return gin.H{
		"id":               podcast.ID,
		"title":            podcast.Title,
		"slug":             podcast.Slug,
		"description":      podcast.Description,
		"audio_url":        podcast.AudioURL,
		"thumbnail_url":    podcast.ThumbnailURL,
		"episode_number":   podcast.EpisodeNumber,
		"duration_seconds": podcast.DurationSeconds,
		"author_name":      podcast.Author.FullName(),
		"tags":             tags,
		"is_featured":      podcast.IsFeatured,
		"view_count":       podcast.ViewCount,
		"published_at":     podcast.PublishedAt,
	}
}
