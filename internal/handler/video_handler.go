package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/GTM-04/newsblogbackend/internal/db"
	"github.com/GTM-04/newsblogbackend/internal/service"
	"github.com/gin-gonic/gin"
)

type videoRequest struct {
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description"`
	VideoURL        string   `json:"video_url"`
	ExternalURL     string   `json:"external_url"`
	ThumbnailURL    string   `json:"thumbnail_url"`
	DurationSeconds uint     `json:"duration_seconds"`
	Tags            []string `json:"tags"`
	IsFeatured      bool     `json:"is_featured"`
}

// ListVideos 返回视频列表
func (a *API) ListVideos(c *gin.Context) {
	featured := parseBoolQuery(c, "featured")
	videos, err := a.videos.List(
		featured != nil && *featured,
		parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		parsePositiveInt(c.DefaultQuery("per_page", "10"), 10),
	)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list videos")
		return
	}

	items := make([]gin.H, 0, len(videos))
	for i := range videos {
		items = append(items, videoJSON(&videos[i]))
	}
	c.JSON(http.StatusOK, gin.H{"videos": items})
}

// GetVideo 返回视频详情
func (a *API) GetVideo(c *gin.Context) {
	video, err := a.videos.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			respondError(c, http.StatusNotFound, "video not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load video")
		return
	}

	payload := videoJSON(video)
	related := make([]gin.H, 0, len(video.RelatedArticles))
	for i := range video.RelatedArticles {
		related = append(related, articleSummaryJSON(&video.RelatedArticles[i]))
	}
	payload["related_articles"] = related

	c.JSON(http.StatusOK, payload)
}

// CreateVideo 新建视频（编辑权限）
func (a *API) CreateVideo(c *gin.Context) {
	var req videoRequest
	if !bindJSON(c, &req, "title is required") {
		return
	}

	user := currentUser(c)
	video, err := a.videos.Create(service.VideoInput{
		Title:           req.Title,
		Description:     req.Description,
		VideoURL:        req.VideoURL,
		ExternalURL:     req.ExternalURL,
		ThumbnailURL:    req.ThumbnailURL,
		DurationSeconds: req.DurationSeconds,
		TagNames:        req.Tags,
		IsFeatured:      req.IsFeatured,
	}, user.ID, time.Now())
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusCreated, videoJSON(video))
}

// UpdateVideo 更新视频（编辑权限）
func (a *API) UpdateVideo(c *gin.Context) {
	var req videoRequest
	if !bindJSON(c, &req, "title is required") {
		return
	}

	video, err := a.videos.Update(c.Param("slug"), service.VideoInput{
		Title:           req.Title,
		Description:     req.Description,
		VideoURL:        req.VideoURL,
		ExternalURL:     req.ExternalURL,
		ThumbnailURL:    req.ThumbnailURL,
		DurationSeconds: req.DurationSeconds,
		TagNames:        req.Tags,
		IsFeatured:      req.IsFeatured,
	}, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			respondError(c, http.StatusNotFound, "video not found")
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, videoJSON(video))
}

// DeleteVideo 删除视频（编辑权限）
func (a *API) DeleteVideo(c *gin.Context) {
	if err := a.videos.Delete(c.Param("slug")); err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			respondError(c, http.StatusNotFound, "video not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete video")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "video deleted"})
}

// IncrementVideoView 原子自增视频浏览数
func (a *API) IncrementVideoView(c *gin.Context) {
	slug := c.Param("slug")
	count, err := a.videos.IncrementViewCount(slug)
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			respondError(c, http.StatusNotFound, "video not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to record view")
		return
	}

	c.JSON(http.StatusOK, gin.H{"view_count": count, "slug": slug})
}

func videoJSON(video *db.Video) gin.H {
	tags := make([]string, 0, len(video.Tags))
	for _, tag := range video.Tags {
		tags = append(tags, tag.Name)
	}

	return gin.H{
		"id":               video.ID,
		"title":            video.Title,
		"slug":             video.Slug,
		"description":      video.Description,
		"video_url":        video.VideoURL,
		"external_url":     video.ExternalURL,
		"thumbnail_url":    video.ThumbnailURL,
		"duration_seconds": video.DurationSeconds,
		"author_name":      video.Author.FullName(),
		"tags":             tags,
		"is_featured":      video.IsFeatured,
		"view_count":       video.ViewCount,
		"published_at":     video.PublishedAt,
	}
}
