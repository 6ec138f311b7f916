package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/GTM-04/newsblogbackend/internal/db"
	"github.com/GTM-04/newsblogbackend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

type articleRequest struct {
	Title              string   `json:"title" binding:"required"`
	Subtitle           string   `json:"subtitle"`
	Summary            string   `json:"summary"`
	Body               string   `json:"body"`
	HeroImageURL       string   `json:"hero_image_url"`
	CategorySlug       string   `json:"category_slug" binding:"required"`
	Tags               []string `json:"tags"`
	ContentType        string   `json:"content_type"`
	Status             string   `json:"status"`
	IsEditorPick       bool     `json:"is_editor_pick"`
	IsPaywalled        bool     `json:"is_paywalled"`
	SourcesCount       int      `json:"sources_count"`
	ExpertsInterviewed int      `json:"experts_interviewed"`
	ConfidenceRating   string   `json:"confidence_rating"`
	WhatWeDontKnow     string   `json:"what_we_dont_know"`
	MetaTitle          string   `json:"meta_title"`
	MetaDescription    string   `json:"meta_description"`
	SchemaType         string   `json:"schema_type"`
}

// ListArticles 返回文章列表，非编辑只能看到已发布内容
func (a *API) ListArticles(c *gin.Context) {
	user := currentUser(c)

	filter := service.ArticleFilter{
		CategorySlug:       strings.TrimSpace(c.Query("category")),
		ContentType:        strings.TrimSpace(c.Query("content_type")),
		TagName:            strings.TrimSpace(c.Query("tag")),
		EditorPick:         parseBoolQuery(c, "editor_pick"),
		OrderBy:            strings.TrimSpace(c.Query("order_by")),
		Page:               parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage:            parsePositiveInt(c.DefaultQuery("per_page", "10"), 10),
		IncludeUnpublished: user != nil && user.IsStaff,
	}
	if filter.IncludeUnpublished {
		filter.Status = strings.TrimSpace(c.Query("status"))
	}

	result, err := a.articles.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list articles")
		return
	}

	items := make([]gin.H, 0, len(result.Articles))
	for i := range result.Articles {
		items = append(items, articleSummaryJSON(&result.Articles[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"articles":    items,
		"total":       result.Total,
		"page":        result.Page,
		"per_page":    result.PerPage,
		"total_pages": result.TotalPages,
	})
}

// GetArticle 返回文章详情并触发浏览副作用：
// 原子自增浏览数；已登录用户额外写入浏览账本并刷新活跃时间。
func (a *API) GetArticle(c *gin.Context) {
	user := currentUser(c)
	slug := c.Param("slug")

	includeUnpublished := user != nil && user.IsStaff
	article, err := a.articles.GetBySlug(slug, includeUnpublished)
	if err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			respondError(c, http.StatusNotFound, "article not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load article")
		return
	}

	now := time.Now()
	newCount, err := a.ledger.IncrementViewCount(article.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to record view")
		return
	}
	article.ViewCount = newCount

	if user != nil {
		if err := a.ledger.RecordView(user.ID, article.ID, now); err != nil {
			respondError(c, http.StatusInternalServerError, "failed to record view")
			return
		}
		if err := a.profiles.TouchActivity(user.ID, now); err != nil {
			respondError(c, http.StatusInternalServerError, "failed to record view")
			return
		}
	}

	// 付费文章对未登录读者只提供限制正文
	entitled := user != nil
	body := article.Body
	if article.IsPaywalled && !entitled {
		body = article.LimitedBody()
	}

	payload := articleSummaryJSON(article)
	payload["subtitle"] = article.Subtitle
	payload["body"] = body
	payload["body_html"] = renderMarkdown(body)
	payload["is_paywalled"] = article.IsPaywalled
	payload["limited"] = article.IsPaywalled && !entitled
	payload["content_type"] = article.ContentType
	payload["sources_count"] = article.SourcesCount
	payload["experts_interviewed"] = article.ExpertsInterviewed
	payload["confidence_rating"] = article.ConfidenceRating
	payload["what_we_dont_know"] = article.WhatWeDontKnow
	payload["meta_title"] = article.MetaTitle
	payload["meta_description"] = article.MetaDescription
	payload["schema_type"] = article.SchemaType
	if user != nil && user.IsStaff {
		payload["status"] = article.Status
	}

	c.JSON(http.StatusOK, payload)
}

// IncrementView 是轻量打点接口：只自增浏览数，不返回正文。
// 登录用户同时刷新浏览账本。
func (a *API) IncrementView(c *gin.Context) {
	slug := c.Param("slug")

	article, err := a.articles.GetBySlug(slug, false)
	if err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			respondError(c, http.StatusNotFound, "article not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load article")
		return
	}

	newCount, err := a.ledger.IncrementViewCount(article.ID)
	if err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			respondError(c, http.StatusNotFound, "article not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to record view")
		return
	}

	if user := currentUser(c); user != nil {
		if err := a.ledger.RecordView(user.ID, article.ID, time.Now()); err != nil {
			respondError(c, http.StatusInternalServerError, "failed to record view")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"view_count": newCount,
		"slug":       article.Slug,
	})
}

// ArticleSchema 返回文章的 JSON-LD 结构化数据
func (a *API) ArticleSchema(c *gin.Context) {
	article, err := a.articles.GetBySlug(c.Param("slug"), false)
	if err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			respondError(c, http.StatusNotFound, "article not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load article")
		return
	}

	schema := gin.H{
		"@context":      "https://schema.org",
		"@type":         article.SchemaType,
		"headline":      article.Title,
		"description":   article.Summary,
		"datePublished": article.PublishedAt,
		"dateModified":  article.UpdatedAt,
		"author": gin.H{
			"@type": "Person",
			"name":  article.Author.FullName(),
		},
	}
	if article.HeroImageURL != "" {
		schema["image"] = article.HeroImageURL
	}

	c.JSON(http.StatusOK, schema)
}

// CreateArticle 新建文章（编辑权限）
func (a *API) CreateArticle(c *gin.Context) {
	var req articleRequest
	if !bindJSON(c, &req, "title and category_slug are required") {
		return
	}

	user := currentUser(c)
	article, err := a.articles.Create(articleInputFrom(req), user.ID, time.Now())
	if err != nil {
		respondArticleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, articleSummaryJSON(article))
}

// UpdateArticle 更新文章（编辑权限）
func (a *API) UpdateArticle(c *gin.Context) {
	var req articleRequest
	if !bindJSON(c, &req, "title and category_slug are required") {
		return
	}

	article, err := a.articles.Update(c.Param("slug"), articleInputFrom(req), time.Now())
	if err != nil {
		respondArticleError(c, err)
		return
	}

	c.JSON(http.StatusOK, articleSummaryJSON(article))
}

// DeleteArticle 删除文章（编辑权限）
func (a *API) DeleteArticle(c *gin.Context) {
	if err := a.articles.Delete(c.Param("slug")); err != nil {
		respondArticleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "article deleted"})
}

func articleInputFrom(req articleRequest) service.ArticleInput {
	return service.ArticleInput{
		Title:              req.Title,
		Subtitle:           req.Subtitle,
		Summary:            req.Summary,
		Body:               req.Body,
		HeroImageURL:       req.HeroImageURL,
		CategorySlug:       req.CategorySlug,
		TagNames:           req.Tags,
		ContentType:        req.ContentType,
		Status:             req.Status,
		IsEditorPick:       req.IsEditorPick,
		IsPaywalled:        req.IsPaywalled,
		SourcesCount:       req.SourcesCount,
		ExpertsInterviewed: req.ExpertsInterviewed,
		ConfidenceRating:   req.ConfidenceRating,
		WhatWeDontKnow:     req.WhatWeDontKnow,
		MetaTitle:          req.MetaTitle,
		MetaDescription:    req.MetaDescription,
		SchemaType:         req.SchemaType,
	}
}

func respondArticleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrArticleNotFound):
		respondError(c, http.StatusNotFound, "article not found")
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, http.StatusBadRequest, "category not found")
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrSlugTaken):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "failed to save article")
	}
}

// articleSummaryJSON 序列化列表与推荐场景下的文章摘要字段。
func articleSummaryJSON(article *db.Article) gin.H {
	return gin.H{
		"id":             article.ID,
		"title":          article.Title,
		"slug":           article.Slug,
		"summary":        article.Summary,
		"hero_image_url": article.HeroImageURL,
		"category":       article.Category.Name,
		"category_slug":  article.Category.Slug,
		"author_name":    article.Author.FullName(),
		"tags":           article.TagNames(),
		"is_editor_pick": article.IsEditorPick,
		"view_count":     article.ViewCount,
		"published_at":   article.PublishedAt,
	}
}

func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return ""
	}
	return sanitizer.Sanitize(buf.String())
}
