package handler

import (
	"github.com/GTM-04/newsblogbackend/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db              *gorm.DB
	articles        *service.ArticleService
	categories      *service.CategoryService
	tags            *service.TagService
	podcasts        *service.PodcastService
	videos          *service.VideoService
	homepage        *service.HomepageService
	ledger          *service.ViewLedger
	profiles        *service.ProfileService
	recommendations *service.RecommendationService
	media           *service.MediaService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, uploadDir, uploadURL string) *API {
	tagService := service.NewTagService(gdb)
	ledger := service.NewViewLedger(gdb)
	profiles := service.NewProfileService(gdb)

	return &API{
		db:              gdb,
		articles:        service.NewArticleService(gdb, tagService),
		categories:      service.NewCategoryService(gdb),
		tags:            tagService,
		podcasts:        service.NewPodcastService(gdb, tagService),
		videos:          service.NewVideoService(gdb, tagService),
		homepage:        service.NewHomepageService(gdb),
		ledger:          ledger,
		profiles:        profiles,
		recommendations: service.NewRecommendationService(gdb, ledger, profiles),
		media:           service.NewMediaService(gdb, uploadDir, uploadURL),
	}
}
