package router

import (
	"github.com/GTM-04/newsblogbackend/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret, uploadURLPath, uploadDir string) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("pulse_session", store))
	r.Use(api.LoadUser())

	// 媒体文件静态服务
	r.Static(uploadURLPath, uploadDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	apiGroup := r.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			auth.POST("/login", api.Login)
			auth.POST("/logout", api.Logout)
			auth.GET("/me", handler.AuthRequired(), api.Me)
			auth.PATCH("/profile", handler.AuthRequired(), api.UpdateProfile)
		}

		apiGroup.GET("/categories", api.ListCategories)
		apiGroup.GET("/categories/:slug", api.GetCategory)

		apiGroup.GET("/tags", api.ListTags)

		apiGroup.GET("/articles", api.ListArticles)
		apiGroup.GET("/articles/:slug", api.GetArticle)
		apiGroup.GET("/articles/:slug/schema", api.ArticleSchema)
		apiGroup.POST("/articles/:slug/increment-view", api.IncrementView)

		apiGroup.GET("/podcasts", api.ListPodcasts)
		apiGroup.GET("/podcasts/:slug", api.GetPodcast)
		apiGroup.POST("/podcasts/:slug/increment-view", api.IncrementPodcastView)

		apiGroup.GET("/videos", api.ListVideos)
		apiGroup.GET("/videos/:slug", api.GetVideo)
		apiGroup.POST("/videos/:slug/increment-view", api.IncrementVideoView)

		apiGroup.GET("/homepage", api.GetHomepage)
		apiGroup.GET("/search", api.Search)

		apiGroup.GET("/recommendations", handler.AuthRequired(), api.GetRecommendations)

		// 编辑后台
		editor := apiGroup.Group("")
		editor.Use(handler.AuthRequired(), handler.EditorRequired())
		{
			editor.POST("/articles", api.CreateArticle)
			editor.PUT("/articles/:slug", api.UpdateArticle)
			editor.DELETE("/articles/:slug", api.DeleteArticle)

			editor.POST("/podcasts", api.CreatePodcast)
			editor.PUT("/podcasts/:slug", api.UpdatePodcast)
			editor.DELETE("/podcasts/:slug", api.DeletePodcast)

			editor.POST("/videos", api.CreateVideo)
			editor.PUT("/videos/:slug", api.UpdateVideo)
			editor.DELETE("/videos/:slug", api.DeleteVideo)

			editor.POST("/media", api.UploadMedia)
		}
	}

	return r
}
