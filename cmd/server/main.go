package main

import (
	"log"

	"github.com/GTM-04/newsblogbackend/internal/config"
	"github.com/GTM-04/newsblogbackend/internal/db"
	"github.com/GTM-04/newsblogbackend/internal/handler"
	"github.com/GTM-04/newsblogbackend/internal/router"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 确保存在初始编辑账号
	if err := db.EnsureEditor(cfg.RootEditorEmail, cfg.RootEditorPassword); err != nil {
		log.Fatalf("failed to ensure root editor: %v", err)
	}

	api := handler.NewAPI(db.DB, cfg.UploadDir, cfg.UploadURLPath)

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(api, cfg.SessionSecret, cfg.UploadURLPath, cfg.UploadDir)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
