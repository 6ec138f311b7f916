package main

import (
	"fmt"
	"log"
	"time"

	"github.com/GTM-04/newsblogbackend/internal/config"
	"github.com/GTM-04/newsblogbackend/internal/db"
	"golang.org/x/crypto/bcrypt"
)

// 演示数据生成器
func main() {
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成演示数据...")

	createDemoUsers()
	createDemoCategories()
	createDemoTags()
	createDemoArticles()
	createDemoPodcasts()
	createDemoVideos()
	createHomepageSections()

	fmt.Println("演示数据生成完成！")
	fmt.Println("编辑账号: editor@pulse.test (密码: editor123)")
	fmt.Println("读者账号: reader@pulse.test (密码: reader123)")
}

// 创建演示用户
func createDemoUsers() {
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，跳过创建")
		return
	}

	hashedEditor, _ := bcrypt.GenerateFromPassword([]byte("editor123"), bcrypt.DefaultCost)
	editor := db.User{
		Email:     "editor@pulse.test",
		Password:  string(hashedEditor),
		FirstName: "Elena",
		LastName:  "Okafor",
		IsActive:  true,
		IsStaff:   true,
		IsEditor:  true,
	}
	db.DB.Create(&editor)

	hashedReader, _ := bcrypt.GenerateFromPassword([]byte("reader123"), bcrypt.DefaultCost)
	reader := db.User{
		Email:     "reader@pulse.test",
		Password:  string(hashedReader),
		FirstName: "Sam",
		LastName:  "Ruiz",
		IsActive:  true,
	}
	db.DB.Create(&reader)

	fmt.Println("✅ 演示用户创建完成")
}

// 创建演示分类
func createDemoCategories() {
	var count int64
	db.DB.Model(&db.Category{}).Count(&count)
	if count > 0 {
		fmt.Println("分类已存在，跳过创建")
		return
	}

	categories := []db.Category{
		{Name: "Science", Slug: "science", Description: "Research, discoveries and the people behind them."},
		{Name: "Technology", Slug: "technology", Description: "Where engineering meets everyday life."},
		{Name: "Culture", Slug: "culture", Description: "Essays and reflections."},
		{Name: "Climate", Slug: "climate", Description: "The changing planet, reported carefully."},
	}
	for i := range categories {
		db.DB.Create(&categories[i])
	}

	fmt.Println("✅ 演示分类创建完成")
}

// 创建演示标签
func createDemoTags() {
	var count int64
	db.DB.Model(&db.Tag{}).Count(&count)
	if count > 0 {
		fmt.Println("标签已存在，跳过创建")
		return
	}

	tags := []string{"space", "nasa", "ai", "biology", "oceans", "energy", "policy", "history"}
	for _, name := range tags {
		db.DB.Create(&db.Tag{Name: name})
	}

	fmt.Println("✅ 演示标签创建完成")
}

// 创建演示文章
func createDemoArticles() {
	db.DB.Exec("DELETE FROM article_tags")
	db.DB.Exec("DELETE FROM article_views")
	db.DB.Exec("DELETE FROM articles")

	var editor db.User
	db.DB.Where("email = ?", "editor@pulse.test").First(&editor)

	var science, technology, culture, climate db.Category
	db.DB.Where("slug = ?", "science").First(&science)
	db.DB.Where("slug = ?", "technology").First(&technology)
	db.DB.Where("slug = ?", "culture").First(&culture)
	db.DB.Where("slug = ?", "climate").First(&climate)

	var allTags []db.Tag
	db.DB.Find(&allTags)
	tagMap := make(map[string]db.Tag)
	for _, tag := range allTags {
		tagMap[tag.Name] = tag
	}

	contents := []struct {
		title       string
		summary     string
		body        string
		category    uint
		tags        []string
		contentType string
		editorPick  bool
		paywalled   bool
		viewCount   uint
	}{
		{
			title:       "The Long Road Back to the Moon",
			summary:     "Why returning to the lunar surface is harder the second time around.",
			body:        "# The Long Road Back\n\nHalf a century after the last bootprints, engineers are relearning lessons the Apollo generation took to their graves. Modern missions carry more capable instruments, tighter budgets and far less appetite for risk. This piece follows the teams rebuilding that lost institutional knowledge, from cryogenic fuel handling to the quiet art of landing on dust.",
			category:    science.ID,
			tags:        []string{"space", "nasa", "history"},
			contentType: db.ContentTypeNews,
			editorPick:  true,
			viewCount:   412,
		},
		{
			title:       "What Large Models Still Cannot Do",
			summary:     "A sober inventory of the gaps behind the demos.",
			body:        "# What Large Models Still Cannot Do\n\nBeneath the impressive demos sits a stubborn list of failures: brittle arithmetic, confident fabrication, and a shallow grip on cause and effect. We interviewed a dozen researchers about which gaps are engineering problems and which might be something deeper.",
			category:    technology.ID,
			tags:        []string{"ai"},
			contentType: db.ContentTypeResearch,
			editorPick:  true,
			paywalled:   true,
			viewCount:   958,
		},
		{
			title:       "Mapping the Midnight Zone",
			summary:     "New sonar surveys reveal an ocean floor stranger than expected.",
			body:        "# Mapping the Midnight Zone\n\nMost of the seafloor remains less charted than the surface of Mars. A new generation of autonomous gliders is changing that, one cold transect at a time. The early maps show seamounts where charts promised plains.",
			category:    science.ID,
			tags:        []string{"oceans", "biology"},
			contentType: db.ContentTypeNews,
			viewCount:   233,
		},
		{
			title:       "The Grid That Ate the Desert",
			summary:     "Inside the largest solar build-out in the hemisphere.",
			body:        "# The Grid That Ate the Desert\n\nThe panels stretch to the horizon, but the real story is the transmission lines that do not exist yet. We spent a week with the planners trying to move sunshine a thousand miles north.",
			category:    climate.ID,
			tags:        []string{"energy", "policy"},
			contentType: db.ContentTypeNews,
			viewCount:   187,
		},
		{
			title:       "Notes on Reading Slowly",
			summary:     "An argument for the unhurried page.",
			body:        "# Notes on Reading Slowly\n\nSpeed is the default setting of the feed. This essay makes the opposite case: that comprehension compounds when you let a difficult paragraph sit overnight.",
			category:    culture.ID,
			tags:        []string{"history"},
			contentType: db.ContentTypeEssay,
			viewCount:   95,
		},
		{
			title:       "A Field Guide to Martian Weather",
			summary:     "Dust storms, frost and the forecast for the next rover.",
			body:        "# A Field Guide to Martian Weather\n\nMars has seasons, fronts and even snow of a sort. Mission planners now employ staff meteorologists whose forecasts decide when a rover drives and when it hunkers down.",
			category:    science.ID,
			tags:        []string{"space", "nasa"},
			contentType: db.ContentTypeResearch,
			paywalled:   true,
			viewCount:   341,
		},
	}

	for idx, data := range contents {
		publishedAt := time.Now().UTC().Add(-time.Duration(idx) * 36 * time.Hour)
		article := db.Article{
			Title:            data.title,
			Summary:          data.summary,
			Body:             data.body,
			CategoryID:       data.category,
			AuthorID:         editor.ID,
			ContentType:      data.contentType,
			Status:           db.StatusPublished,
			IsEditorPick:     data.editorPick,
			IsPaywalled:      data.paywalled,
			ConfidenceRating: db.ConfidenceHigh,
			ViewCount:        data.viewCount,
			SourcesCount:     3 + idx,
		}
		article.PrepareForSave(publishedAt)

		if err := db.DB.Create(&article).Error; err != nil {
			log.Printf("创建文章失败: %v", err)
			continue
		}

		var articleTags []db.Tag
		for _, name := range data.tags {
			if tag, ok := tagMap[name]; ok {
				articleTags = append(articleTags, tag)
			}
		}
		if len(articleTags) > 0 {
			if err := db.DB.Model(&article).Association("Tags").Append(articleTags); err != nil {
				log.Printf("关联标签失败: %v", err)
			}
		}
	}

	fmt.Println("✅ 演示文章创建完成")
}

// 创建演示播客
func createDemoPodcasts() {
	var count int64
	db.DB.Model(&db.Podcast{}).Count(&count)
	if count > 0 {
		fmt.Println("播客已存在，跳过创建")
		return
	}

	var editor db.User
	db.DB.Where("email = ?", "editor@pulse.test").First(&editor)

	now := time.Now().UTC()
	episodeOne, episodeTwo := uint(1), uint(2)
	episodes := []db.Podcast{
		{
			Title:           "Voices from the Clean Room",
			Description:     "Engineers talk about building spacecraft you can never touch again.",
			AudioURL:        "https://cdn.pulse.test/audio/clean-room.mp3",
			DurationSeconds: 2710,
			EpisodeNumber:   &episodeOne,
			AuthorID:        editor.ID,
			IsFeatured:      true,
		},
		{
			Title:           "The Forecast for Mars",
			Description:     "A conversation with the first interplanetary meteorologists.",
			AudioURL:        "https://cdn.pulse.test/audio/mars-weather.mp3",
			DurationSeconds: 3205,
			EpisodeNumber:   &episodeTwo,
			AuthorID:        editor.ID,
		},
	}
	for i := range episodes {
		episodes[i].PrepareForSave(now.Add(-time.Duration(i) * 7 * 24 * time.Hour))
		db.DB.Create(&episodes[i])
	}

	fmt.Println("✅ 演示播客创建完成")
}

// 创建演示视频
func createDemoVideos() {
	var count int64
	db.DB.Model(&db.Video{}).Count(&count)
	if count > 0 {
		fmt.Println("视频已存在，跳过创建")
		return
	}

	var editor db.User
	db.DB.Where("email = ?", "editor@pulse.test").First(&editor)

	video := db.Video{
		Title:           "Watch a Glider Dive Two Miles Down",
		Description:     "Footage from the autonomous survey of the midnight zone.",
		ExternalURL:     "https://video.pulse.test/watch/midnight-glider",
		DurationSeconds: 542,
		AuthorID:        editor.ID,
		IsFeatured:      true,
	}
	video.PrepareForSave(time.Now().UTC())
	db.DB.Create(&video)

	fmt.Println("✅ 演示视频创建完成")
}

// 创建首页分区
func createHomepageSections() {
	var count int64
	db.DB.Model(&db.HomepageSection{}).Count(&count)
	if count > 0 {
		fmt.Println("首页分区已存在，跳过创建")
		return
	}

	sections := []db.HomepageSection{
		{
			SectionType:      db.SectionHero,
			Title:            "Today",
			Position:         1,
			ManuallyCurated:  false,
			AutoContentType:  db.AutoContentRecent,
			AutoArticleCount: 3,
			IsActive:         true,
		},
		{
			SectionType:      db.SectionCollage,
			Title:            "Most Read",
			Position:         2,
			ManuallyCurated:  false,
			AutoContentType:  db.AutoContentPopular,
			AutoArticleCount: 4,
			IsActive:         true,
		},
		{
			SectionType:      db.SectionResearchStrip,
			Title:            "From the Editors",
			Subtitle:         "Stories we think deserve a slow read.",
			Position:         3,
			ManuallyCurated:  false,
			AutoContentType:  db.AutoContentEditorPicks,
			AutoArticleCount: 5,
			IsActive:         true,
		},
	}
	for i := range sections {
		db.DB.Create(&sections[i])
	}

	fmt.Println("✅ 首页分区创建完成")
}
