package service

import (
	"testing"
	"time"

	"github.com/GTM-04/newsblogbackend/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHomepageTestDB(t *testing.T) (*HomepageService, func()) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := gdb.AutoMigrate(
		&db.User{}, &db.Category{}, &db.Tag{}, &db.Article{},
		&db.Podcast{}, &db.Video{}, &db.HomepageSection{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	db.DB = gdb

	return NewHomepageService(gdb), func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func seedHomepageArticle(t *testing.T, title string, published time.Time, viewCount uint, editorPick bool) *db.Article {
	t.Helper()

	article := db.Article{
		Title:        title,
		Slug:         db.Slugify(title),
		Status:       db.StatusPublished,
		PublishedAt:  &published,
		ViewCount:    viewCount,
		IsEditorPick: editorPick,
	}
	if err := db.DB.Create(&article).Error; err != nil {
		t.Fatalf("failed to seed article %q: %v", title, err)
	}
	return &article
}

func TestSectionsAutoPopulateRules(t *testing.T) {
	svc, cleanup := setupHomepageTestDB(t)
	defer cleanup()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	recent := seedHomepageArticle(t, "Recent story", base.Add(3*time.Hour), 1, false)
	popular := seedHomepageArticle(t, "Popular story", base.Add(time.Hour), 500, false)
	pick := seedHomepageArticle(t, "Editor pick", base.Add(2*time.Hour), 2, true)

	sections := []db.HomepageSection{
		{SectionType: db.SectionHero, Title: "Latest", Position: 1, ManuallyCurated: false, AutoContentType: db.AutoContentRecent, AutoArticleCount: 1, IsActive: true},
		{SectionType: db.SectionCollage, Title: "Trending", Position: 2, ManuallyCurated: false, AutoContentType: db.AutoContentPopular, AutoArticleCount: 1, IsActive: true},
		{SectionType: db.SectionResearchStrip, Title: "Picks", Position: 3, ManuallyCurated: false, AutoContentType: db.AutoContentEditorPicks, AutoArticleCount: 5, IsActive: true},
		{SectionType: db.SectionQNA, Title: "Dormant", Position: 0, ManuallyCurated: false, AutoContentType: db.AutoContentRecent, IsActive: false},
	}
	for i := range sections {
		if err := db.DB.Create(&sections[i]).Error; err != nil {
			t.Fatalf("failed to seed section: %v", err)
		}
	}

	contents, err := svc.Sections()
	if err != nil {
		t.Fatalf("Sections failed: %v", err)
	}

	if len(contents) != 3 {
		t.Fatalf("inactive sections must be skipped, got %d sections", len(contents))
	}
	if contents[0].Section.Title != "Latest" || contents[1].Section.Title != "Trending" {
		t.Fatalf("expected position ordering, got %q then %q",
			contents[0].Section.Title, contents[1].Section.Title)
	}

	if len(contents[0].Articles) != 1 || contents[0].Articles[0].ID != recent.ID {
		t.Fatalf("RECENT rule should pick the newest article")
	}
	if len(contents[1].Articles) != 1 || contents[1].Articles[0].ID != popular.ID {
		t.Fatalf("POPULAR rule should pick the most viewed article")
	}
	if len(contents[2].Articles) != 1 || contents[2].Articles[0].ID != pick.ID {
		t.Fatalf("EDITOR_PICKS rule should only return editor picks")
	}
}

func TestSectionsCuratedShowsPublishedOnly(t *testing.T) {
	svc, cleanup := setupHomepageTestDB(t)
	defer cleanup()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	published := seedHomepageArticle(t, "Curated published", base, 0, false)

	draft := db.Article{Title: "Curated draft", Slug: "curated-draft", Status: db.StatusDraft}
	if err := db.DB.Create(&draft).Error; err != nil {
		t.Fatalf("failed to seed draft: %v", err)
	}

	section := db.HomepageSection{
		SectionType:     db.SectionReflections,
		Title:           "Hand picked",
		ManuallyCurated: true,
		IsActive:        true,
		Articles:        []db.Article{*published, draft},
	}
	if err := db.DB.Create(&section).Error; err != nil {
		t.Fatalf("failed to seed section: %v", err)
	}

	contents, err := svc.Sections()
	if err != nil {
		t.Fatalf("Sections failed: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("expected 1 section, got %d", len(contents))
	}
	if len(contents[0].Articles) != 1 || contents[0].Articles[0].ID != published.ID {
		t.Fatalf("curated sections must hide unpublished articles, got %d articles", len(contents[0].Articles))
	}
}
