package service

import (
	"testing"
	"time"

	"github.com/GTM-04/newsblogbackend/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRecommendationTestDB(t *testing.T) (*RecommendationService, func()) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.Category{}, &db.Tag{}, &db.Article{}, &db.ArticleView{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	db.DB = gdb

	ledger := NewViewLedger(gdb)
	profiles := NewProfileService(gdb)
	svc := NewRecommendationService(gdb, ledger, profiles)

	return svc, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func seedReader(t *testing.T, lastActivity *time.Time) *db.User {
	t.Helper()

	user := db.User{Email: "reader@example.com", Password: "hashed", LastActivity: lastActivity}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return &user
}

type articleSeed struct {
	title       string
	tags        []string
	publishedAt time.Time
	editorPick  bool
	status      string
}

func seedArticle(t *testing.T, seed articleSeed) *db.Article {
	t.Helper()

	status := seed.status
	if status == "" {
		status = db.StatusPublished
	}

	article := db.Article{
		Title:        seed.title,
		Slug:         db.Slugify(seed.title),
		Status:       status,
		IsEditorPick: seed.editorPick,
	}
	if status == db.StatusPublished {
		published := seed.publishedAt
		article.PublishedAt = &published
	}

	if err := db.DB.Create(&article).Error; err != nil {
		t.Fatalf("failed to seed article %q: %v", seed.title, err)
	}

	for _, name := range seed.tags {
		var tag db.Tag
		if err := db.DB.Where("name = ?", name).FirstOrCreate(&tag, db.Tag{Name: name}).Error; err != nil {
			t.Fatalf("failed to seed tag %q: %v", name, err)
		}
		if err := db.DB.Model(&article).Association("Tags").Append(&tag); err != nil {
			t.Fatalf("failed to attach tag %q: %v", name, err)
		}
	}

	return &article
}

func recordViews(t *testing.T, svc *RecommendationService, userID uint, when time.Time, articles ...*db.Article) {
	t.Helper()
	for _, article := range articles {
		if err := svc.ledger.RecordView(userID, article.ID, when); err != nil {
			t.Fatalf("failed to record view: %v", err)
		}
	}
}

func TestRecommendColdStartReturnsEditorPicks(t *testing.T) {
	svc, cleanup := setupRecommendationTestDB(t)
	defer cleanup()

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	user := seedReader(t, nil)

	older := seedArticle(t, articleSeed{title: "Older pick", publishedAt: base.Add(-48 * time.Hour), editorPick: true})
	newer := seedArticle(t, articleSeed{title: "Newer pick", publishedAt: base.Add(-2 * time.Hour), editorPick: true})
	seedArticle(t, articleSeed{title: "Not a pick", publishedAt: base.Add(-time.Hour)})
	seedArticle(t, articleSeed{title: "Draft pick", editorPick: true, status: db.StatusDraft})

	result, err := svc.Recommend(user, base)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}

	if result.BasedOn != 0 {
		t.Fatalf("expected based_on 0 for cold start, got %d", result.BasedOn)
	}
	if len(result.Articles) != 2 {
		t.Fatalf("expected 2 editor picks, got %d", len(result.Articles))
	}
	if result.Articles[0].ID != newer.ID || result.Articles[1].ID != older.ID {
		t.Fatalf("expected picks ordered by publish time desc, got [%s, %s]",
			result.Articles[0].Title, result.Articles[1].Title)
	}
}

func TestRecommendColdStartCapsAtTen(t *testing.T) {
	svc, cleanup := setupRecommendationTestDB(t)
	defer cleanup()

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	user := seedReader(t, nil)

	for i := 0; i < 13; i++ {
		seedArticle(t, articleSeed{
			title:       "Pick " + string(rune('A'+i)),
			publishedAt: base.Add(-time.Duration(i) * time.Hour),
			editorPick:  true,
		})
	}

	result, err := svc.Recommend(user, base)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if len(result.Articles) != 10 {
		t.Fatalf("expected 10 recommendations, got %d", len(result.Articles))
	}
}

func TestRecommendExcludesViewedArticles(t *testing.T) {
	svc, cleanup := setupRecommendationTestDB(t)
	defer cleanup()

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	user := seedReader(t, &base)

	viewed := seedArticle(t, articleSeed{title: "Seen story", tags: []string{"nasa"}, publishedAt: base.Add(-time.Hour)})
	unseen := seedArticle(t, articleSeed{title: "Fresh story", tags: []string{"nasa"}, publishedAt: base.Add(-2 * time.Hour)})
	recordViews(t, svc, user.ID, base, viewed)

	result, err := svc.Recommend(user, base)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}

	for _, article := range result.Articles {
		if article.ID == viewed.ID {
			t.Fatalf("viewed article %q must never be recommended", article.Title)
		}
	}
	if len(result.Articles) != 1 || result.Articles[0].ID != unseen.ID {
		t.Fatalf("expected only the unseen story, got %d articles", len(result.Articles))
	}
	if result.BasedOn != 1 {
		t.Fatalf("expected based_on 1, got %d", result.BasedOn)
	}
}

func TestRecommendUntaggedHistoryFallsBackToRecent(t *testing.T) {
	svc, cleanup := setupRecommendationTestDB(t)
	defer cleanup()

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	user := seedReader(t, &base)

	viewed := seedArticle(t, articleSeed{title: "Untagged read", publishedAt: base.Add(-3 * time.Hour)})
	newer := seedArticle(t, articleSeed{title: "Newest", publishedAt: base.Add(-time.Hour)})
	older := seedArticle(t, articleSeed{title: "Oldest", publishedAt: base.Add(-2 * time.Hour)})
	recordViews(t, svc, user.ID, base, viewed)

	result, err := svc.Recommend(user, base)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}

	if len(result.Articles) != 2 {
		t.Fatalf("expected 2 fallback articles, got %d", len(result.Articles))
	}
	if result.Articles[0].ID != newer.ID || result.Articles[1].ID != older.ID {
		t.Fatalf("expected recent-first fallback, got [%s, %s]",
			result.Articles[0].Title, result.Articles[1].Title)
	}
	if result.BasedOn != 1 {
		t.Fatalf("expected based_on 1, got %d", result.BasedOn)
	}
}

func TestRecommendStaleProfileResets(t *testing.T) {
	svc, cleanup := setupRecommendationTestDB(t)
	defer cleanup()

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	lastActive := base.Add(-31 * 24 * time.Hour)
	user := seedReader(t, &lastActive)
	if err := db.DB.Model(user).Update("reading_profile", `{"topics":["space"]}`).Error; err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}

	viewed := seedArticle(t, articleSeed{title: "Ancient read", tags: []string{"nasa"}, publishedAt: base.Add(-40 * 24 * time.Hour)})
	seedArticle(t, articleSeed{title: "Would match", tags: []string{"nasa"}, publishedAt: base.Add(-time.Hour)})
	recordViews(t, svc, user.ID, lastActive, viewed)

	result, err := svc.Recommend(user, base)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}

	if result.Message != ProfileResetMessage {
		t.Fatalf("expected reset message, got %q", result.Message)
	}
	if len(result.Articles) != 0 {
		t.Fatalf("expected empty list on reset, got %d articles", len(result.Articles))
	}
	if result.BasedOn != 0 {
		t.Fatalf("expected based_on 0 on reset, got %d", result.BasedOn)
	}

	var reloaded db.User
	if err := db.DB.First(&reloaded, user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if reloaded.ReadingProfile != "{}" {
		t.Fatalf("expected cleared reading profile, got %q", reloaded.ReadingProfile)
	}
	if reloaded.LastActivity == nil || !reloaded.LastActivity.Equal(base) {
		t.Fatalf("expected last activity stamped to now, got %v", reloaded.LastActivity)
	}

	// 下一次请求不再触发重置，历史账本仍然有效。
	followUp, err := svc.Recommend(&reloaded, base.Add(time.Minute))
	if err != nil {
		t.Fatalf("follow-up Recommend returned error: %v", err)
	}
	if followUp.Message != "" {
		t.Fatalf("follow-up request must not reset again, got %q", followUp.Message)
	}
	if followUp.BasedOn != 1 {
		t.Fatalf("ledger survives the reset, expected based_on 1, got %d", followUp.BasedOn)
	}
}

func TestRecommendTagScoringAndTieBreak(t *testing.T) {
	svc, cleanup := setupRecommendationTestDB(t)
	defer cleanup()

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	user := seedReader(t, &base)

	// 兴趣集合 = {space, nasa}
	a := seedArticle(t, articleSeed{title: "Read A", tags: []string{"space", "nasa"}, publishedAt: base.Add(-10 * time.Hour)})
	b := seedArticle(t, articleSeed{title: "Read B", tags: []string{"nasa"}, publishedAt: base.Add(-9 * time.Hour)})
	recordViews(t, svc, user.ID, base, a, b)

	// C 和 D 各命中一个标签，C 发布更晚。
	cArticle := seedArticle(t, articleSeed{title: "Candidate C", tags: []string{"nasa", "rover"}, publishedAt: base.Add(-time.Hour)})
	dArticle := seedArticle(t, articleSeed{title: "Candidate D", tags: []string{"space"}, publishedAt: base.Add(-5 * time.Hour)})
	// E 命中两个标签，虽然发布最早也应排第一。
	eArticle := seedArticle(t, articleSeed{title: "Candidate E", tags: []string{"space", "nasa"}, publishedAt: base.Add(-20 * time.Hour)})
	// 无关标签不入选。
	seedArticle(t, articleSeed{title: "Unrelated", tags: []string{"football"}, publishedAt: base})

	result, err := svc.Recommend(user, base)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}

	if result.BasedOn != 2 {
		t.Fatalf("expected based_on 2, got %d", result.BasedOn)
	}
	if len(result.Articles) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(result.Articles))
	}

	if result.Articles[0].ID != eArticle.ID {
		t.Fatalf("expected two-tag match first, got %q", result.Articles[0].Title)
	}
	if result.Articles[1].ID != cArticle.ID || result.Articles[2].ID != dArticle.ID {
		t.Fatalf("expected tie broken by publish time desc: [C, D], got [%s, %s]",
			result.Articles[1].Title, result.Articles[2].Title)
	}
}

func TestRecommendRepeatViewsDoNotInflateScore(t *testing.T) {
	svc, cleanup := setupRecommendationTestDB(t)
	defer cleanup()

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	user := seedReader(t, &base)

	read := seedArticle(t, articleSeed{title: "Read twice", tags: []string{"nasa"}, publishedAt: base.Add(-10 * time.Hour)})
	recordViews(t, svc, user.ID, base.Add(-2*time.Hour), read)
	recordViews(t, svc, user.ID, base.Add(-time.Hour), read)

	seedArticle(t, articleSeed{title: "Single match", tags: []string{"nasa"}, publishedAt: base.Add(-3 * time.Hour)})

	result, err := svc.Recommend(user, base)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}

	if result.BasedOn != 1 {
		t.Fatalf("duplicate views must collapse to one ledger row, based_on = %d", result.BasedOn)
	}
	if len(result.Articles) != 1 {
		t.Fatalf("expected a single candidate, got %d", len(result.Articles))
	}
}

func TestRecommendEmptyCandidatesIsNotAnError(t *testing.T) {
	svc, cleanup := setupRecommendationTestDB(t)
	defer cleanup()

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	user := seedReader(t, &base)

	only := seedArticle(t, articleSeed{title: "The only story", tags: []string{"nasa"}, publishedAt: base.Add(-time.Hour)})
	recordViews(t, svc, user.ID, base, only)

	result, err := svc.Recommend(user, base)
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if len(result.Articles) != 0 {
		t.Fatalf("expected empty result, got %d articles", len(result.Articles))
	}
}
