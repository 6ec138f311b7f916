package service

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/GTM-04/newsblogbackend/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupLedgerTestDB(t *testing.T) (*ViewLedger, func()) {
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

	return NewViewLedger(gdb), func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func TestRecordViewUpsertConverges(t *testing.T) {
	ledger, cleanup := setupLedgerTestDB(t)
	defer cleanup()

	article := db.Article{Title: "Story", Slug: "story", Status: db.StatusPublished}
	if err := db.DB.Create(&article).Error; err != nil {
		t.Fatalf("failed to seed article: %v", err)
	}

	first := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	second := first.Add(2 * time.Hour)

	if err := ledger.RecordView(1, article.ID, first); err != nil {
		t.Fatalf("first RecordView failed: %v", err)
	}
	if err := ledger.RecordView(1, article.ID, second); err != nil {
		t.Fatalf("second RecordView failed: %v", err)
	}

	var views []db.ArticleView
	if err := db.DB.Find(&views).Error; err != nil {
		t.Fatalf("failed to load views: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("repeat views must collapse to one row, got %d", len(views))
	}
	if !views[0].ViewedAt.Equal(second) {
		t.Fatalf("expected viewed_at refreshed to %v, got %v", second, views[0].ViewedAt)
	}
}

func TestRecordViewRejectsZeroIDs(t *testing.T) {
	ledger, cleanup := setupLedgerTestDB(t)
	defer cleanup()

	if err := ledger.RecordView(0, 1, time.Now()); err == nil {
		t.Fatal("expected an error for zero user id")
	}
	if err := ledger.RecordView(1, 0, time.Now()); err == nil {
		t.Fatal("expected an error for zero article id")
	}
}

func TestListViewedArticleIDs(t *testing.T) {
	ledger, cleanup := setupLedgerTestDB(t)
	defer cleanup()

	now := time.Now()
	for _, articleID := range []uint{10, 11, 12} {
		if err := ledger.RecordView(7, articleID, now); err != nil {
			t.Fatalf("RecordView failed: %v", err)
		}
	}
	if err := ledger.RecordView(8, 99, now); err != nil {
		t.Fatalf("RecordView failed: %v", err)
	}

	ids, err := ledger.ListViewedArticleIDs(7)
	if err != nil {
		t.Fatalf("ListViewedArticleIDs failed: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 ids, got %v", ids)
	}
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	if !seen[10] || !seen[11] || !seen[12] {
		t.Fatalf("unexpected id set: %v", ids)
	}
}

func TestIncrementViewCountMissingArticle(t *testing.T) {
	ledger, cleanup := setupLedgerTestDB(t)
	defer cleanup()

	if _, err := ledger.IncrementViewCount(12345); !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound, got %v", err)
	}
}

func TestIncrementViewCountConcurrent(t *testing.T) {
	// 并发测试需要真实文件库：共享内存库在并发写入时会抛 SQLITE_LOCKED。
	dsn := filepath.Join(t.TempDir(), "ledger.db") + "?_busy_timeout=5000"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&db.User{}, &db.Category{}, &db.Tag{}, &db.Article{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	article := db.Article{Title: "Hot story", Slug: "hot-story", Status: db.StatusPublished, ViewCount: 5}
	if err := gdb.Create(&article).Error; err != nil {
		t.Fatalf("failed to seed article: %v", err)
	}

	ledger := NewViewLedger(gdb)

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ledger.IncrementViewCount(article.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent increment failed: %v", err)
	}

	var count uint
	if err := gdb.Model(&db.Article{}).Where("id = ?", article.ID).Pluck("view_count", &count).Error; err != nil {
		t.Fatalf("failed to read final count: %v", err)
	}
	if count != 5+workers {
		t.Fatalf("expected view_count %d, got %d", 5+workers, count)
	}
}
