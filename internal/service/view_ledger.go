package service

import (
	"errors"
	"time"

	"github.com/GTM-04/newsblogbackend/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ViewLedger records which user has seen which article. It feeds the
// recommendation engine and keeps already-read articles out of the results.
type ViewLedger struct {
	db *gorm.DB
}

// NewViewLedger creates a ViewLedger instance.
func NewViewLedger(gdb *gorm.DB) *ViewLedger {
	return &ViewLedger{db: gdb}
}

// RecordView upserts the (user, article) view event in a single atomic
// statement. Repeated calls converge to the latest timestamp instead of
// accumulating duplicate rows.
func (s *ViewLedger) RecordView(userID, articleID uint, now time.Time) error {
	if userID == 0 || articleID == 0 {
		return errors.New("invalid user or article id")
	}

	view := db.ArticleView{
		UserID:    userID,
		ArticleID: articleID,
		ViewedAt:  now,
	}

	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "article_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"viewed_at":  now,
			"updated_at": now,
		}),
	}).Create(&view).Error
}

// ListViewedArticleIDs returns every article id the user has viewed.
// Order carries no meaning for callers.
func (s *ViewLedger) ListViewedArticleIDs(userID uint) ([]uint, error) {
	var ids []uint
	if err := s.db.Model(&db.ArticleView{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("article_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// IncrementViewCount adds one to the article view counter with an
// in-place atomic update and returns the new count. Concurrent calls
// never lose updates. A missing article yields ErrArticleNotFound.
func (s *ViewLedger) IncrementViewCount(articleID uint) (uint, error) {
	result := s.db.Model(&db.Article{}).
		Where("id = ?", articleID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrArticleNotFound
	}

	var count uint
	if err := s.db.Model(&db.Article{}).
		Where("id = ?", articleID).
		Pluck("view_count", &count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
