package service

import (
	"cmp"
	"slices"
	"time"

	"github.com/GTM-04/newsblogbackend/internal/db"
	"gorm.io/gorm"
)

// recommendationLimit caps the number of returned articles.
const recommendationLimit = 10

// ProfileResetMessage 在阅读画像因长期不活跃被清空时返回给调用方。
const ProfileResetMessage = "Your reading profile has been reset due to inactivity."

// Recommendations aggregates the outcome of one recommendation request.
// BasedOn is the number of distinct viewed articles used as signal.
type Recommendations struct {
	Message  string
	Articles []db.Article
	BasedOn  int
}

// RecommendationService ranks published articles against a user's
// reading history. It is a deterministic function of the view ledger,
// the content store and the supplied timestamp.
type RecommendationService struct {
	db       *gorm.DB
	ledger   *ViewLedger
	profiles *ProfileService
}

// NewRecommendationService creates a RecommendationService instance.
func NewRecommendationService(gdb *gorm.DB, ledger *ViewLedger, profiles *ProfileService) *RecommendationService {
	return &RecommendationService{db: gdb, ledger: ledger, profiles: profiles}
}

// Recommend produces up to ten ranked articles for the user.
//
// Branches, first match wins:
//  1. stale profile: reset it and return an empty list with a notice;
//  2. empty view history: most recent published editor picks;
//  3. otherwise score unseen published articles by the number of
//     distinct tags shared with the user's interest set, ties broken by
//     publish time descending. Viewed articles with no tags fall back
//     to the most recent published articles the user has not seen.
func (s *RecommendationService) Recommend(user *db.User, now time.Time) (*Recommendations, error) {
	wasReset, err := s.profiles.ResetIfStale(user, now)
	if err != nil {
		return nil, err
	}
	if wasReset {
		return &Recommendations{
			Message:  ProfileResetMessage,
			Articles: []db.Article{},
		}, nil
	}

	viewedIDs, err := s.ledger.ListViewedArticleIDs(user.ID)
	if err != nil {
		return nil, err
	}

	if len(viewedIDs) == 0 {
		articles, err := s.editorPicks()
		if err != nil {
			return nil, err
		}
		return &Recommendations{Articles: articles}, nil
	}

	interest, err := s.interestTagSet(viewedIDs)
	if err != nil {
		return nil, err
	}

	var articles []db.Article
	if len(interest) == 0 {
		articles, err = s.recentUnseen(viewedIDs)
	} else {
		articles, err = s.rankByInterest(interest, viewedIDs)
	}
	if err != nil {
		return nil, err
	}

	return &Recommendations{Articles: articles, BasedOn: len(viewedIDs)}, nil
}

// interestTagSet 取用户看过的所有文章的标签并集。
// 同一篇文章重复浏览不会放大其标签的权重。
func (s *RecommendationService) interestTagSet(viewedIDs []uint) (map[string]struct{}, error) {
	var viewed []db.Article
	if err := s.db.Preload("Tags").
		Where("id IN ?", viewedIDs).
		Find(&viewed).Error; err != nil {
		return nil, err
	}

	interest := make(map[string]struct{})
	for _, article := range viewed {
		for _, tag := range article.Tags {
			interest[tag.Name] = struct{}{}
		}
	}
	return interest, nil
}

// rankByInterest scores unseen published articles by the count of
// distinct interest tags they share with the user.
func (s *RecommendationService) rankByInterest(interest map[string]struct{}, viewedIDs []uint) ([]db.Article, error) {
	names := make([]string, 0, len(interest))
	for name := range interest {
		names = append(names, name)
	}

	var candidates []db.Article
	if err := s.recommendableQuery().
		Joins("JOIN article_tags ON article_tags.article_id = articles.id").
		Joins("JOIN tags ON tags.id = article_tags.tag_id").
		Where("tags.name IN ?", names).
		Where("articles.id NOT IN ?", viewedIDs).
		Distinct("articles.*").
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	scores := make(map[uint]int, len(candidates))
	for _, candidate := range candidates {
		scores[candidate.ID] = matchingTagCount(candidate, interest)
	}

	slices.SortStableFunc(candidates, func(a, b db.Article) int {
		if diff := cmp.Compare(scores[b.ID], scores[a.ID]); diff != 0 {
			return diff
		}
		if diff := b.PublishedAt.Compare(*a.PublishedAt); diff != 0 {
			return diff
		}
		return cmp.Compare(b.ID, a.ID)
	})

	if len(candidates) > recommendationLimit {
		candidates = candidates[:recommendationLimit]
	}
	return candidates, nil
}

// editorPicks 返回最新发布的编辑精选，用于冷启动用户。
func (s *RecommendationService) editorPicks() ([]db.Article, error) {
	var articles []db.Article
	if err := s.recommendableQuery().
		Where("articles.is_editor_pick = ?", true).
		Order("articles.published_at desc, articles.id desc").
		Limit(recommendationLimit).
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// recentUnseen 返回用户没读过的最新发布文章。
func (s *RecommendationService) recentUnseen(viewedIDs []uint) ([]db.Article, error) {
	var articles []db.Article
	if err := s.recommendableQuery().
		Where("articles.id NOT IN ?", viewedIDs).
		Order("articles.published_at desc, articles.id desc").
		Limit(recommendationLimit).
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (s *RecommendationService) recommendableQuery() *gorm.DB {
	return s.db.Model(&db.Article{}).
		Preload("Tags").
		Preload("Category").
		Preload("Author").
		Where("articles.status = ?", db.StatusPublished).
		Where("articles.published_at IS NOT NULL")
}

// matchingTagCount 统计候选文章与兴趣集合相交的标签个数。
// 每个匹配标签只计一次，不做加权或归一化。
func matchingTagCount(article db.Article, interest map[string]struct{}) int {
	count := 0
	for _, tag := range article.Tags {
		if _, ok := interest[tag.Name]; ok {
			count++
		}
	}
	return count
}
