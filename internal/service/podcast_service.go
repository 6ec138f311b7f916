package service

import (
	"errors"
	"strings"
	"time"

	"github.com/GTM-04/newsblogbackend/internal/db"
	"gorm.io/gorm"
)

var ErrPodcastNotFound = errors.New("podcast not found")

// PodcastService wraps podcast episode operations.
type PodcastService struct {
	db   *gorm.DB
	tags *TagService
}

// PodcastInput represents fields accepted when creating or updating an episode.
type PodcastInput struct {
	Title           string
	Description     string
	AudioURL        string
	ThumbnailURL    string
	EpisodeNumber   *uint
	DurationSeconds uint
	Transcript      string
	TagNames        []string
	IsFeatured      bool
}

// PodcastFilter describes filters for listing episodes.
type PodcastFilter struct {
	FeaturedOnly bool
	Page         int
	PerPage      int
}

// NewPodcastService creates a PodcastService instance.
func NewPodcastService(gdb *gorm.DB, tags *TagService) *PodcastService {
	return &PodcastService{db: gdb, tags: tags}
}

// List returns episodes ordered by publish time descending.
func (s *PodcastService) List(filter PodcastFilter) ([]db.Podcast, error) {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 10
	}

	query := s.db.Preload("Tags").Preload("Author").
		Order("published_at desc, id desc").
		Limit(perPage).
		Offset((page - 1) * perPage)
	if filter.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}

	var podcasts []db.Podcast
	if err := query.Find(&podcasts).Error; err != nil {
		return nil, err
	}
	return podcasts, nil
}

// GetBySlug fetches an episode with relations preloaded.
func (s *PodcastService) GetBySlug(slug string) (*db.Podcast, error) {
	var podcast db.Podcast
	if err := s.db.Preload("Tags").Preload("Author").Preload("RelatedArticles").
		Where("slug = ?", slug).
		First(&podcast).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPodcastNotFound
		}
		return nil, err
	}
	return &podcast, nil
}

// Create persists an episode and its tags.
func (s *PodcastService) Create(input PodcastInput, authorID uint, now time.Time) (*db.Podcast, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	podcast := db.Podcast{
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		AudioURL:        strings.TrimSpace(input.AudioURL),
		ThumbnailURL:    strings.TrimSpace(input.ThumbnailURL),
		EpisodeNumber:   input.EpisodeNumber,
		DurationSeconds: input.DurationSeconds,
		Transcript:      input.Transcript,
		AuthorID:        authorID,
		IsFeatured:      input.IsFeatured,
	}
	podcast.PrepareForSave(now)

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&podcast).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrSlugTaken
			}
			return err
		}

		tags, err := s.tags.EnsureTags(tx, input.TagNames)
		if err != nil {
			return err
		}
		return tx.Model(&podcast).Association("Tags").Replace(tags)
	}); err != nil {
		return nil, err
	}

	return s.GetBySlug(podcast.Slug)
}

// Update applies updates to an existing episode looked up by slug.
func (s *PodcastService) Update(slug string, input PodcastInput, now time.Time) (*db.Podcast, error) {
	var existing db.Podcast
	if err := s.db.Where("slug = ?", slug).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPodcastNotFound
		}
		return nil, err
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	existing.Title = strings.TrimSpace(input.Title)
	existing.Description = input.Description
	existing.AudioURL = strings.TrimSpace(input.AudioURL)
	existing.ThumbnailURL = strings.TrimSpace(input.ThumbnailURL)
	existing.EpisodeNumber = input.EpisodeNumber
	existing.DurationSeconds = input.DurationSeconds
	existing.Transcript = input.Transcript
	existing.IsFeatured = input.IsFeatured
	existing.PrepareForSave(now)

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&existing).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrSlugTaken
			}
			return err
		}

		tags, err := s.tags.EnsureTags(tx, input.TagNames)
		if err != nil {
			return err
		}
		return tx.Model(&existing).Association("Tags").Replace(tags)
	}); err != nil {
		return nil, err
	}

	return s.GetBySlug(existing.Slug)
}

// Delete removes an episode by slug.
func (s *PodcastService) Delete(slug string) error {
	result := s.db.Where("slug = ?", slug).Delete(&db.Podcast{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPodcastNotFound
	}
	return nil
}

// IncrementViewCount adds one to the episode view counter atomically
// and returns the new count.
func (s *PodcastService) IncrementViewCount(slug string) (uint, error) {
	result := s.db.Model(&db.Podcast{}).
		Where("slug = ?", slug).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrPodcastNotFound
	}

	var count uint
	if err := s.db.Model(&db.Podcast{}).
		Where("slug = ?", slug).
		Pluck("view_count", &count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
