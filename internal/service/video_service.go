package service

import (
	"errors"
	"strings"
	"time"

	"github.com/GTM-04/newsblogbackend/internal/db"
	"gorm.io/gorm"
)

var ErrVideoNotFound = errors.New("video not found")

// VideoService wraps video content operations.
type VideoService struct {
	db   *gorm.DB
	tags *TagService
}

// VideoInput represents fields accepted when creating or updating a video.
type VideoInput struct {
	Title           string
	Description     string
	VideoURL        string
	ExternalURL     string
	ThumbnailURL    string
	DurationSeconds uint
	TagNames        []string
	IsFeatured      bool
}

// NewVideoService creates a VideoService instance.
func NewVideoService(gdb *gorm.DB, tags *TagService) *VideoService {
	return &VideoService{db: gdb, tags: tags}
}

// List returns videos ordered by publish time descending.
func (s *VideoService) List(featuredOnly bool, page, perPage int) ([]db.Video, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 10
	}

	query := s.db.Preload("Tags").Preload("Author").
		Order("published_at desc, id desc").
		Limit(perPage).
		Offset((page - 1) * perPage)
	if featuredOnly {
		query = query.Where("is_featured = ?", true)
	}

	var videos []db.Video
	if err := query.Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

// GetBySlug fetches a video with relations preloaded.
func (s *VideoService) GetBySlug(slug string) (*db.Video, error) {
	var video db.Video
	if err := s.db.Preload("Tags").Preload("Author").Preload("RelatedArticles").
		Where("slug = ?", slug).
		First(&video).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return &video, nil
}

// Create persists a video after validating its source.
func (s *VideoService) Create(input VideoInput, authorID uint, now time.Time) (*db.Video, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	video := db.Video{
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		VideoURL:        strings.TrimSpace(input.VideoURL),
		ExternalURL:     strings.TrimSpace(input.ExternalURL),
		ThumbnailURL:    strings.TrimSpace(input.ThumbnailURL),
		DurationSeconds: input.DurationSeconds,
		AuthorID:        authorID,
		IsFeatured:      input.IsFeatured,
	}
	if err := video.Validate(); err != nil {
		return nil, err
	}
	video.PrepareForSave(now)

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&video).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrSlugTaken
			}
			return err
		}

		tags, err := s.tags.EnsureTags(tx, input.TagNames)
		if err != nil {
			return err
		}
		return tx.Model(&video).Association("Tags").Replace(tags)
	}); err != nil {
		return nil, err
	}

	return s.GetBySlug(video.Slug)
}

// Update applies updates to an existing video looked up by slug.
func (s *VideoService) Update(slug string, input VideoInput, now time.Time) (*db.Video, error) {
	var existing db.Video
	if err := s.db.Where("slug = ?", slug).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	existing.Title = strings.TrimSpace(input.Title)
	existing.Description = input.Description
	existing.VideoURL = strings.TrimSpace(input.VideoURL)
	existing.ExternalURL = strings.TrimSpace(input.ExternalURL)
	existing.ThumbnailURL = strings.TrimSpace(input.ThumbnailURL)
	existing.DurationSeconds = input.DurationSeconds
	existing.IsFeatured = input.IsFeatured
	if err := existing.Validate(); err != nil {
		return nil, err
	}
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

// Delete removes a video by slug.
func (s *VideoService) Delete(slug string) error {
	result := s.db.Where("slug = ?", slug).Delete(&db.Video{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVideoNotFound
	}
	return nil
}

// IncrementViewCount adds one to the video view counter atomically
// and returns the new count.
func (s *VideoService) IncrementViewCount(slug string) (uint, error) {
	result := s.db.Model(&db.Video{}).
		Where("slug = ?", slug).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrVideoNotFound
	}

	var count uint
	if err := s.db.Model(&db.Video{}).
		Where("slug = ?", slug).
		Pluck("view_count", &count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
