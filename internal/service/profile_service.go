package service

import (
	"errors"
	"strings"
	"time"

	"github.com/GTM-04/newsblogbackend/internal/db"
	"gorm.io/gorm"
)

// 超过该时长没有活动的账号，其阅读画像视为过期。
const profileStaleAfter = 30 * 24 * time.Hour

const emptyReadingProfile = "{}"

// ErrUserNotFound 表示目标用户不存在。
var ErrUserNotFound = errors.New("user not found")

// ProfileService owns the reading-profile staleness policy and the
// activity bookkeeping on the user record.
type ProfileService struct {
	db *gorm.DB
}

// ProfileInput represents fields accepted when updating the own profile.
type ProfileInput struct {
	FirstName *string
	LastName  *string
}

// NewProfileService creates a ProfileService instance.
func NewProfileService(gdb *gorm.DB) *ProfileService {
	return &ProfileService{db: gdb}
}

// IsStale reports whether the accumulated personalization signal has
// expired. A user that was never active has nothing to reset.
func (s *ProfileService) IsStale(lastActivity *time.Time, now time.Time) bool {
	if lastActivity == nil {
		return false
	}
	return now.Sub(*lastActivity) > profileStaleAfter
}

// ResetIfStale clears the reading profile and stamps the activity time
// when the profile is stale. It reports whether a reset happened and
// keeps the in-memory user in sync with the stored row.
func (s *ProfileService) ResetIfStale(user *db.User, now time.Time) (bool, error) {
	if user == nil || !s.IsStale(user.LastActivity, now) {
		return false, nil
	}

	if err := s.db.Model(&db.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"reading_profile": emptyReadingProfile,
			"last_activity":   now,
		}).Error; err != nil {
		return false, err
	}

	user.ReadingProfile = emptyReadingProfile
	stamp := now
	user.LastActivity = &stamp
	return true, nil
}

// TouchActivity refreshes the user's last activity timestamp.
func (s *ProfileService) TouchActivity(userID uint, now time.Time) error {
	result := s.db.Model(&db.User{}).
		Where("id = ?", userID).
		Update("last_activity", now)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Get loads a user by id.
func (s *ProfileService) Get(userID uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies partial updates to the caller's own profile.
func (s *ProfileService) UpdateProfile(userID uint, input ProfileInput) (*db.User, error) {
	updates := map[string]interface{}{}
	if input.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*input.LastName)
	}

	if len(updates) > 0 {
		result := s.db.Model(&db.User{}).Where("id = ?", userID).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrUserNotFound
		}
	}

	return s.Get(userID)
}
