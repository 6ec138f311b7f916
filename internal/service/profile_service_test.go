package service

import (
	"errors"
	"testing"
	"time"

	"github.com/GTM-04/newsblogbackend/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupProfileTestDB(t *testing.T) (*ProfileService, func()) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&db.User{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	db.DB = gdb

	return NewProfileService(gdb), func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func TestIsStale(t *testing.T) {
	svc, cleanup := setupProfileTestDB(t)
	defer cleanup()

	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	if svc.IsStale(nil, now) {
		t.Fatal("a user with no activity has nothing to reset")
	}

	fresh := now.Add(-29 * 24 * time.Hour)
	if svc.IsStale(&fresh, now) {
		t.Fatal("29 days of inactivity is not stale")
	}

	boundary := now.Add(-30 * 24 * time.Hour)
	if svc.IsStale(&boundary, now) {
		t.Fatal("exactly 30 days is still within the window")
	}

	stale := now.Add(-31 * 24 * time.Hour)
	if !svc.IsStale(&stale, now) {
		t.Fatal("31 days of inactivity must be stale")
	}
}

func TestResetIfStalePersists(t *testing.T) {
	svc, cleanup := setupProfileTestDB(t)
	defer cleanup()

	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	lastActive := now.Add(-45 * 24 * time.Hour)

	user := db.User{
		Email:          "stale@example.com",
		Password:       "hashed",
		LastActivity:   &lastActive,
		ReadingProfile: `{"topics":["space"]}`,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	reset, err := svc.ResetIfStale(&user, now)
	if err != nil {
		t.Fatalf("ResetIfStale failed: %v", err)
	}
	if !reset {
		t.Fatal("expected a reset for a 45-day-idle user")
	}

	if user.ReadingProfile != "{}" {
		t.Fatalf("in-memory profile not cleared: %q", user.ReadingProfile)
	}

	var stored db.User
	if err := db.DB.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if stored.ReadingProfile != "{}" {
		t.Fatalf("stored profile not cleared: %q", stored.ReadingProfile)
	}
	if stored.LastActivity == nil || !stored.LastActivity.Equal(now) {
		t.Fatalf("expected last_activity stamped to %v, got %v", now, stored.LastActivity)
	}

	// 第二次调用不再重置。
	again, err := svc.ResetIfStale(&stored, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("second ResetIfStale failed: %v", err)
	}
	if again {
		t.Fatal("a freshly stamped user must not reset again")
	}
}

func TestResetIfStaleLeavesFreshUserAlone(t *testing.T) {
	svc, cleanup := setupProfileTestDB(t)
	defer cleanup()

	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	lastActive := now.Add(-24 * time.Hour)

	user := db.User{
		Email:          "fresh@example.com",
		Password:       "hashed",
		LastActivity:   &lastActive,
		ReadingProfile: `{"topics":["rockets"]}`,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	reset, err := svc.ResetIfStale(&user, now)
	if err != nil {
		t.Fatalf("ResetIfStale failed: %v", err)
	}
	if reset {
		t.Fatal("fresh user must not be reset")
	}
	if user.ReadingProfile != `{"topics":["rockets"]}` {
		t.Fatalf("profile must be untouched, got %q", user.ReadingProfile)
	}
}

func TestTouchActivity(t *testing.T) {
	svc, cleanup := setupProfileTestDB(t)
	defer cleanup()

	user := db.User{Email: "touch@example.com", Password: "hashed"}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	now := time.Date(2024, 7, 2, 10, 0, 0, 0, time.UTC)
	if err := svc.TouchActivity(user.ID, now); err != nil {
		t.Fatalf("TouchActivity failed: %v", err)
	}

	var stored db.User
	if err := db.DB.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if stored.LastActivity == nil || !stored.LastActivity.Equal(now) {
		t.Fatalf("expected last_activity %v, got %v", now, stored.LastActivity)
	}

	if err := svc.TouchActivity(9999, now); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for missing user, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, cleanup := setupProfileTestDB(t)
	defer cleanup()

	user := db.User{Email: "edit@example.com", Password: "hashed", FirstName: "Old"}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	first := "  New  "
	updated, err := svc.UpdateProfile(user.ID, ProfileInput{FirstName: &first})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.FirstName != "New" {
		t.Fatalf("expected trimmed first name, got %q", updated.FirstName)
	}

	if _, err := svc.UpdateProfile(9999, ProfileInput{FirstName: &first}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
