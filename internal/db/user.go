package db

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 定义了账号模型，编辑角色与个性化数据都挂在这里
type User struct {
	gorm.Model
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	FirstName string
	LastName  string

	IsActive bool `gorm:"default:true"`
	IsStaff  bool
	IsEditor bool
	IsAdmin  bool

	DateJoined   time.Time
	LastActivity *time.Time

	// ReadingProfile is an opaque JSON blob reserved for personalization
	// data. The staleness policy resets it to an empty object.
	ReadingProfile string `gorm:"default:'{}'"`
}

// FullName returns the display name, falling back to the email address.
func (u *User) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return u.Email
	}
	return name
}

// EnsureEditor 存在性检查：若提供的邮箱与密码均非空且不存在对应账号，
// 则创建一个 bcrypt 哈希的编辑账号。
func EnsureEditor(email, password string) error {
	trimmedEmail := strings.TrimSpace(email)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedEmail == "" || trimmedPassword == "" {
		return nil
	}

	if DB == nil {
		return errors.New("database not initialized")
	}

	var existing User
	if err := DB.Where("email = ?", trimmedEmail).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		return DB.Create(&User{
			Email:      trimmedEmail,
			Password:   string(hashed),
			IsStaff:    true,
			IsEditor:   true,
			IsAdmin:    true,
			DateJoined: time.Now(),
		}).Error
	}

	return nil
}
