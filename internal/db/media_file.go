package db

import "gorm.io/gorm"

// 媒体文件类型
const (
	MediaTypeImage    = "IMAGE"
	MediaTypeAudio    = "AUDIO"
	MediaTypeVideo    = "VIDEO"
	MediaTypeDocument = "DOCUMENT"
)

// MediaFile 定义了媒体库中的文件记录
type MediaFile struct {
	gorm.Model
	Title       string `gorm:"size:200"`
	Description string

	FileName  string `gorm:"not null"`
	URL       string `gorm:"not null"`
	MediaType string `gorm:"size:20;index"`

	FileSize int64
	MimeType string `gorm:"size:100"`

	// 图片专属字段
	Width        int
	Height       int
	ThumbnailURL string

	UploadedByID *uint
	UploadedBy   *User `gorm:"foreignKey:UploadedByID"`
}
