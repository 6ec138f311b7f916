package service

import (
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/gif"
	_ "image/png"

	"github.com/GTM-04/newsblogbackend/internal/db"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"gorm.io/gorm"
)

// 缩略图最长边
const thumbnailMaxEdge = 300

// MediaService stores uploads on disk and keeps a MediaFile record for
// each. Images additionally get decoded dimensions and a scaled
// thumbnail.
type MediaService struct {
	db        *gorm.DB
	uploadDir string
	uploadURL string
}

// MediaUpload carries an upload stream and its metadata.
type MediaUpload struct {
	Reader      io.Reader
	FileName    string
	ContentType string
	Size        int64
	Title       string
}

// NewMediaService creates a MediaService instance.
func NewMediaService(gdb *gorm.DB, uploadDir, uploadURL string) *MediaService {
	return &MediaService{db: gdb, uploadDir: uploadDir, uploadURL: uploadURL}
}

// Save writes the upload under the configured directory with a unique
// name and persists its metadata. uploadedBy may be nil for system jobs.
func (s *MediaService) Save(upload MediaUpload, uploadedBy *uint) (*db.MediaFile, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(upload.FileName))
	baseName := fmt.Sprintf("%s-%s", time.Now().Format("20060102"), uuid.New().String())
	fileName := baseName + ext
	filePath := filepath.Join(s.uploadDir, fileName)

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, err
	}
	written, err := io.Copy(dst, upload.Reader)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(filePath)
		return nil, err
	}

	record := db.MediaFile{
		Title:        strings.TrimSpace(upload.Title),
		FileName:     fileName,
		URL:          s.uploadURL + "/" + fileName,
		MediaType:    mediaTypeFor(upload.ContentType),
		FileSize:     written,
		MimeType:     upload.ContentType,
		UploadedByID: uploadedBy,
	}
	if record.Title == "" {
		record.Title = upload.FileName
	}

	if record.MediaType == db.MediaTypeImage {
		if err := s.annotateImage(&record, filePath, baseName); err != nil {
			// 无法解码的图片仍按普通文件保存
			record.Width = 0
			record.Height = 0
			record.ThumbnailURL = ""
		}
	}

	if err := s.db.Create(&record).Error; err != nil {
		os.Remove(filePath)
		return nil, err
	}
	return &record, nil
}

// annotateImage decodes the stored image, records its dimensions and
// writes a scaled JPEG thumbnail next to it.
func (s *MediaService) annotateImage(record *db.MediaFile, filePath, baseName string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	src, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return err
	}

	bounds := src.Bounds()
	record.Width = bounds.Dx()
	record.Height = bounds.Dy()

	thumbW, thumbH := thumbnailSize(bounds.Dx(), bounds.Dy())
	thumb := image.NewRGBA(image.Rect(0, 0, thumbW, thumbH))
	draw.ApproxBiLinear.Scale(thumb, thumb.Bounds(), src, bounds, draw.Over, nil)

	thumbName := baseName + "-thumb.jpg"
	thumbPath := filepath.Join(s.uploadDir, thumbName)
	out, err := os.Create(thumbPath)
	if err != nil {
		return err
	}
	err = jpeg.Encode(out, thumb, &jpeg.Options{Quality: 85})
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(thumbPath)
		return err
	}

	record.ThumbnailURL = s.uploadURL + "/" + thumbName
	return nil
}

// thumbnailSize 按最长边缩放，不放大小图。
func thumbnailSize(width, height int) (int, int) {
	if width <= thumbnailMaxEdge && height <= thumbnailMaxEdge {
		return width, height
	}
	if width >= height {
		return thumbnailMaxEdge, max(height*thumbnailMaxEdge/width, 1)
	}
	return max(width*thumbnailMaxEdge/height, 1), thumbnailMaxEdge
}

func mediaTypeFor(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return db.MediaTypeImage
	case strings.HasPrefix(contentType, "audio/"):
		return db.MediaTypeAudio
	case strings.HasPrefix(contentType, "video/"):
		return db.MediaTypeVideo
	default:
		return db.MediaTypeDocument
	}
}
