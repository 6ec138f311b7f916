package handler

import (
	"net/http"

	"github.com/GTM-04/newsblogbackend/internal/service"
	"github.com/gin-gonic/gin"
)

// UploadMedia 处理媒体库上传请求（编辑权限）。
// 图片会额外记录尺寸并生成缩略图。
func (a *API) UploadMedia(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "no file provided")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read upload")
		return
	}
	defer src.Close()

	user := currentUser(c)
	var uploadedBy *uint
	if user != nil {
		id := user.ID
		uploadedBy = &id
	}

	record, err := a.media.Save(service.MediaUpload{
		Reader:      src,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Title:       c.PostForm("title"),
	}, uploadedBy)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to store upload")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            record.ID,
		"title":         record.Title,
		"url":           record.URL,
		"media_type":    record.MediaType,
		"file_size":     record.FileSize,
		"mime_type":     record.MimeType,
		"width":         record.Width,
		"height":        record.Height,
		"thumbnail_url": record.ThumbnailURL,
	})
}
