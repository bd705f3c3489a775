package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"social_network_service/pkg/database"
	errprocess "social_network_service/pkg/err"

	"github.com/google/uuid"
)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}
var videoExts = map[string]bool{".mp4": true, ".mov": true, ".webm": true}

// MediaUploader 把貼文附件丟進 object storage，回傳可存取的 URL
type MediaUploader interface {
	Upload(ctx context.Context, fileName, contentType string, size int64, file io.Reader) (url string, mediaType string, err error)
}

type minioMediaUploader struct {
	client *database.MinIOClient
}

// NewMediaUploader create a MediaUploader backed by MinIO
func NewMediaUploader(client *database.MinIOClient) MediaUploader {
	return &minioMediaUploader{client: client}
}

// Upload object key 用 uuid 避免檔名衝突，原始副檔名保留下來判斷類型
func (m *minioMediaUploader) Upload(ctx context.Context, fileName, contentType string, size int64, file io.Reader) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))

	var mediaType string
	switch {
	case imageExts[ext]:
		mediaType = "image"
	case videoExts[ext]:
		mediaType = "video"
	default:
		return "", "", errprocess.Set(fmt.Sprintf("unsupported media type: %s", ext))
	}

	objectName := "media/" + uuid.New().String() + ext
	if err := m.client.UploadStream(ctx, objectName, file, size, contentType); err != nil {
		return "", "", errprocess.Set(fmt.Sprintf("upload media err: %v", err))
	}

	return m.client.ObjectURL(objectName), mediaType, nil
}
