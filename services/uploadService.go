package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"

	"lms/utils"
)

// MaxUploadSize is the largest accepted video, in bytes
const MaxUploadSize = 500 * 1024 * 1024

// VideoHost stores uploaded videos and serves them for playback
type VideoHost interface {
	Configured() bool
	Put(ctx context.Context, name, contentType string, body io.Reader) (string, error)
}

type UploadService struct {
	host VideoHost
}

func NewUploadService(host VideoHost) *UploadService {
	return &UploadService{host: host}
}

// Upload relays the file to the video host under a fresh UUID name and
// returns its playback URL.
func (s *UploadService) Upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if !s.host.Configured() {
		return "", ErrUploadNotConfigured
	}
	if file.Size > MaxUploadSize {
		return "", fmt.Errorf("%w: file exceeds %d bytes", ErrUploadFailed, MaxUploadSize)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := utils.UniqueFilename(file.Filename)
	url, err := s.host.Put(ctx, name, utils.ContentType(file), src)
	if err != nil {
		log.Printf("[UPLOAD] Failed to upload %s: %v", file.Filename, err)
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	log.Printf("[UPLOAD] Stored %s as %s", file.Filename, name)
	return url, nil
}
