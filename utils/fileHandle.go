package utils

import (
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UniqueFilename replaces the uploaded name with a UUID, keeping the extension
func UniqueFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return uuid.NewString() + ext
}

// ContentType returns the declared type of an uploaded file, guessing from
// the extension when the client sent none.
func ContentType(file *multipart.FileHeader) string {
	if ct := file.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	if ct := mime.TypeByExtension(filepath.Ext(file.Filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
