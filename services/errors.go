// Package services holds the LMS business rules. Controllers call into it;
// it talks to storage only through repository.Store.
package services

import "errors"

var (
	ErrAuthFailed          = errors.New("authentication failed")
	ErrUploadFailed        = errors.New("upload to video host failed")
	ErrUploadNotConfigured = errors.New("Flussonic configuration missing")
	ErrNoQuiz              = errors.New("lesson has no quiz")
)
