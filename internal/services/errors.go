package services

import "errors"

var (
	// ErrMalformedRequest means a required field is missing or invalid
	ErrMalformedRequest = errors.New("malformed request")
	// ErrNotFound means no question has the requested id
	ErrNotFound = errors.New("question not found")
	// ErrForbidden means a dataset write was attempted in production
	ErrForbidden = errors.New("dataset writes are disabled in production")
	// ErrStorage wraps dataset file read/write failures
	ErrStorage = errors.New("dataset storage failure")

	ErrSessionNotFound   = errors.New("session not found")
	ErrAuthoringDisabled = errors.New("authoring requires debug mode and button mode")
	ErrSaveInProgress    = errors.New("a save for this question is already in progress")
	ErrNoQuestions       = errors.New("dataset has no questions")
)
