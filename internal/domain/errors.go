package domain

import "errors"

var (
	// ErrNoQuestionsAvailable is returned when no questions match the
	// requested category/difficulty. Callers present an empty state; this is
	// expected content absence, not a fault.
	ErrNoQuestionsAvailable = errors.New("no questions available for category/difficulty")
	// ErrSessionNotFound is returned when a user acts without an active session.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionNotFinished is returned when completion is requested mid-run.
	ErrSessionNotFinished = errors.New("quiz session not finished")
	// ErrInvalidResumeState is returned when a resume request carries an
	// index or score inconsistent with the drawn question set.
	ErrInvalidResumeState = errors.New("invalid resume state")
	// ErrProfileNotFound indicates the user has no persisted profile.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrRewardAlreadyClaimed is returned when today's daily reward was claimed.
	ErrRewardAlreadyClaimed = errors.New("daily reward already claimed today")
)
