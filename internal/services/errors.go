// Package services defines the business logic for mood resolution, content
// recommendation, and activity history. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

var (
	// ErrInvalidContentType is returned when the requested content category
	// is not one of the fixed set (movies, songs, series). This is a
	// validation failure and is raised before any store access.
	ErrInvalidContentType = errors.New("invalid content type")

	// ErrInvalidLanguage is returned when the optional language filter is not
	// a parseable language tag.
	ErrInvalidLanguage = errors.New("invalid language filter")

	// ErrMoodNotRecognized is returned when neither an explicit mood nor
	// resolvable text was supplied: the request carries no mood signal, or
	// every configured resolver came up empty.
	ErrMoodNotRecognized = errors.New("mood not recognized")

	// ErrMoodNotFound indicates that a resolved mood label has no match in
	// the mood catalog even after the fuzzy lookup tier.
	ErrMoodNotFound = errors.New("mood not found")

	// ErrQueryFailed wraps store-level failures from the mood lookup or the
	// content fetch. It is distinct from the not-found conditions above:
	// callers must never collapse a failed call into an empty result.
	ErrQueryFailed = errors.New("database query failed")

	// ErrMissingUserID is returned by activity operations that require a
	// user identity to write a row.
	ErrMissingUserID = errors.New("user_id is required")

	// ErrMissingAction is returned by activity submission without an action
	// description.
	ErrMissingAction = errors.New("action is required")
)
