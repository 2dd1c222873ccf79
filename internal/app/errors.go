package service

import "errors"

// Validation errors. These map to a 400 at the transport layer, unlike
// business rejections which travel inside a successful response.
var (
	// ErrTeamNameRequired indicates a missing or blank team name.
	ErrTeamNameRequired = errors.New("team name is required")

	// ErrTeamNameTooLong indicates a team name over the configured limit.
	ErrTeamNameTooLong = errors.New("team name exceeds maximum length")

	// ErrPasswordRequired indicates a missing password.
	ErrPasswordRequired = errors.New("password is required")

	// ErrRatingOutOfRange indicates a feedback rating outside 1..5.
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
)

// ErrNoStore indicates the service was started without a ledger store.
var ErrNoStore = errors.New("no store configured")
