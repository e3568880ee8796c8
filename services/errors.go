package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed        = errors.New("validation failed")
	ErrTournamentNameRequired  = errors.New("tournament name is required")
	ErrTeamNameRequired        = errors.New("team name is required")
	ErrRosterSizeInvalid       = errors.New("roster size does not fit the team format")
	ErrRosterLeaderInvalid     = errors.New("roster must have exactly one team leader")
	ErrCountedMatchesInvalid   = errors.New("counted matches must be positive and not exceed total matches")
	ErrEvidenceRequired        = errors.New("at least two evidence attachments are required")
	ErrTournamentNotAcceptingResults = errors.New("tournament is not accepting results")
	ErrRegistrationClosed      = errors.New("tournament registration is closed")
	ErrTournamentFull          = errors.New("tournament has no team slots left")
	ErrInvalidStatus           = errors.New("invalid review status")
	ErrInvalidTournamentStatus = errors.New("invalid tournament status transition")

	// Conflicts
	ErrAlreadyReviewed    = errors.New("match has already been reviewed")
	ErrTeamNameConflict   = errors.New("team name is already taken in this tournament")
	ErrTournamentConflict = errors.New("tournament name already exists")

	// Authentication and authorization
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
	ErrAccessCodeInvalid      = errors.New("unknown team access code")

	// Entity-specific lookups
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrUserNotFound       = errors.New("user not found")
)
