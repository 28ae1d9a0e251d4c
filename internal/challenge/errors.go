package challenge

import "errors"

var (
	ErrChallengeNotFound      = errors.New("challenge not found")
	ErrInvalidInviteCode      = errors.New("invalid invite code")
	ErrInviteCodeTaken        = errors.New("invite code already in use")
	ErrChallengeEnded         = errors.New("challenge has ended")
	ErrAcademyMismatch        = errors.New("cannot join another academy's challenge")
	ErrInviteRequired         = errors.New("private challenge requires an invite code")
	ErrAlreadyParticipating   = errors.New("already participating in this challenge")
	ErrNotParticipating       = errors.New("not participating in this challenge")
	ErrForbidden              = errors.New("permission denied")
	ErrUnknownRole            = errors.New("unrecognized role")
	ErrInvalidDate            = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidDateRange       = errors.New("end date must be after start date")
	ErrInvalidRewardPoints    = errors.New("reward points must not be negative")
	ErrInvalidChallengeType   = errors.New("unknown challenge type")
	ErrInvalidProgress        = errors.New("progress must not be negative")
	ErrDistributionInProgress = errors.New("reward distribution already in progress")
)
