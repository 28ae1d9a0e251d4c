package profile

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrForbidden       = errors.New("permission denied")
	ErrNotAcademy      = errors.New("target profile is not an academy")
	ErrNotAffiliable   = errors.New("only students and personal trainers can join an academy")
	ErrAlreadyAcademy  = errors.New("profile is already an academy")
)
