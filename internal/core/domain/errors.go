package domain

import "errors"

var (
	ErrJobNotFound  = errors.New("job not found")
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
	ErrInvalidID    = errors.New("invalid resource id")
	ErrForbidden    = errors.New("access forbidden")
	ErrNoStats      = errors.New("no stats found")

	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrDeadlinePassed      = errors.New("application deadline has passed")
	ErrAlreadyApplied      = errors.New("user has already applied to this job")
	ErrFileMissing         = errors.New("please upload a resume file")
	ErrUnsupportedFileType = errors.New("unsupported resume file type")
	ErrFileTooLarge        = errors.New("resume file is too large")

	ErrGeocodeNoResult     = errors.New("address could not be geocoded")
	ErrGeocoderUnavailable = errors.New("geocoding service unavailable")
)
