package janitor

import "errors"

var (
	ErrEmptyName      = errors.New("janitor: job name required")
	ErrEmptySpec      = errors.New("janitor: cron spec required")
	ErrNilJob         = errors.New("janitor: job function required")
	ErrDuplicateJob   = errors.New("janitor: job already registered")
	ErrInvalidSpec    = errors.New("janitor: invalid cron spec")
	ErrAlreadyStarted = errors.New("janitor: already started")
)
