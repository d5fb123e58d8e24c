package types

import "errors"

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrNothingToWithdraw  = errors.New("nothing to withdraw")
	ErrMissingSelection   = errors.New("select at least one verified node")
	ErrUnknownFormat      = errors.New("unknown export format")
	ErrSessionNotFound    = errors.New("session not found")
)
