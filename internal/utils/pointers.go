package utils

import (
	"fmt"
	"strings"
	"time"
)

func IntPtr(i int) *int {
	return &i
}

func TimePtr(t time.Time) *time.Time {
	return &t
}

func PtrInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

// StringOr returns fallback when s is empty after trimming.
func StringOr(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return s
}

// ErrorWrapOrNil prefixes err with msg, passing nil through untouched.
func ErrorWrapOrNil(err error, msg string) error {
	if err == nil {
		return nil
	}

	if msg == "" {
		return err
	}

	return fmt.Errorf("%s: %w", msg, err)
}
