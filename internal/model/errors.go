package model

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the caller-visible failure taxonomy. Everything
// not wrapping one of these is treated as internal.
var (
	// ErrUnknownCategory reports a display label that matches no category.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrNotFound reports a brand id or name that does not resolve.
	ErrNotFound = errors.New("brand not found")
	// ErrInvalidPrice reports a rejected price amount.
	ErrInvalidPrice = errors.New("invalid price")
)

// UnknownCategoryError carries the offending label.
type UnknownCategoryError struct {
	Label string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("잘못된 카테고리 이름: %s", e.Label)
}

func (e *UnknownCategoryError) Unwrap() error { return ErrUnknownCategory }
