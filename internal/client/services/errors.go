package services

import (
	"errors"

	"github.com/dmitrijs2005/botfolio/internal/common"
)

var (
	ErrNotLoggedIn         = errors.New("not logged in")
	ErrAdminRequired       = errors.New("admin access required")
	ErrMissingGoogleSignup = errors.New("google signup data missing, please sign in again")
	ErrImageTooLarge       = errors.New("image exceeds 1MB")
	ErrFreePlan            = errors.New("the basic plan is free and needs no payment")
	ErrPaymentCancelled    = errors.New("payment cancelled")
)

// ValidationError is a form problem found before anything is sent. Its
// message is meant for the user as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return common.ErrValidation }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
