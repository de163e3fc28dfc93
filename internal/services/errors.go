package services

import "errors"

// Sentinel errors returned by the account lifecycle operations. Each maps to a
// distinct client-facing outcome at the handler boundary.
var (
	ErrEmailTaken               = errors.New("account: email already registered")
	ErrUserNotFound             = errors.New("account: user not found")
	ErrInvalidCredentials       = errors.New("account: password is incorrect")
	ErrNotVerified              = errors.New("account: user not verified")
	ErrInvalidVerificationToken = errors.New("account: invalid verification token")
	ErrInvalidResetToken        = errors.New("account: invalid or expired reset token")
)
