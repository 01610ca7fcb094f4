package services

import "errors"

// Service-level sentinels. Controllers translate these into HTTP statuses;
// everything else surfaces as a 500.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUsernameTaken       = errors.New("username or email already taken")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrExpiredRefreshToken = errors.New("expired refresh token")
	ErrTokensDisabled      = errors.New("token issuance disabled: no signing secret configured")
)
