package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserBanned          = errors.New("account is banned")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrWrongPassword       = errors.New("current password is incorrect")
	ErrPasswordLogin       = errors.New("account uses social login")
)
