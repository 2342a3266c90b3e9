package auth

import "errors"

var (
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrTokenExpired        = errors.New("token has expired")
	ErrInvalidRole         = errors.New("invalid role")
	ErrHRAccessRequired    = errors.New("hr or admin access required")
	ErrAdminAccessRequired = errors.New("admin access required")
	ErrForbidden           = errors.New("not allowed to access another employee's data")
)
