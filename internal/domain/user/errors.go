package user

import "errors"

var (
	ErrUserNotFound              = errors.New("user not found")
	ErrAdminPrivilegeRequired    = errors.New("admin privilege required")
	ErrEmployeeAccessRequired    = errors.New("employee access required")
	ErrInvalidToken              = errors.New("invalid or expired token")
	ErrPrincipalClaimsIncomplete = errors.New("token is missing user_id or role")
)
