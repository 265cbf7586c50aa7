package user

import (
	"context"
)

// UserRepository is the read-only view of the user store needed by attendance.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	ListActiveEmployees(ctx context.Context) ([]User, error)
}
