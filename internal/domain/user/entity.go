package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Reads reports, records leave
	RoleEmployee Role = "employee" // Checks in and out
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// User is the read model of an account owned by the user service.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	Status    Status
	CreatedAt time.Time
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Principal is the authenticated caller as supplied by the token.
type Principal struct {
	UserID string
	Role   Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
