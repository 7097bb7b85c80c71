package domain

import "strings"

// Role is a user's permission level. Values match the backend wire format.
type Role string

const (
	RoleAccountant Role = "contador"
	RoleTechnician Role = "tecnico"
	RoleAdmin      Role = "admin"
)

// Roles lists the assignable roles in display order.
var Roles = []Role{RoleAccountant, RoleTechnician, RoleAdmin}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAccountant, RoleTechnician, RoleAdmin:
		return true
	}
	return false
}

// IsStaff is true for roles that see the administrative screen.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleTechnician
}

// UserProfile is the authenticated user's record.
type UserProfile struct {
	ID                 int64  `json:"id"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Email              string `json:"email"`
	Role               Role   `json:"role"`
	MustChangePassword bool   `json:"mustChangePassword"`
}

// FullName joins first and last name.
func (u UserProfile) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsStaff reports whether the user is an admin or technician.
func (u *UserProfile) IsStaff() bool {
	return u != nil && u.Role.IsStaff()
}

// User is an entry in the admin user listing.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
	Role      Role   `json:"role"`
}

// NewUser is the payload for POST /users. The backend generates the
// temporary password.
type NewUser struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// CreatedUser is the backend's acknowledgment of a new user.
type CreatedUser struct {
	Message               string `json:"message"`
	DefaultPassword       string `json:"default_password"`
	SimulatedEmailContent string `json:"simulated_email_content"`
}
