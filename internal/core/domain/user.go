package domain

import "time"

const (
	RoleOwner  = "owner"
	RoleSitter = "sitter"
)

// User models a marketplace account. Role is fixed at signup.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the profile embedded in enriched results. It never carries
// the password credential.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Public strips the credential from u.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// ValidRole reports whether role is one a user can sign up with.
func ValidRole(role string) bool {
	return role == RoleOwner || role == RoleSitter
}

// Identity is the authenticated caller, resolved from the bearer token before
// any service operation runs.
type Identity struct {
	ID   string
	Role string
}

func (i Identity) IsSitter() bool { return i.Role == RoleSitter }
func (i Identity) IsOwner() bool  { return i.Role == RoleOwner }
