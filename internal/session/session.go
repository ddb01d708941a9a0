// Package session supplies the acting user to the trash engine
package session

// SystemLabel is recorded as the actor when nobody is signed in
const SystemLabel = "System"

// Roles known to the front desk
const (
	RoleAdmin  = "admin"
	RoleDoctor = "doctor"
	RoleNurse  = "nurse"
	RoleStaff  = "staff"
)

// User is the signed-in user
type User struct {
	Name     string
	Username string
	Role     string
}

// Accessor returns the current user, or nil when there is no session
type Accessor interface {
	CurrentUser() *User
}

// Static always returns the same user. A nil *Static has no session.
type Static struct {
	user *User
}

// NewStatic returns an accessor for u. An empty name and username means no session.
func NewStatic(u User) *Static {
	if u.Name == "" && u.Username == "" {
		return &Static{}
	}
	return &Static{user: &u}
}

func (s *Static) CurrentUser() *User {
	if s == nil || s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// ActorName returns the display name of the current user, falling back to
// the username and then to SystemLabel
func ActorName(a Accessor) string {
	if a == nil {
		return SystemLabel
	}
	u := a.CurrentUser()
	switch {
	case u == nil:
		return SystemLabel
	case u.Name != "":
		return u.Name
	case u.Username != "":
		return u.Username
	default:
		return SystemLabel
	}
}

// IsAdmin reports whether the current user has the admin role
func IsAdmin(a Accessor) bool {
	if a == nil {
		return false
	}
	u := a.CurrentUser()
	return u != nil && u.Role == RoleAdmin
}
