package domain

// SuperAdminRole is the role name that bypasses every permission check.
const SuperAdminRole = "super_admin"

// User is the signed-in identity as the chat client sees it. Permissions is
// the materialized grant set for the user's role; a nil slice means the same
// thing as an empty one.
type User struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	IsAdmin     bool     `json:"is_admin"`
	Permissions []string `json:"permissions"`
}

// IsSuperuser reports whether the user carries the unconditional admin bypass.
func (u *User) IsSuperuser() bool {
	if u == nil {
		return false
	}
	return u.IsAdmin || u.Role == SuperAdminRole
}

// Scope identifies which persisted namespace a session came from.
type Scope string

const (
	ScopeUser  Scope = "user"
	ScopeAdmin Scope = "admin"
)

// Session pairs a bearer credential with the identity it authenticates.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
	Scope Scope  `json:"scope"`
}

// Present reports whether the session is usable: both the token and the user
// must be set simultaneously. A token with no user (or the reverse) is treated
// as no session at all.
func (s Session) Present() bool {
	return s.Token != "" && s.User != nil
}
