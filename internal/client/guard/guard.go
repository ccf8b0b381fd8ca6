// Package guard decides whether a navigation target may be entered given
// the current session. Decisions are pure: no I/O, no clock, no randomness.
package guard

import (
	"github.com/zaidS12/NovaChat-sub000/internal/client/session"
	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
)

// LoginRoute is where unauthenticated traffic is sent.
const LoginRoute = "/login"

// AdminLoginRoute is where unauthenticated admin traffic is sent.
const AdminLoginRoute = "/admin/login"

// Route describes a navigation target and its entry requirements.
type Route struct {
	Name               string
	RequiredPermission string
	AdminOnly          bool
}

// DecisionKind enumerates guard outcomes.
type DecisionKind int

const (
	// DecisionPending means session state is not yet known; render nothing
	// and wait. Redirecting here would bounce a user whose session is still
	// being restored.
	DecisionPending DecisionKind = iota
	DecisionRedirect
	DecisionDeny
	DecisionAllow
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionRedirect:
		return "redirect"
	case DecisionDeny:
		return "deny"
	case DecisionAllow:
		return "allow"
	default:
		return "pending"
	}
}

// Decision is the guard's verdict for one route attempt.
type Decision struct {
	Kind DecisionKind

	// Redirect fields.
	To   string
	From string

	// Deny fields.
	Reason            string
	MissingPermission string
}

// Authorize evaluates the route against the session. Checks run in strict
// order: settled state first, then authentication, then admin restriction,
// then the route's permission. The first failing check wins.
func Authorize(state session.State, sess domain.Session, route Route) Decision {
	if state == session.StateUnknown {
		return Decision{Kind: DecisionPending}
	}

	if state != session.StateAuthenticated || !sess.Present() {
		return Decision{Kind: DecisionRedirect, To: LoginRoute, From: route.Name}
	}

	if route.AdminOnly && !sess.User.IsSuperuser() {
		return Decision{Kind: DecisionDeny, Reason: "administrator access required"}
	}

	if route.RequiredPermission != "" && !domain.HasPermission(sess.User, route.RequiredPermission) {
		return Decision{
			Kind:              DecisionDeny,
			Reason:            "missing permission",
			MissingPermission: route.RequiredPermission,
		}
	}

	return Decision{Kind: DecisionAllow}
}
