package guard

import (
	"context"

	"go.uber.org/zap"

	"github.com/zaidS12/NovaChat-sub000/internal/client/api"
	"github.com/zaidS12/NovaChat-sub000/internal/client/session"
	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
)

// AdminPanelPermission is the baseline capability for entering the admin
// subtree when the admin bypass flag is absent.
const AdminPanelPermission = "admin.panel"

// AdminVerdictKind enumerates admin verifier outcomes.
type AdminVerdictKind int

const (
	AdminUnauthenticated AdminVerdictKind = iota
	AdminForbidden
	AdminPermitted
)

func (k AdminVerdictKind) String() string {
	switch k {
	case AdminForbidden:
		return "forbidden"
	case AdminPermitted:
		return "permitted"
	default:
		return "unauthenticated"
	}
}

// AdminVerdict is the verifier's outcome for one admin route attempt.
type AdminVerdict struct {
	Kind AdminVerdictKind

	// RedirectTo is set only for unauthenticated verdicts that should route
	// to the admin login view.
	RedirectTo string

	Reason            string
	MissingPermission string
}

// AdminVerifier gates the administrative subtree. Unlike the plain route
// guard it does not trust locally cached claims alone: local checks pass
// first, then the token is re-verified against the service.
type AdminVerifier struct {
	api    *api.Client
	store  *session.Store
	logger *zap.Logger
}

// NewAdminVerifier builds an AdminVerifier over the API client and session
// store.
func NewAdminVerifier(apiClient *api.Client, store *session.Store, logger *zap.Logger) *AdminVerifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminVerifier{api: apiClient, store: store, logger: logger}
}

// Verify runs the full admin check for a route. Local checks run in order:
// session presence, baseline admin capability, then the route's specific
// permission. Only when all pass is the remote verification issued. A
// transport failure on the remote call fails open: availability is chosen
// over strictness, and a reachable service remains the enforcement point.
func (v *AdminVerifier) Verify(ctx context.Context, route Route) AdminVerdict {
	sess := v.store.Session()
	if !sess.Present() {
		return AdminVerdict{
			Kind:       AdminUnauthenticated,
			RedirectTo: AdminLoginRoute,
			Reason:     "not signed in",
		}
	}

	if !sess.User.IsSuperuser() && !domain.HasPermission(sess.User, AdminPanelPermission) {
		return AdminVerdict{
			Kind:   AdminUnauthenticated,
			Reason: "admin access required",
		}
	}

	if route.RequiredPermission != "" && !domain.HasPermission(sess.User, route.RequiredPermission) {
		return AdminVerdict{
			Kind:              AdminForbidden,
			Reason:            "missing permission",
			MissingPermission: route.RequiredPermission,
		}
	}

	result, err := v.api.Verify(ctx, sess.Token)
	if err != nil {
		v.logger.Warn("admin verification unreachable, failing open", zap.Error(err))
		return AdminVerdict{Kind: AdminPermitted}
	}

	if !result.Valid {
		// The service ruled the token dead; the cached session is a lie.
		v.store.ForceLogout()
		return AdminVerdict{
			Kind:       AdminUnauthenticated,
			RedirectTo: AdminLoginRoute,
			Reason:     "session no longer valid",
		}
	}

	return AdminVerdict{Kind: AdminPermitted}
}
