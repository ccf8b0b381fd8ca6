// Package nav builds the navigation menu visible to a signed-in user.
package nav

import "github.com/zaidS12/NovaChat-sub000/internal/core/domain"

// Entry is one navigation target. AdminBadge marks entries that render with
// an admin indicator; it never gates access, the permission does.
type Entry struct {
	Name       string
	Route      string
	Permission string
	AdminBadge bool
}

// master is the fixed, ordered menu. Visible always preserves this order.
var master = []Entry{
	{Name: "Dashboard", Route: "/dashboard", Permission: "dashboard.view"},
	{Name: "Chat", Route: "/chat", Permission: "chat.access"},
	{Name: "Users", Route: "/users", Permission: "users.view"},
	{Name: "Settings", Route: "/settings", Permission: "settings.manage"},
	{Name: "Admin", Route: "/admin", Permission: "admin.panel", AdminBadge: true},
	{Name: "Profile", Route: "/profile"},
}

// defaultNames are the always-safe views shown when the user's grant set has
// not hydrated yet. An empty menu would strand the user.
var defaultNames = map[string]struct{}{
	"Dashboard": {},
	"Chat":      {},
	"Profile":   {},
}

// Visible filters the master list down to what the user may see. Entries
// with no permission requirement show for any authenticated user. A nil
// user, or one whose permissions have not loaded and who carries no admin
// bypass, gets the reduced default set.
func Visible(user *domain.User) []Entry {
	if user == nil || (len(user.Permissions) == 0 && !user.IsSuperuser()) {
		return defaultSet()
	}

	visible := make([]Entry, 0, len(master))
	for _, entry := range master {
		if entry.Permission == "" || domain.HasPermission(user, entry.Permission) {
			visible = append(visible, entry)
		}
	}
	return visible
}

func defaultSet() []Entry {
	visible := make([]Entry, 0, len(defaultNames))
	for _, entry := range master {
		if _, ok := defaultNames[entry.Name]; ok {
			visible = append(visible, entry)
		}
	}
	return visible
}
