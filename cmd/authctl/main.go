// Command authctl is an operator console for the NovaChat auth service. It
// drives the same client kit the chat application embeds: file-backed session
// storage, the route guard, the navigation filter, and the role editor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/zaidS12/NovaChat-sub000/internal/client/api"
	"github.com/zaidS12/NovaChat-sub000/internal/client/guard"
	"github.com/zaidS12/NovaChat-sub000/internal/client/nav"
	"github.com/zaidS12/NovaChat-sub000/internal/client/roleadmin"
	"github.com/zaidS12/NovaChat-sub000/internal/client/session"
	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
)

const usage = `usage: authctl <command> [arguments]

commands:
  login -email <email>        sign in and persist the session
  logout                      sign out and clear persisted state
  whoami                      show the signed-in identity
  nav                         show the navigation menu for the current user
  verify [-permission <p>]    run the admin access check against the service
  roles                       list roles
  roles-create -name <n> -display <d> [-desc <text>]
  perm-toggle -role <id> -permission <p>   flip one grant and save

environment:
  NOVACHAT_SERVER_URL   service base URL (default http://localhost:8080)
  NOVACHAT_SESSION_FILE session state path (default ~/.novachat/session.json)
`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "authctl: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	client, store, err := buildKit()
	if err != nil {
		return err
	}
	store.Rehydrate()
	ctx := context.Background()

	switch command {
	case "login":
		return cmdLogin(ctx, store, args)
	case "logout":
		store.Logout(ctx)
		fmt.Println("signed out")
		return nil
	case "whoami":
		return cmdWhoami(store)
	case "nav":
		return cmdNav(store)
	case "verify":
		return cmdVerify(ctx, client, store, args)
	case "roles":
		return cmdRoles(ctx, client, store)
	case "roles-create":
		return cmdRolesCreate(ctx, client, store, args)
	case "perm-toggle":
		return cmdPermToggle(ctx, client, store, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func buildKit() (*api.Client, *session.Store, error) {
	baseURL := os.Getenv("NOVACHAT_SERVER_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	statePath := os.Getenv("NOVACHAT_SESSION_FILE")
	if statePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve home dir: %w", err)
		}
		statePath = filepath.Join(home, ".novachat", "session.json")
	}

	client := api.NewClient(baseURL)
	storage, err := session.NewFileStorage(statePath)
	if err != nil {
		return nil, nil, err
	}
	store, err := session.NewStore(client, storage)
	if err != nil {
		return nil, nil, err
	}
	return client, store, nil
}

func cmdLogin(ctx context.Context, store *session.Store, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	fs.Parse(args)

	if *email == "" {
		return fmt.Errorf("login: -email is required")
	}

	fmt.Fprint(os.Stderr, "password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	sess, err := store.Login(ctx, *email, string(raw))
	if err != nil {
		return err
	}

	fmt.Printf("signed in as %s (%s)\n", sess.User.Name, sess.User.Email)
	return nil
}

func cmdWhoami(store *session.Store) error {
	if !store.IsAuthenticated() {
		return fmt.Errorf("not signed in")
	}

	user := store.Session().User
	fmt.Printf("id:          %s\n", user.ID)
	fmt.Printf("name:        %s\n", user.Name)
	fmt.Printf("email:       %s\n", user.Email)
	fmt.Printf("role:        %s\n", user.Role)
	fmt.Printf("admin:       %t\n", user.IsSuperuser())
	fmt.Printf("permissions: %s\n", strings.Join(user.Permissions, ", "))
	return nil
}

func cmdNav(store *session.Store) error {
	var user *domain.User
	if store.IsAuthenticated() {
		user = store.Session().User
	}

	for _, entry := range nav.Visible(user) {
		badge := ""
		if entry.AdminBadge {
			badge = "  [admin]"
		}
		fmt.Printf("%-10s %s%s\n", entry.Name, entry.Route, badge)
	}
	return nil
}

func cmdVerify(ctx context.Context, client *api.Client, store *session.Store, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	permission := fs.String("permission", "", "route permission to require")
	fs.Parse(args)

	verifier := guard.NewAdminVerifier(client, store, nil)
	verdict := verifier.Verify(ctx, guard.Route{Name: "/admin", RequiredPermission: *permission})

	fmt.Printf("verdict: %s\n", verdict.Kind)
	if verdict.Reason != "" {
		fmt.Printf("reason:  %s\n", verdict.Reason)
	}
	if verdict.MissingPermission != "" {
		fmt.Printf("missing: %s\n", verdict.MissingPermission)
	}
	if verdict.RedirectTo != "" {
		fmt.Printf("goto:    %s\n", verdict.RedirectTo)
	}
	return nil
}

func cmdRoles(ctx context.Context, client *api.Client, store *session.Store) error {
	editor, err := roleadmin.NewEditor(client, store)
	if err != nil {
		return err
	}

	roles, err := editor.LoadRoles(ctx)
	if err != nil {
		return err
	}
	m, err := editor.LoadPermissionMap(ctx)
	if err != nil {
		return err
	}

	for _, role := range roles {
		fmt.Printf("%s  %s (%s)\n", role.ID, role.Name, role.DisplayName)
		for _, p := range m[role.ID] {
			fmt.Printf("    %s\n", p)
		}
	}
	return nil
}

func cmdRolesCreate(ctx context.Context, client *api.Client, store *session.Store, args []string) error {
	fs := flag.NewFlagSet("roles-create", flag.ExitOnError)
	name := fs.String("name", "", "machine name, e.g. content_manager")
	display := fs.String("display", "", "human display name")
	desc := fs.String("desc", "", "description")
	fs.Parse(args)

	if *name == "" || *display == "" {
		return fmt.Errorf("roles-create: -name and -display are required")
	}

	editor, err := roleadmin.NewEditor(client, store)
	if err != nil {
		return err
	}

	var description *string
	if *desc != "" {
		description = desc
	}
	role, err := editor.CreateRole(ctx, *name, *display, description)
	if err != nil {
		return err
	}

	fmt.Printf("created role %s (%s)\n", role.Name, role.ID)
	return nil
}

func cmdPermToggle(ctx context.Context, client *api.Client, store *session.Store, args []string) error {
	fs := flag.NewFlagSet("perm-toggle", flag.ExitOnError)
	roleID := fs.String("role", "", "role id")
	permission := fs.String("permission", "", "permission name")
	fs.Parse(args)

	if *roleID == "" || *permission == "" {
		return fmt.Errorf("perm-toggle: -role and -permission are required")
	}

	granted, err := client.ToggleRolePermission(ctx, store.Token(), *roleID, *permission)
	if err != nil {
		return err
	}

	if granted {
		fmt.Printf("granted %s to %s\n", *permission, *roleID)
	} else {
		fmt.Printf("revoked %s from %s\n", *permission, *roleID)
	}
	return nil
}
