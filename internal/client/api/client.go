package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
)

// ErrUnauthorized indicates the server rejected the bearer credential.
var ErrUnauthorized = errors.New("unauthorized")

// LoginError carries a login failure surfaced by the server. Field is set
// when the failure is attributable to a single input.
type LoginError struct {
	Field   string
	Message string
}

func (e *LoginError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("login failed (%s): %s", e.Field, e.Message)
	}
	return "login failed: " + e.Message
}

// Client talks to the NovaChat auth service API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.logger = log
		}
	}
}

// NewClient constructs a Client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// LoginResult is the identity and credential returned by a successful login.
type LoginResult struct {
	Token string
	User  domain.User
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var result LoginResult

	body := map[string]string{"email": email, "password": password}
	resp, err := c.postJSON(ctx, "/api/v1/auth/login", "", body)
	if err != nil {
		return result, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var payload struct {
			Token string      `json:"token"`
			User  domain.User `json:"user"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return result, fmt.Errorf("decode login response: %w", err)
		}
		result.Token = payload.Token
		result.User = payload.User
		return result, nil
	case http.StatusUnauthorized:
		return result, &LoginError{Message: "invalid email or password"}
	case http.StatusBadRequest:
		return result, &LoginError{Field: "email", Message: decodeErrorMessage(resp.Body, "email and password are required")}
	default:
		return result, fmt.Errorf("login: unexpected status %d", resp.StatusCode)
	}
}

// VerifyResult is the server's verdict on a bearer token.
type VerifyResult struct {
	Valid   bool
	IsAdmin bool
}

// Verify asks the server whether the token is still good. A transport error
// is returned as-is so callers can distinguish "the server said no" from
// "the server could not be reached".
func (c *Client) Verify(ctx context.Context, token string) (VerifyResult, error) {
	var result VerifyResult

	resp, err := c.get(ctx, "/api/v1/auth/verify", token)
	if err != nil {
		return result, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return result, fmt.Errorf("verify: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Valid   bool `json:"valid"`
		IsAdmin bool `json:"is_admin"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return result, fmt.Errorf("decode verify response: %w", err)
	}

	result.Valid = payload.Valid
	result.IsAdmin = payload.IsAdmin
	return result, nil
}

// Logout tells the server to drop the token's cached verification.
func (c *Client) Logout(ctx context.Context, token string) error {
	resp, err := c.postJSON(ctx, "/api/v1/auth/logout", token, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("logout: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// ListRoles fetches all roles.
func (c *Client) ListRoles(ctx context.Context, token string) ([]domain.Role, error) {
	resp, err := c.get(ctx, "/api/v1/roles", token)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.StatusOK); err != nil {
		return nil, err
	}

	var payload struct {
		Roles []struct {
			ID          string  `json:"id"`
			Name        string  `json:"name"`
			DisplayName string  `json:"display_name"`
			Description *string `json:"description"`
			Active      bool    `json:"active"`
		} `json:"roles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode roles response: %w", err)
	}

	roles := make([]domain.Role, 0, len(payload.Roles))
	for _, r := range payload.Roles {
		roles = append(roles, domain.Role{
			ID:          r.ID,
			Name:        r.Name,
			DisplayName: r.DisplayName,
			Description: r.Description,
			Active:      r.Active,
		})
	}
	return roles, nil
}

// ListPermissions fetches the permission catalog.
func (c *Client) ListPermissions(ctx context.Context, token string) ([]domain.Permission, error) {
	resp, err := c.get(ctx, "/api/v1/permissions", token)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.StatusOK); err != nil {
		return nil, err
	}

	var payload struct {
		Permissions []struct {
			ID          string  `json:"id"`
			Name        string  `json:"name"`
			DisplayName string  `json:"display_name"`
			Description *string `json:"description"`
			Module      string  `json:"module"`
		} `json:"permissions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode permissions response: %w", err)
	}

	permissions := make([]domain.Permission, 0, len(payload.Permissions))
	for _, p := range payload.Permissions {
		permissions = append(permissions, domain.Permission{
			ID:          p.ID,
			Name:        p.Name,
			DisplayName: p.DisplayName,
			Description: p.Description,
			Module:      p.Module,
		})
	}
	return permissions, nil
}

// PermissionMap fetches the role-id-keyed permission mapping.
func (c *Client) PermissionMap(ctx context.Context, token string) (domain.RolePermissionMap, error) {
	resp, err := c.get(ctx, "/api/v1/roles/permissions", token)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.StatusOK); err != nil {
		return nil, err
	}

	var payload struct {
		Map map[string][]string `json:"map"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode permission map response: %w", err)
	}
	if payload.Map == nil {
		payload.Map = make(map[string][]string)
	}
	return domain.RolePermissionMap(payload.Map), nil
}

// CreateRoleInput is the role provisioning payload.
type CreateRoleInput struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Description *string `json:"description,omitempty"`
}

// CreateRole provisions a new role.
func (c *Client) CreateRole(ctx context.Context, token string, input CreateRoleInput) (domain.Role, error) {
	var role domain.Role

	resp, err := c.postJSON(ctx, "/api/v1/roles", token, input)
	if err != nil {
		return role, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.StatusCreated); err != nil {
		return role, err
	}

	var payload struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		DisplayName string  `json:"display_name"`
		Description *string `json:"description"`
		Active      bool    `json:"active"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return role, fmt.Errorf("decode create role response: %w", err)
	}

	return domain.Role{
		ID:          payload.ID,
		Name:        payload.Name,
		DisplayName: payload.DisplayName,
		Description: payload.Description,
		Active:      payload.Active,
	}, nil
}

// ReplaceRolePermissions bulk-replaces the entire permission set of one role.
func (c *Client) ReplaceRolePermissions(ctx context.Context, token, roleID string, permissions []string) error {
	body := map[string][]string{"permissions": permissions}
	resp, err := c.doJSON(ctx, http.MethodPut, "/api/v1/roles/"+roleID+"/permissions", token, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return checkStatus(resp, http.StatusOK)
}

// ToggleRolePermission persists a single permission flip for a role and
// reports the resulting state.
func (c *Client) ToggleRolePermission(ctx context.Context, token, roleID, permission string) (bool, error) {
	resp, err := c.postJSON(ctx, "/api/v1/roles/"+roleID+"/permissions/"+permission+"/toggle", token, nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.StatusOK); err != nil {
		return false, err
	}

	var payload struct {
		Granted bool `json:"granted"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return false, fmt.Errorf("decode toggle response: %w", err)
	}
	return payload.Granted, nil
}

// Do performs an arbitrary request against the service with the bearer token
// attached. It is the raw hook the session store builds on.
func (c *Client) Do(req *http.Request, token string) (*http.Response, error) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.http.Do(req)
}

// BaseURL reports the configured service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) get(ctx context.Context, path, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.http.Do(req)
}

func (c *Client) postJSON(ctx context.Context, path, token string, body any) (*http.Response, error) {
	return c.doJSON(ctx, http.MethodPost, path, token, body)
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.http.Do(req)
}

func checkStatus(resp *http.Response, want int) error {
	if resp.StatusCode == want {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	msg := decodeErrorMessage(resp.Body, "")
	if msg != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, msg)
	}
	return fmt.Errorf("server returned %d", resp.StatusCode)
}

func decodeErrorMessage(body io.Reader, fallback string) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil || payload.Error == "" {
		return fallback
	}
	return payload.Error
}
