// Package httpprovider implements auth.Provider against the BudgetWise HTTP
// API and keeps the session in a local JSON file.
package httpprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"budgetwise/internal/auth"
)

const authPrefix = "/api/v1/auth"

var _ auth.Provider = (*Provider)(nil)

// Provider talks to the /api/v1/auth endpoints.
type Provider struct {
	baseURL     string
	sessionPath string
	httpClient  *http.Client
	now         func() time.Time
}

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.httpClient = c }
}

// New returns a provider for the API at baseURL that stores its session in
// sessionPath.
func New(baseURL, sessionPath string, opts ...Option) *Provider {
	p := &Provider{
		baseURL:     strings.TrimRight(baseURL, "/"),
		sessionPath: sessionPath,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type userBody struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	DefaultCurrency string `json:"default_currency"`
}

type authBody struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
	User         userBody `json:"user"`
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Signup registers an account and stores the returned session.
func (p *Provider) Signup(ctx context.Context, input auth.SignupInput) auth.Result[auth.Session] {
	return p.authenticate(ctx, "/register", input)
}

// Login authenticates and stores the returned session.
func (p *Provider) Login(ctx context.Context, input auth.LoginInput) auth.Result[auth.Session] {
	return p.authenticate(ctx, "/login", input)
}

// Logout revokes the refresh token on the server and removes the session
// file. The file is removed even when the request fails.
func (p *Provider) Logout(ctx context.Context) auth.Result[auth.Empty] {
	session, err := p.GetSession(ctx)
	if err != nil || session == nil {
		_ = p.removeSession()
		return auth.Ok(auth.Empty{})
	}

	rerr := p.do(ctx, http.MethodPost, "/logout", session.Tokens.AccessToken, nil, nil)
	if err := p.removeSession(); err != nil {
		return auth.Fail[auth.Empty](auth.CodeUnknownError, err.Error())
	}
	if rerr != nil {
		return auth.Result[auth.Empty]{Error: rerr}
	}
	return auth.Ok(auth.Empty{})
}

// GetSession reads the session file. A missing file is not an error.
func (p *Provider) GetSession(context.Context) (*auth.Session, error) {
	raw, err := os.ReadFile(p.sessionPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session auth.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	if session.Tokens.AccessToken == "" {
		return nil, nil
	}
	return &session, nil
}

// RefreshSession exchanges the stored refresh token for a new session.
func (p *Provider) RefreshSession(ctx context.Context) auth.Result[auth.Session] {
	session, err := p.GetSession(ctx)
	if err != nil {
		return auth.Fail[auth.Session](auth.CodeUnknownError, err.Error())
	}
	if session == nil || session.Tokens.RefreshToken == "" {
		return auth.Fail[auth.Session](auth.CodeNoSession, "Not logged in")
	}
	return p.authenticate(ctx, "/refresh", map[string]string{"refresh_token": session.Tokens.RefreshToken})
}

// SendPasswordResetEmail requests a password reset for email.
func (p *Provider) SendPasswordResetEmail(ctx context.Context, email string) auth.Result[auth.Empty] {
	if rerr := p.do(ctx, http.MethodPost, "/password/forgot", "", map[string]string{"email": email}, nil); rerr != nil {
		return auth.Result[auth.Empty]{Error: rerr}
	}
	return auth.Ok(auth.Empty{})
}

// ResetPassword sets a new password with a reset token.
func (p *Provider) ResetPassword(ctx context.Context, token, newPassword string) auth.Result[auth.Empty] {
	body := map[string]string{"token": token, "password": newPassword}
	if rerr := p.do(ctx, http.MethodPost, "/password/reset", "", body, nil); rerr != nil {
		return auth.Result[auth.Empty]{Error: rerr}
	}
	return auth.Ok(auth.Empty{})
}

func (p *Provider) authenticate(ctx context.Context, path string, body any) auth.Result[auth.Session] {
	var resp authBody
	if rerr := p.do(ctx, http.MethodPost, path, "", body, &resp); rerr != nil {
		return auth.Result[auth.Session]{Error: rerr}
	}

	session := auth.Session{
		User: auth.User{
			ID:              resp.User.ID,
			Email:           resp.User.Email,
			Name:            resp.User.Name,
			DefaultCurrency: resp.User.DefaultCurrency,
		},
		Tokens: auth.Tokens{
			AccessToken:  resp.AccessToken,
			RefreshToken: resp.RefreshToken,
			ExpiresAt:    p.now().UTC().Add(time.Duration(resp.ExpiresIn) * time.Second),
		},
	}
	if session.Tokens.AccessToken != "" {
		if err := p.saveSession(session); err != nil {
			return auth.Fail[auth.Session](auth.CodeUnknownError, err.Error())
		}
	}
	return auth.Ok(session)
}

// do sends a JSON request to the auth API and decodes a 2xx response into
// out. Failures come back as result errors ready for the caller.
func (p *Provider) do(ctx context.Context, method, path, bearer string, body, out any) *auth.ResultError {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &auth.ResultError{Code: auth.CodeUnknownError, Message: err.Error()}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+authPrefix+path, reader)
	if err != nil {
		return &auth.ResultError{Code: auth.CodeUnknownError, Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return &auth.ResultError{Code: auth.CodeNetworkError, Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &auth.ResultError{Code: auth.CodeNetworkError, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && eb.Error.Code != "" {
			return &auth.ResultError{Code: eb.Error.Code, Message: eb.Error.Message}
		}
		return &auth.ResultError{
			Code:    auth.CodeUnknownError,
			Message: fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &auth.ResultError{Code: auth.CodeUnknownError, Message: "invalid response: " + err.Error()}
		}
	}
	return nil
}

func (p *Provider) saveSession(session auth.Session) error {
	if err := os.MkdirAll(filepath.Dir(p.sessionPath), 0o750); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	raw, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(p.sessionPath, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (p *Provider) removeSession() error {
	if err := os.Remove(p.sessionPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
