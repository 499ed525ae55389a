package auth

import "context"

// SignupResult is returned by Client.Signup.
type SignupResult struct {
	User                 User `json:"user"`
	RequiresConfirmation bool `json:"requires_confirmation"`
}

// LoginResult is returned by Client.Login and Client.Refresh.
type LoginResult struct {
	User User `json:"user"`
}

// Client runs auth operations against a provider and keeps the session
// manager in step with their outcome.
type Client struct {
	provider Provider
	session  *SessionManager
}

// NewClient creates a Client.
func NewClient(provider Provider, session *SessionManager) *Client {
	return &Client{provider: provider, session: session}
}

// Signup creates an account. The session is only set when the provider
// returned an access token; otherwise the account awaits confirmation.
func (c *Client) Signup(ctx context.Context, input SignupInput) Result[SignupResult] {
	r := c.provider.Signup(ctx, input)
	if !r.Success {
		return failWith[SignupResult](r, "Signup failed")
	}

	requiresConfirmation := r.Data.Tokens.AccessToken == ""
	if !requiresConfirmation {
		c.session.SetSession(r.Data)
	}
	return Ok(SignupResult{User: r.Data.User, RequiresConfirmation: requiresConfirmation})
}

// Login authenticates and stores the session.
func (c *Client) Login(ctx context.Context, input LoginInput) Result[LoginResult] {
	r := c.provider.Login(ctx, input)
	if !r.Success {
		return failWith[LoginResult](r, "Login failed")
	}
	c.session.SetSession(r.Data)
	return Ok(LoginResult{User: r.Data.User})
}

// Logout ends the session. The local session is cleared even when the
// provider call fails.
func (c *Client) Logout(ctx context.Context) Result[Empty] {
	r := c.provider.Logout(ctx)
	c.session.ClearSession()
	return r
}

// Refresh exchanges the refresh token for a new session. A rejected refresh
// clears the session; a network failure keeps it.
func (c *Client) Refresh(ctx context.Context) Result[LoginResult] {
	r := c.provider.RefreshSession(ctx)
	if !r.Success {
		if r.Error == nil || r.Error.Code != CodeNetworkError {
			c.session.ClearSession()
		}
		return failWith[LoginResult](r, "Refresh failed")
	}
	c.session.SetSession(r.Data)
	return Ok(LoginResult{User: r.Data.User})
}

// RequestPasswordReset asks the provider to send a reset token.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) Result[Empty] {
	return c.provider.SendPasswordResetEmail(ctx, email)
}

// ConfirmPasswordReset sets a new password with a reset token.
func (c *Client) ConfirmPasswordReset(ctx context.Context, token, newPassword string) Result[Empty] {
	return c.provider.ResetPassword(ctx, token, newPassword)
}

// Initialize loads the stored session.
func (c *Client) Initialize(ctx context.Context) {
	c.session.Initialize(ctx)
}

// User returns the logged-in user, or nil.
func (c *Client) User() *User { return c.session.User() }

// AccessToken returns the current access token.
func (c *Client) AccessToken() string { return c.session.AccessToken() }

// IsAuthenticated reports whether a session is set.
func (c *Client) IsAuthenticated() bool { return c.session.IsAuthenticated() }

// Subscribe forwards to the session manager.
func (c *Client) Subscribe(fn Listener) func() { return c.session.Subscribe(fn) }
