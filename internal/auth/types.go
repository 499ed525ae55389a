// Package auth keeps a client's login session: a provider port that talks
// to an identity backend, a SessionManager holding the current state and a
// Client that combines the two.
package auth

import (
	"context"
	"time"
)

// Error codes used in ResultError.
const (
	CodeNetworkError = "NETWORK_ERROR"
	CodeUnknownError = "UNKNOWN_ERROR"
	CodeNoSession    = "NO_SESSION"
)

// User is the identity attached to a session.
type User struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	DefaultCurrency string `json:"default_currency"`
}

// Tokens are the credentials of a session. An empty AccessToken means the
// account still has to be confirmed.
type Tokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Session is a logged-in user with its tokens.
type Session struct {
	User   User   `json:"user"`
	Tokens Tokens `json:"tokens"`
}

// Status discriminates State.
type Status string

const (
	StatusLoading         Status = "loading"
	StatusUnauthenticated Status = "unauthenticated"
	StatusAuthenticated   Status = "authenticated"
)

// State is the session manager's state. Session is only set when Status is
// StatusAuthenticated.
type State struct {
	Status  Status
	Session *Session
}

// ResultError describes a failed provider call.
type ResultError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ResultError) Error() string {
	return e.Code + ": " + e.Message
}

// Result is the outcome of a provider or client call. Failures are values,
// not Go errors, so they can be shown to the user as they are.
type Result[T any] struct {
	Success bool         `json:"success"`
	Data    T            `json:"data,omitempty"`
	Error   *ResultError `json:"error,omitempty"`
}

// Ok wraps data in a successful result.
func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail builds a failed result.
func Fail[T any](code, message string) Result[T] {
	return Result[T]{Error: &ResultError{Code: code, Message: message}}
}

// failWith copies the error of r, or a generic one, into a new result type.
func failWith[T, U any](r Result[U], fallback string) Result[T] {
	if r.Error != nil {
		return Result[T]{Error: r.Error}
	}
	return Fail[T](CodeUnknownError, fallback)
}

// Empty is the data of results that carry none.
type Empty struct{}

// SignupInput holds the fields of a new account.
type SignupInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	Name            string `json:"name"`
	DefaultCurrency string `json:"default_currency,omitempty"`
}

// LoginInput holds login credentials.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Provider talks to an identity backend. Transport failures are reported
// as results with CodeNetworkError.
type Provider interface {
	Signup(ctx context.Context, input SignupInput) Result[Session]
	Login(ctx context.Context, input LoginInput) Result[Session]
	Logout(ctx context.Context) Result[Empty]
	// GetSession returns the stored session, or nil when there is none.
	GetSession(ctx context.Context) (*Session, error)
	RefreshSession(ctx context.Context) Result[Session]
	SendPasswordResetEmail(ctx context.Context, email string) Result[Empty]
	ResetPassword(ctx context.Context, token, newPassword string) Result[Empty]
}
