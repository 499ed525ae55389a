package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	signupFn        func(SignupInput) Result[Session]
	loginFn         func(LoginInput) Result[Session]
	logoutFn        func() Result[Empty]
	getSessionFn    func() (*Session, error)
	refreshFn       func() Result[Session]
	sendResetFn     func(string) Result[Empty]
	resetPasswordFn func(string, string) Result[Empty]
}

func (f *fakeProvider) Signup(_ context.Context, in SignupInput) Result[Session] {
	return f.signupFn(in)
}

func (f *fakeProvider) Login(_ context.Context, in LoginInput) Result[Session] {
	return f.loginFn(in)
}

func (f *fakeProvider) Logout(context.Context) Result[Empty] {
	if f.logoutFn == nil {
		return Ok(Empty{})
	}
	return f.logoutFn()
}

func (f *fakeProvider) GetSession(context.Context) (*Session, error) {
	if f.getSessionFn == nil {
		return nil, nil
	}
	return f.getSessionFn()
}

func (f *fakeProvider) RefreshSession(context.Context) Result[Session] {
	return f.refreshFn()
}

func (f *fakeProvider) SendPasswordResetEmail(_ context.Context, email string) Result[Empty] {
	return f.sendResetFn(email)
}

func (f *fakeProvider) ResetPassword(_ context.Context, token, password string) Result[Empty] {
	return f.resetPasswordFn(token, password)
}

func testSession() Session {
	return Session{
		User:   User{ID: "u-1", Email: "ada@example.com", Name: "Ada", DefaultCurrency: "USD"},
		Tokens: Tokens{AccessToken: "access", RefreshToken: "refresh"},
	}
}

// recorder collects the statuses a manager moves through.
type recorder struct {
	mu       sync.Mutex
	statuses []Status
}

func (r *recorder) listen(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, s.Status)
}

func (r *recorder) got() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Status(nil), r.statuses...)
}

func TestSessionManagerInitialize(t *testing.T) {
	ctx := context.Background()

	t.Run("stored session", func(t *testing.T) {
		s := testSession()
		m := NewSessionManager(&fakeProvider{getSessionFn: func() (*Session, error) { return &s, nil }})
		rec := &recorder{}
		m.Subscribe(rec.listen)

		m.Initialize(ctx)

		assert.Equal(t, []Status{StatusLoading, StatusLoading, StatusAuthenticated}, rec.got())
		assert.True(t, m.IsAuthenticated())
		assert.Equal(t, "access", m.AccessToken())
		require.NotNil(t, m.User())
		assert.Equal(t, "ada@example.com", m.User().Email)
	})

	t.Run("no session", func(t *testing.T) {
		m := NewSessionManager(&fakeProvider{})
		assert.True(t, m.IsLoading())
		m.Initialize(ctx)
		assert.Equal(t, StatusUnauthenticated, m.State().Status)
		assert.Nil(t, m.User())
		assert.Empty(t, m.AccessToken())
	})

	t.Run("provider error", func(t *testing.T) {
		m := NewSessionManager(&fakeProvider{getSessionFn: func() (*Session, error) {
			return nil, errors.New("corrupt session file")
		}})
		m.Initialize(ctx)
		assert.Equal(t, StatusUnauthenticated, m.State().Status)
	})
}

func TestSessionManagerSubscribe(t *testing.T) {
	m := NewSessionManager(&fakeProvider{})
	rec := &recorder{}
	unsubscribe := m.Subscribe(rec.listen)

	m.SetSession(testSession())
	m.ClearSession()
	unsubscribe()
	unsubscribe()
	m.SetSession(testSession())

	assert.Equal(t, []Status{StatusLoading, StatusAuthenticated, StatusUnauthenticated}, rec.got())
	assert.True(t, m.IsAuthenticated())
}

func TestSessionManagerListenerCanReadState(t *testing.T) {
	m := NewSessionManager(&fakeProvider{})
	var seen string
	m.Subscribe(func(State) { seen = m.AccessToken() })

	m.SetSession(testSession())
	assert.Equal(t, "access", seen)
}

func TestSessionManagerSubscribeDuringTransition(t *testing.T) {
	for i := 0; i < 200; i++ {
		m := NewSessionManager(&fakeProvider{})
		rec := &recorder{}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.SetSession(testSession())
		}()
		go func() {
			defer wg.Done()
			m.Subscribe(rec.listen)
		}()
		wg.Wait()

		got := rec.got()
		require.NotEmpty(t, got)
		require.Equal(t, m.State().Status, got[len(got)-1], "iteration %d delivered %v", i, got)
		if len(got) == 2 {
			assert.Equal(t, []Status{StatusLoading, StatusAuthenticated}, got)
		}
	}
}

func TestSessionManagerClose(t *testing.T) {
	m := NewSessionManager(&fakeProvider{})
	rec := &recorder{}
	m.Subscribe(rec.listen)
	m.Close()
	m.SetSession(testSession())

	assert.Equal(t, []Status{StatusLoading}, rec.got())

	late := &recorder{}
	m.Subscribe(late.listen)
	m.ClearSession()
	assert.Equal(t, []Status{StatusAuthenticated}, late.got())
}

func TestClientSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("with tokens", func(t *testing.T) {
		p := &fakeProvider{signupFn: func(in SignupInput) Result[Session] {
			assert.Equal(t, "ada@example.com", in.Email)
			return Ok(testSession())
		}}
		c := NewClient(p, NewSessionManager(p))

		r := c.Signup(ctx, SignupInput{Email: "ada@example.com", Password: "secret123", Name: "Ada"})
		require.True(t, r.Success)
		assert.False(t, r.Data.RequiresConfirmation)
		assert.Equal(t, "u-1", r.Data.User.ID)
		assert.True(t, c.IsAuthenticated())
	})

	t.Run("requires confirmation", func(t *testing.T) {
		p := &fakeProvider{signupFn: func(SignupInput) Result[Session] {
			s := testSession()
			s.Tokens = Tokens{}
			return Ok(s)
		}}
		m := NewSessionManager(p)
		m.ClearSession()
		c := NewClient(p, m)

		r := c.Signup(ctx, SignupInput{Email: "ada@example.com"})
		require.True(t, r.Success)
		assert.True(t, r.Data.RequiresConfirmation)
		assert.False(t, c.IsAuthenticated())
	})

	t.Run("failure", func(t *testing.T) {
		p := &fakeProvider{signupFn: func(SignupInput) Result[Session] {
			return Fail[Session]("EMAIL_ALREADY_EXISTS", "Email already registered")
		}}
		c := NewClient(p, NewSessionManager(p))

		r := c.Signup(ctx, SignupInput{})
		assert.False(t, r.Success)
		require.NotNil(t, r.Error)
		assert.Equal(t, "EMAIL_ALREADY_EXISTS", r.Error.Code)
	})

	t.Run("failure without error", func(t *testing.T) {
		p := &fakeProvider{signupFn: func(SignupInput) Result[Session] { return Result[Session]{} }}
		c := NewClient(p, NewSessionManager(p))

		r := c.Signup(ctx, SignupInput{})
		require.NotNil(t, r.Error)
		assert.Equal(t, CodeUnknownError, r.Error.Code)
	})
}

func TestClientLoginLogout(t *testing.T) {
	ctx := context.Background()
	p := &fakeProvider{
		loginFn:  func(LoginInput) Result[Session] { return Ok(testSession()) },
		logoutFn: func() Result[Empty] { return Fail[Empty](CodeNetworkError, "connection refused") },
	}
	c := NewClient(p, NewSessionManager(p))

	r := c.Login(ctx, LoginInput{Email: "ada@example.com", Password: "secret123"})
	require.True(t, r.Success)
	assert.Equal(t, "Ada", c.User().Name)
	assert.Equal(t, "access", c.AccessToken())

	out := c.Logout(ctx)
	assert.False(t, out.Success)
	assert.False(t, c.IsAuthenticated())
}

func TestClientLoginFailureKeepsState(t *testing.T) {
	p := &fakeProvider{loginFn: func(LoginInput) Result[Session] {
		return Fail[Session]("INVALID_CREDENTIALS", "Invalid email or password")
	}}
	m := NewSessionManager(p)
	m.ClearSession()
	c := NewClient(p, m)

	r := c.Login(context.Background(), LoginInput{})
	assert.False(t, r.Success)
	assert.Equal(t, "INVALID_CREDENTIALS", r.Error.Code)
	assert.Equal(t, StatusUnauthenticated, m.State().Status)
}

func TestClientRefresh(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		result   Result[Session]
		wantAuth bool
	}{
		{name: "rotated", result: Ok(testSession()), wantAuth: true},
		{name: "network error keeps session", result: Fail[Session](CodeNetworkError, "timeout"), wantAuth: true},
		{name: "rejected clears session", result: Fail[Session]("INVALID_TOKEN", "Invalid token"), wantAuth: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{refreshFn: func() Result[Session] { return tt.result }}
			m := NewSessionManager(p)
			m.SetSession(testSession())
			c := NewClient(p, m)

			r := c.Refresh(ctx)
			assert.Equal(t, tt.result.Success, r.Success)
			assert.Equal(t, tt.wantAuth, c.IsAuthenticated())
		})
	}
}

func TestClientPasswordReset(t *testing.T) {
	ctx := context.Background()
	var gotEmail, gotToken, gotPassword string
	p := &fakeProvider{
		sendResetFn: func(email string) Result[Empty] {
			gotEmail = email
			return Ok(Empty{})
		},
		resetPasswordFn: func(token, password string) Result[Empty] {
			gotToken, gotPassword = token, password
			return Ok(Empty{})
		},
	}
	c := NewClient(p, NewSessionManager(p))

	assert.True(t, c.RequestPasswordReset(ctx, "ada@example.com").Success)
	assert.True(t, c.ConfirmPasswordReset(ctx, "tok", "newsecret1").Success)
	assert.Equal(t, "ada@example.com", gotEmail)
	assert.Equal(t, "tok", gotToken)
	assert.Equal(t, "newsecret1", gotPassword)
}

func TestResultError(t *testing.T) {
	err := &ResultError{Code: CodeNetworkError, Message: "dial tcp: refused"}
	assert.Equal(t, "NETWORK_ERROR: dial tcp: refused", err.Error())
}
