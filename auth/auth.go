package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/sessions"

	"vacationrental/crypto"
)

const (
	SessionName = "vacation-session"
	usernameKey = "username"
)

// InvalidCredentialsMessage is shown to users whose login is rejected.
const InvalidCredentialsMessage = "Invalid username or password. Please try again."

var (
	ErrInvalidCredentials = errors.New(InvalidCredentialsMessage)
	ErrUnauthenticated    = errors.New("auth: not logged in")
)

// Session is the identity carried by the session cookie. It is never
// re-verified against the credential store.
type Session struct {
	Username string
}

func (s Session) Authenticated() bool {
	return s.Username != ""
}

// SessionManager keeps the logged-in identity in a signed and encrypted
// cookie. The server holds no session table.
type SessionManager struct {
	store       *sessions.CookieStore
	credentials *Credentials
}

func NewSessionManager(secret string, secure bool, credentials *Credentials) (*SessionManager, error) {
	authKey, encKey, err := crypto.DeriveSessionKeys(secret)
	if err != nil {
		return nil, err
	}

	store := sessions.NewCookieStore(authKey, encKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &SessionManager{store: store, credentials: credentials}, nil
}

// Login verifies the credentials and, on success, stores the username in the
// session cookie. A mismatch or an empty username yields
// ErrInvalidCredentials.
func (m *SessionManager) Login(w http.ResponseWriter, r *http.Request, username, password string) (Session, error) {
	if username == "" {
		return Session{}, ErrInvalidCredentials
	}
	ok, err := m.credentials.Verify(r.Context(), username, password)
	if err != nil {
		return Session{}, err
	}
	if !ok {
		return Session{}, ErrInvalidCredentials
	}

	// A cookie that fails to decode still yields a fresh session to write to.
	session, _ := m.store.Get(r, SessionName)
	session.Values[usernameKey] = username
	if err := session.Save(r, w); err != nil {
		return Session{}, err
	}
	return Session{Username: username}, nil
}

func (m *SessionManager) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, SessionName)
	delete(session.Values, usernameKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// Current returns the identity stored in the request's session cookie.
// Tampered or expired cookies count as no session.
func (m *SessionManager) Current(r *http.Request) (Session, bool) {
	session, err := m.store.Get(r, SessionName)
	if err != nil {
		return Session{}, false
	}
	username, ok := session.Values[usernameKey].(string)
	if !ok || username == "" {
		return Session{}, false
	}
	return Session{Username: username}, true
}

// RequireAuthenticated redirects anonymous callers to /login and passes the
// session to next through the request context otherwise.
func (m *SessionManager) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := m.Current(r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

type sessionCtxKey struct{}

func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, sess)
}

// SessionFromContext returns the session placed by RequireAuthenticated, or
// the zero Session.
func SessionFromContext(ctx context.Context) Session {
	sess, _ := ctx.Value(sessionCtxKey{}).(Session)
	return sess
}
