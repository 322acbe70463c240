package internal

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/intake/pkg/clientip"
	"github.com/dmitrymomot/intake/pkg/id"
	"github.com/dmitrymomot/intake/pkg/session"
)

const (
	defaultSessionCookieName = "__sid"
	defaultSessionMaxAge     = 86400 * 30 // 30 days
)

// csrfPrefix namespaces the CSRF MAC input so the same secret can never
// produce a valid token from another MAC'd value.
const csrfPrefix = "csrf:"

// cookieProfile is the attribute set stamped on every session cookie the
// manager issues, whether setting or clearing one.
type cookieProfile struct {
	name     string
	domain   string
	path     string
	maxAge   int
	sameSite http.SameSite
	secure   bool
	httpOnly bool
}

func (p cookieProfile) build(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     p.name,
		Value:    value,
		Path:     p.path,
		Domain:   p.domain,
		MaxAge:   maxAge,
		Secure:   p.secure,
		HttpOnly: p.httpOnly,
		SameSite: p.sameSite,
	}
}

// SessionManager owns the session lifecycle: cookie issue and teardown,
// store round-trips, token rotation. It also mints per-session CSRF tokens
// as an HMAC over the session ID, which makes token checks stateless.
type SessionManager struct {
	store      session.Store
	logger     *slog.Logger
	csrfSecret []byte
	cookie     cookieProfile
}

// SessionOption configures the SessionManager.
type SessionOption func(*SessionManager)

// NewSessionManager builds a manager around store. Without an explicit
// CSRF secret a random one is drawn at startup; tokens issued before a
// restart then stop validating, which only forces clients to refetch.
func NewSessionManager(store session.Store, opts ...SessionOption) *SessionManager {
	sm := &SessionManager{
		store: store,
		cookie: cookieProfile{
			name:     defaultSessionCookieName,
			path:     "/",
			maxAge:   defaultSessionMaxAge,
			sameSite: http.SameSiteLaxMode,
			httpOnly: true,
		},
	}

	for _, opt := range opts {
		opt(sm)
	}

	if len(sm.csrfSecret) == 0 {
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			panic(fmt.Sprintf("intake: generate csrf secret: %v", err))
		}
		sm.csrfSecret = secret
	}

	return sm
}

// WithSessionCookieName sets the session cookie name.
func WithSessionCookieName(name string) SessionOption {
	return func(sm *SessionManager) {
		if name != "" {
			sm.cookie.name = name
		}
	}
}

// WithSessionMaxAge sets the session lifetime in seconds.
func WithSessionMaxAge(seconds int) SessionOption {
	return func(sm *SessionManager) {
		if seconds > 0 {
			sm.cookie.maxAge = seconds
		}
	}
}

// WithSessionDomain sets the session cookie domain.
func WithSessionDomain(domain string) SessionOption {
	return func(sm *SessionManager) {
		sm.cookie.domain = domain
	}
}

// WithSessionPath sets the session cookie path.
func WithSessionPath(path string) SessionOption {
	return func(sm *SessionManager) {
		if path != "" {
			sm.cookie.path = path
		}
	}
}

// WithSessionSecure sets the session cookie Secure flag.
func WithSessionSecure(secure bool) SessionOption {
	return func(sm *SessionManager) {
		sm.cookie.secure = secure
	}
}

// WithSessionHTTPOnly sets the session cookie HttpOnly flag.
func WithSessionHTTPOnly(httpOnly bool) SessionOption {
	return func(sm *SessionManager) {
		sm.cookie.httpOnly = httpOnly
	}
}

// WithSessionSameSite sets the session cookie SameSite attribute.
func WithSessionSameSite(sameSite http.SameSite) SessionOption {
	return func(sm *SessionManager) {
		sm.cookie.sameSite = sameSite
	}
}

// WithSessionCSRFSecret pins the HMAC secret for CSRF tokens. Secrets
// under 32 bytes are ignored. Set this when running multiple instances so
// a token issued by one validates on another.
func WithSessionCSRFSecret(secret string) SessionOption {
	return func(sm *SessionManager) {
		if len(secret) >= 32 {
			sm.csrfSecret = []byte(secret)
		}
	}
}

// SetLogger sets the logger for session events. Called by App after initialization.
func (sm *SessionManager) SetLogger(l *slog.Logger) {
	if l != nil {
		sm.logger = l
	}
}

// LoadSession resolves the request's session cookie through the store.
// No cookie means nil, nil; a token the store doesn't know returns
// session.ErrNotFound, an expired one session.ErrExpired.
func (sm *SessionManager) LoadSession(ctx context.Context, r *http.Request) (*session.Session, error) {
	cookie, err := r.Cookie(sm.cookie.name)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	return sm.store.Get(ctx, cookie.Value)
}

// CreateSession starts a fresh session, capturing the caller's IP and
// user agent when a request is given.
func (sm *SessionManager) CreateSession(ctx context.Context, r *http.Request) (*session.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	expiresAt := time.Now().Add(time.Duration(sm.cookie.maxAge) * time.Second)
	sess := session.New(id.NewULID(), token, expiresAt)
	if r != nil {
		sess.IP = clientip.GetIP(r)
		sess.UserAgent = r.UserAgent()
	}

	if err := sm.store.Create(ctx, sess); err != nil {
		return nil, err
	}

	sess.ClearNew()
	sess.ClearDirty()

	return sess, nil
}

// SaveSession writes the session cookie to the response.
func (sm *SessionManager) SaveSession(w http.ResponseWriter, sess *session.Session) {
	http.SetCookie(w, sm.cookie.build(sess.Token, sm.cookie.maxAge))
}

// DeleteSession clears the session cookie.
func (sm *SessionManager) DeleteSession(w http.ResponseWriter) {
	http.SetCookie(w, sm.cookie.build("", -1))
}

// RotateToken swaps the session's token for a fresh one. Called after
// login so a token fixated before authentication stops working.
func (sm *SessionManager) RotateToken(ctx context.Context, sess *session.Session) error {
	oldToken := sess.Token
	newToken, err := generateToken()
	if err != nil {
		return fmt.Errorf("generate session token: %w", err)
	}
	sess.Token = newToken
	sess.MarkDirty()

	if err := sm.store.Update(ctx, sess); err != nil {
		sess.Token = oldToken
		return err
	}

	return nil
}

// CSRFToken returns the CSRF token for the given session ID: a
// base64url HMAC-SHA256 over the ID, stable for the session's lifetime
// and verifiable without touching the store.
func (sm *SessionManager) CSRFToken(sessionID string) string {
	mac := hmac.New(sha256.New, sm.csrfSecret)
	mac.Write([]byte(csrfPrefix + sessionID))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// ValidateToken reports whether token belongs to the session. Blank
// inputs always fail; the comparison is constant-time.
func (sm *SessionManager) ValidateToken(token, sessionID string) bool {
	if token == "" || sessionID == "" {
		return false
	}
	expected := sm.CSRFToken(sessionID)
	return subtle.ConstantTimeCompare([]byte(token), []byte(expected)) == 1
}

// Store returns the underlying session store.
func (sm *SessionManager) Store() session.Store {
	return sm.store
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
