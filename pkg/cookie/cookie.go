package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrNotFound  = errors.New("cookie: not found")
	ErrNoSecret  = errors.New("cookie: secret required")
	ErrBadSecret = errors.New("cookie: secret must be 32+ bytes")
	ErrBadSig    = errors.New("cookie: invalid signature")
)

// Manager issues and reads cookies with a fixed attribute profile. With a
// secret configured it can also sign values, so a client can hold state
// (an upload wizard step, a flash message) without being able to forge it.
type Manager struct {
	secret    []byte // nil disables the Signed methods
	badSecret bool   // a secret was given but was too short
	domain    string
	path      string
	secure    bool
	httpOnly  bool
	sameSite  http.SameSite
}

// Option configures the Manager.
type Option func(*Manager)

// New creates a Manager. Defaults: path "/", HttpOnly, SameSite=Lax,
// no secret.
func New(opts ...Option) *Manager {
	m := &Manager{
		path:     "/",
		httpOnly: true,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithSecret enables the Signed methods. A secret under 32 bytes does
// not enable them; instead the Signed methods report ErrBadSecret, so a
// truncated env var surfaces in tests instead of shipping weakly signed
// cookies. The last WithSecret wins.
func WithSecret(secret string) Option {
	return func(m *Manager) {
		if len(secret) < 32 {
			m.secret, m.badSecret = nil, true
			return
		}
		m.secret, m.badSecret = []byte(secret), false
	}
}

// WithDomain sets the cookie domain.
func WithDomain(domain string) Option {
	return func(m *Manager) {
		m.domain = domain
	}
}

// WithPath sets the cookie path.
func WithPath(path string) Option {
	return func(m *Manager) {
		m.path = path
	}
}

// WithSecure sets the Secure flag.
func WithSecure(secure bool) Option {
	return func(m *Manager) {
		m.secure = secure
	}
}

// WithHTTPOnly sets the HttpOnly flag.
func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) {
		m.httpOnly = httpOnly
	}
}

// WithSameSite sets the SameSite attribute.
func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) {
		m.sameSite = ss
	}
}

// Get returns a plain cookie value, or ErrNotFound.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Set writes a plain cookie with the manager's profile.
func (m *Manager) Set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, m.cookie(name, value, maxAge))
}

// Delete expires the named cookie.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, m.cookie(name, "", -1))
}

// signingErr reports why the Signed methods cannot run, or nil.
func (m *Manager) signingErr() error {
	switch {
	case m.badSecret:
		return ErrBadSecret
	case m.secret == nil:
		return ErrNoSecret
	}
	return nil
}

// GetSigned reads a cookie written by SetSigned and checks its MAC.
// ErrNoSecret or ErrBadSecret when signing is not set up, ErrBadSig for
// anything tampered or malformed.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	if err := m.signingErr(); err != nil {
		return "", err
	}

	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}

	return m.verify(raw)
}

// SetSigned writes a cookie whose value carries an HMAC, so GetSigned can
// refuse tampered copies. ErrNoSecret or ErrBadSecret when signing is not
// set up.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, maxAge int) error {
	if err := m.signingErr(); err != nil {
		return err
	}

	http.SetCookie(w, m.cookie(name, m.sign(value), maxAge))
	return nil
}

// sign produces the wire form: base64(value).base64(hmac-sha256(value)).
func (m *Manager) sign(value string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString([]byte(value)) +
		"." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// verify splits the wire form, recomputes the MAC, and returns the value.
func (m *Manager) verify(raw string) (string, error) {
	encValue, encSig, ok := strings.Cut(raw, ".")
	if !ok {
		return "", ErrBadSig
	}

	value, err := base64.RawURLEncoding.DecodeString(encValue)
	if err != nil {
		return "", ErrBadSig
	}
	sig, err := base64.RawURLEncoding.DecodeString(encSig)
	if err != nil {
		return "", ErrBadSig
	}

	mac := hmac.New(sha256.New, m.secret)
	mac.Write(value)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return "", ErrBadSig
	}

	return string(value), nil
}

func (m *Manager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: m.httpOnly,
		SameSite: m.sameSite,
	}
}
