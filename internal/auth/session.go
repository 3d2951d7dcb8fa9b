// Package auth identifies players through a signed session cookie.
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	CookieName = "sid"
	keySize    = 32
	defaultTTL = 7 * 24 * time.Hour
)

var (
	ErrBadToken = errors.New("bad session token")
	ErrExpired  = errors.New("session expired")
)

// Session holds the payload carried in the signed token
type Session struct {
	PlayerID string    // player id used across games
	Expires  time.Time // absolute expiration time
}

// Sessions signs and verifies session tokens with one HMAC key
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessions(secret []byte) *Sessions {
	return &Sessions{secret: secret, ttl: defaultTTL, now: time.Now}
}

// LoadSessions reads the key from dir/session.key, generating and saving one on first use
func LoadSessions(dir string) (*Sessions, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session dir: %w", err)
	}
	p := filepath.Join(dir, "session.key")

	b, err := os.ReadFile(p)
	if err == nil && len(b) >= keySize {
		return NewSessions(b), nil
	}

	nb := make([]byte, keySize)
	if _, err := rand.Read(nb); err != nil {
		return nil, err
	}
	if err := os.WriteFile(p, nb, 0o600); err != nil {
		return nil, fmt.Errorf("failed to save session key: %w", err)
	}
	return NewSessions(nb), nil
}

// build creates a signed token v1|playerID|unix using HMAC-SHA256 and URL-safe base64
func (s *Sessions) build(playerID string, exp time.Time) string {
	payload := strings.Join([]string{"v1", playerID, strconv.FormatInt(exp.Unix(), 10)}, "|")

	m := hmac.New(sha256.New, s.secret)
	m.Write([]byte(payload))
	sig := m.Sum(nil)

	return base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." + base64.RawURLEncoding.EncodeToString(sig)
}

// parse validates HMAC, version and expiry, and returns the decoded session
func (s *Sessions) parse(val string) (*Session, error) {
	parts := strings.Split(val, ".")
	if len(parts) != 2 {
		return nil, ErrBadToken
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, ErrBadToken
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, ErrBadToken
	}

	m := hmac.New(sha256.New, s.secret)
	m.Write(raw)
	if !hmac.Equal(m.Sum(nil), sig) {
		return nil, ErrBadToken
	}

	fs := strings.Split(string(raw), "|")
	if len(fs) != 3 || fs[0] != "v1" || fs[1] == "" {
		return nil, ErrBadToken
	}
	ux, err := strconv.ParseInt(fs[2], 10, 64)
	if err != nil {
		return nil, ErrBadToken
	}
	sess := &Session{PlayerID: fs[1], Expires: time.Unix(ux, 0)}
	if s.now().After(sess.Expires) {
		return nil, ErrExpired
	}
	return sess, nil
}

// setCookie sets the signed session cookie with HttpOnly, SameSite Lax, and a TLS-aware Secure flag
func setCookie(w http.ResponseWriter, r *http.Request, tok string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
		Expires:  exp,
	})
}

// PlayerID returns the player id of a valid session cookie
func (s *Sessions) PlayerID(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	sess, err := s.parse(c.Value)
	if err != nil {
		return "", false
	}
	return sess.PlayerID, true
}

// Issue starts a session for playerID and sets the cookie
func (s *Sessions) Issue(w http.ResponseWriter, r *http.Request, playerID string) *Session {
	exp := s.now().Add(s.ttl)
	setCookie(w, r, s.build(playerID, exp), exp)
	return &Session{PlayerID: playerID, Expires: exp}
}

// Ensure returns the current player id, issuing a session with a fresh id when there is none
func (s *Sessions) Ensure(w http.ResponseWriter, r *http.Request) string {
	if id, ok := s.PlayerID(r); ok {
		return id
	}
	return s.Issue(w, r, uuid.NewString()).PlayerID
}

// Clear removes the session cookie
func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
}
