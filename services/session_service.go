package services

import (
	"context"
	"sync"
	"time"

	"frontend-go/config"
	"frontend-go/models"

	"github.com/gin-contrib/sessions"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenKey     = "token"
	SessionIDKey = "sid"
)

// TokenStore persists the single credential the client keeps.
type TokenStore interface {
	Token() string
	SetToken(token string) error
	ClearToken() error
	ID() string
}

// ProfileFetcher is the slice of the API client the session needs.
type ProfileFetcher interface {
	Profile(ctx context.Context, token string) (models.Outcome, *models.User)
}

// CookieTokenStore keeps the token in the gin-contrib cookie session.
type CookieTokenStore struct {
	s sessions.Session
}

func NewCookieTokenStore(s sessions.Session) *CookieTokenStore {
	return &CookieTokenStore{s: s}
}

func (c *CookieTokenStore) Token() string {
	tok, _ := c.s.Get(TokenKey).(string)
	return tok
}

func (c *CookieTokenStore) SetToken(token string) error {
	c.s.Set(TokenKey, token)
	return c.s.Save()
}

func (c *CookieTokenStore) ClearToken() error {
	c.s.Delete(TokenKey)
	return c.s.Save()
}

// ID returns the browser session id, minting one on first use.
func (c *CookieTokenStore) ID() string {
	if sid, ok := c.s.Get(SessionIDKey).(string); ok && sid != "" {
		return sid
	}
	sid := uuid.NewString()
	c.s.Set(SessionIDKey, sid)
	if err := c.s.Save(); err != nil {
		config.Log.Warn("cannot persist session id: ", err)
	}
	return sid
}

// RoleSnapshot is the role as the backend reported it at FetchedAt. It is
// authoritative only at that instant.
type RoleSnapshot struct {
	Role      string    `json:"role"`
	FetchedAt time.Time `json:"fetched_at"`
	// Rejected is set when the backend refused the token outright.
	Rejected bool `json:"-"`
}

func (r RoleSnapshot) IsAdmin() bool {
	return r.Role == models.RoleAdmin
}

// Session is the explicit session context handed to every view. The token is
// read from the store once, at construction, and only changes through Login
// and Logout.
type Session struct {
	store   TokenStore
	profile ProfileFetcher
	now     func() time.Time

	mu    sync.RWMutex
	token string
}

func NewSession(store TokenStore, profile ProfileFetcher) *Session {
	return &Session{
		store:   store,
		profile: profile,
		now:     time.Now,
		token:   store.Token(),
	}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// ID identifies the browser session that owns mounted views.
func (s *Session) ID() string {
	return s.store.ID()
}

// Login persists the token and immediately looks the role up.
func (s *Session) Login(ctx context.Context, token string) (RoleSnapshot, error) {
	if err := s.store.SetToken(token); err != nil {
		return RoleSnapshot{}, err
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return s.GetRole(ctx), nil
}

func (s *Session) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return s.store.ClearToken()
}

// GetRole asks the backend every time. Nothing is cached.
func (s *Session) GetRole(ctx context.Context) RoleSnapshot {
	snap := RoleSnapshot{Role: models.RoleUnknown, FetchedAt: s.now()}
	token := s.Token()
	if token == "" {
		return snap
	}
	out, user := s.profile.Profile(ctx, token)
	if out.Unauthorized() {
		snap.Rejected = true
		return snap
	}
	if user != nil {
		snap.Role = user.Role
	}
	return snap
}

// Expired reports whether the stored token carries an exp claim in the past.
// The signature is not verified; the backend stays the arbiter of validity,
// and a token that cannot be parsed is left for the backend to reject.
func (s *Session) Expired() bool {
	token := s.Token()
	if token == "" {
		return false
	}
	var claims models.TokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiredAt(s.now())
}
