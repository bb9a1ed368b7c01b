package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"frontend-go/models"
	"frontend-go/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProfile struct {
	calls int
	role  string
}

func (s *stubProfile) Profile(ctx context.Context, token string) (models.Outcome, *models.User) {
	s.calls++
	return models.Outcome{OK: true, Status: http.StatusOK}, &models.User{ID: 1, Username: "alice", Role: s.role}
}

func newRouter(profile services.ProfileFetcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("session", cookie.NewStore([]byte("test-secret"))))
	r.Use(LoadSession(profile))
	r.POST("/token/:value", func(c *gin.Context) {
		_, err := CurrentSession(c).Login(c.Request.Context(), c.Param("value"))
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})
	return r
}

// loginCookie stores token through the router and returns the session cookie.
func loginCookie(t *testing.T, r *gin.Engine, token string) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/token/"+token, nil))
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[len(cookies)-1]
}

func TestRequireSession(t *testing.T) {
	r := newRouter(&stubProfile{role: models.RoleUser})
	r.GET("/private", RequireSession(), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentSession(c).Token())
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"view":"login","redirect":"/login"}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(loginCookie(t, r, "abc"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", w.Body.String())
}

func TestLoadSessionDropsExpiredToken(t *testing.T) {
	r := newRouter(&stubProfile{})
	r.GET("/state", func(c *gin.Context) {
		if CurrentSession(c).Authenticated() {
			c.String(http.StatusOK, "in")
			return
		}
		c.String(http.StatusOK, "out")
	})

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	req.AddCookie(loginCookie(t, r, expired))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "out", w.Body.String())
}

func TestResolveRoleIsAdvisory(t *testing.T) {
	profile := &stubProfile{role: models.RoleUser}
	r := newRouter(profile)
	r.GET("/admin", ResolveRole(), AdvisoryAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": CurrentRole(c).Role, "gate": RoleGate(c)})
	})
	cookie := loginCookie(t, r, "abc")
	calls := profile.calls

	for _, want := range []string{models.RoleUser, models.RoleAdmin} {
		profile.role = want
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, "the gate never blocks")
		gate := "advisory_denied"
		if want == models.RoleAdmin {
			gate = "allowed"
		}
		assert.JSONEq(t, `{"role":"`+want+`","gate":"`+gate+`"}`, w.Body.String())
	}
	assert.Equal(t, calls+2, profile.calls, "role is fetched on every mount")
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(0.001, 2)
	hits := 0
	r := gin.New()
	r.POST("/login", RateLimit(rl), func(c *gin.Context) {
		hits++
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 2, hits)
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return clock }

	rl.get("10.0.0.1")
	clock = clock.Add(2 * time.Minute)
	rl.get("10.0.0.2")
	clock = clock.Add(2 * time.Minute)
	rl.evict()

	assert.Len(t, rl.clients, 1)
	assert.Contains(t, rl.clients, "10.0.0.2")
}

type rejectingProfile struct{}

func (rejectingProfile) Profile(ctx context.Context, token string) (models.Outcome, *models.User) {
	return models.Outcome{Status: http.StatusUnauthorized}, nil
}

func TestResolveRoleDropsRejectedToken(t *testing.T) {
	r := newRouter(rejectingProfile{})
	r.GET("/dashboard", ResolveRole(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"authenticated": CurrentSession(c).Authenticated()})
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(loginCookie(t, r, "revoked"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())
}
