package middleware

import (
	"net/http"

	"frontend-go/config"
	"frontend-go/models"
	"frontend-go/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionKey  = "session"
	roleKey     = "role"
	roleGateKey = "role_gate"
)

// LoadSession builds the request's Session from the cookie store. An expired
// token is cleared here so nothing downstream ever sees it.
func LoadSession(profile services.ProfileFetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := services.NewSession(services.NewCookieTokenStore(sessions.Default(c)), profile)
		if sess.Expired() {
			config.Log.WithField("path", c.FullPath()).Debug("dropping expired token")
			if err := sess.Logout(); err != nil {
				config.Log.Warn("cannot clear expired token: ", err)
			}
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// CurrentSession returns the Session set by LoadSession.
func CurrentSession(c *gin.Context) *services.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*services.Session); ok {
			return sess
		}
	}
	return nil
}

// RequireSession sends requests without a token back to the login view.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil || !sess.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ViewResponse{
				View:     "login",
				Redirect: "/login",
			})
			return
		}
		c.Next()
	}
}

// ResolveRole asks the backend for the caller's role on every mount. The
// result is never cached across requests.
func ResolveRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil {
			c.Next()
			return
		}
		snap := sess.GetRole(c.Request.Context())
		if snap.Rejected {
			if err := sess.Logout(); err != nil {
				config.Log.Warn("cannot clear rejected token: ", err)
			}
		}
		c.Set(roleKey, snap)
		c.Next()
	}
}

// AdvisoryAdmin records whether the resolved role would pass an admin gate.
// It never blocks; the backend re-checks every admin request.
func AdvisoryAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := CurrentRole(c)
		gate := "allowed"
		if !snap.IsAdmin() {
			gate = "advisory_denied"
			config.Log.WithField("role", snap.Role).Info("non-admin opened the admin panel")
		}
		c.Set(roleGateKey, gate)
		c.Next()
	}
}

// CurrentRole returns the snapshot stored by ResolveRole, or an unknown role
// fetched at the zero time.
func CurrentRole(c *gin.Context) services.RoleSnapshot {
	if v, ok := c.Get(roleKey); ok {
		if snap, ok := v.(services.RoleSnapshot); ok {
			return snap
		}
	}
	return services.RoleSnapshot{Role: models.RoleUnknown}
}

// RoleGate returns the advisory gate result, if one was recorded.
func RoleGate(c *gin.Context) string {
	return c.GetString(roleGateKey)
}
