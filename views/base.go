// Package views holds the view controllers. Each view owns its local state,
// talks to the backend through the API client and renders itself as a
// models.ViewResponse. Views that outlive a single request are mounted in a
// Registry and released through Unmount.
package views

import (
	"sync"

	"frontend-go/config"
	"frontend-go/models"
	"frontend-go/services"
)

const (
	PathLogin     = "/login"
	PathRoot      = "/"
	PathDashboard = "/dashboard"
)

// Page is a mounted view.
type Page interface {
	Name() string
	Response() models.ViewResponse
	Unmount()
	setID(id string)
}

// base carries what every mounted view shares. act serializes actions on one
// page; mu guards the state and is never held across a backend call.
type base struct {
	name string
	act  sync.Mutex

	mu           sync.Mutex
	id           string
	mounted      bool
	notification *models.Notification
	fieldErrors  map[string]string
	redirect     string
}

func (b *base) Name() string { return b.name }

func (b *base) setID(id string) {
	b.mu.Lock()
	b.id = id
	b.mu.Unlock()
}

// begin clears the transient parts of the previous action.
func (b *base) begin() {
	b.mu.Lock()
	b.notification = nil
	b.fieldErrors = nil
	b.redirect = ""
	b.mu.Unlock()
}

// unmount marks the view dead; late responses are dropped from then on.
func (b *base) unmount() {
	b.mu.Lock()
	b.mounted = false
	b.mu.Unlock()
}

// responseLocked renders the view; b.mu must be held.
func (b *base) responseLocked(state any) models.ViewResponse {
	return models.ViewResponse{
		View:         b.name,
		PageID:       b.id,
		State:        state,
		Notification: b.notification,
		FieldErrors:  b.fieldErrors,
		Redirect:     b.redirect,
	}
}

// rejectedLocked handles a 401 by dropping the session and sending the user
// to the login view without a message. b.mu must be held.
func (b *base) rejectedLocked(sess *services.Session, out models.Outcome) bool {
	if !out.Unauthorized() {
		return false
	}
	if err := sess.Logout(); err != nil {
		config.Log.Warn("cannot clear rejected session: ", err)
	}
	b.notification = nil
	b.redirect = PathLogin
	return true
}

// failure picks the message for a failed outcome.
func failure(out models.Outcome, fallback string) *models.Notification {
	if out.NetworkError() {
		return models.Failure(models.MsgServerError)
	}
	return models.Failure(out.ErrorMessage(fallback))
}
