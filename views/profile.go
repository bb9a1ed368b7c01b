package views

import (
	"context"

	"frontend-go/models"
	"frontend-go/services"
)

// ProfileView shows and edits the current user's profile.
type ProfileView struct {
	base
	api     *services.APIClient
	profile *models.User
}

type ProfileState struct {
	Profile *models.User `json:"profile"`
	// ShowAdminLink only decides what is rendered; the backend still checks
	// every admin request.
	ShowAdminLink bool `json:"show_admin_link"`
}

func NewProfileView(api *services.APIClient) *ProfileView {
	return &ProfileView{base: base{name: "profile"}, api: api}
}

func (v *ProfileView) Mount(ctx context.Context, sess *services.Session) models.ViewResponse {
	v.act.Lock()
	defer v.act.Unlock()

	v.mu.Lock()
	v.mounted = true
	v.mu.Unlock()
	v.begin()

	if !sess.Authenticated() {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.redirect = PathLogin
		return v.responseLocked(v.stateLocked())
	}

	out, user := v.api.Profile(ctx, sess.Token())

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted || v.rejectedLocked(sess, out) {
		return v.responseLocked(v.stateLocked())
	}
	if !out.OK || user == nil {
		v.notification = failure(out, "Could not load profile")
		v.redirect = PathRoot
		return v.responseLocked(v.stateLocked())
	}
	v.profile = user
	return v.responseLocked(v.stateLocked())
}

// Update saves the form and then re-reads the profile from the backend.
func (v *ProfileView) Update(ctx context.Context, sess *services.Session, form models.ProfileUpdate) models.ViewResponse {
	v.act.Lock()
	defer v.act.Unlock()
	v.begin()

	if errs := services.Validate(form); errs != nil {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.fieldErrors = errs
		return v.responseLocked(v.stateLocked())
	}

	token := sess.Token()
	out := v.api.UpdateProfile(ctx, token, form)
	var (
		reload models.Outcome
		user   *models.User
	)
	if out.OK {
		reload, user = v.api.Profile(ctx, token)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted || v.rejectedLocked(sess, out) {
		return v.responseLocked(v.stateLocked())
	}
	if !out.OK {
		v.notification = failure(out, "Could not update profile")
		return v.responseLocked(v.stateLocked())
	}
	if v.rejectedLocked(sess, reload) {
		return v.responseLocked(v.stateLocked())
	}
	if user != nil {
		v.profile = user
	}
	v.notification = models.Success("Profile updated!")
	return v.responseLocked(v.stateLocked())
}

func (v *ProfileView) Unmount() { v.unmount() }

func (v *ProfileView) Response() models.ViewResponse {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.responseLocked(v.stateLocked())
}

func (v *ProfileView) stateLocked() ProfileState {
	state := ProfileState{}
	if v.profile != nil {
		p := *v.profile
		state.Profile = &p
		state.ShowAdminLink = p.Role == models.RoleAdmin
	}
	return state
}
