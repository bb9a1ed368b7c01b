package views

import (
	"context"
	"errors"

	"frontend-go/models"
	"frontend-go/services"
)

const msgExportDisabled = "Export is not configured"

// AdminPanelView manages every user and every appointment. It shares the
// appointment actions with AppointmentView; the backend decides whether the
// caller may use any of them.
type AdminPanelView struct {
	AppointmentView
	exporter *services.Exporter
	users    []models.User
	role     services.RoleSnapshot
	export   string
}

type AdminPanelState struct {
	AppointmentState
	Users []models.User         `json:"users"`
	Role  services.RoleSnapshot `json:"role"`
	// LastExport is the object key of the most recent export.
	LastExport string `json:"last_export,omitempty"`
}

func NewAdminPanelView(api *services.APIClient, exporter *services.Exporter) *AdminPanelView {
	v := &AdminPanelView{
		AppointmentView: AppointmentView{
			base:  base{name: "admin"},
			api:   api,
			items: []models.Appointment{},
		},
		exporter: exporter,
		users:    []models.User{},
	}
	v.snapshot = func() any { return v.stateLocked() }
	return v
}

// SetRole records the role the router resolved for this mount. It only
// affects what is rendered.
func (v *AdminPanelView) SetRole(role services.RoleSnapshot) {
	v.mu.Lock()
	v.role = role
	v.mu.Unlock()
}

func (v *AdminPanelView) Mount(ctx context.Context, sess *services.Session) models.ViewResponse {
	v.act.Lock()
	defer v.act.Unlock()

	v.mu.Lock()
	v.mounted = true
	v.mu.Unlock()
	v.begin()

	token := sess.Token()
	listOut, items := v.api.Appointments(ctx, token)
	usersOut, users := v.api.Users(ctx, token)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.applyListLocked(sess, listOut, items)
	v.applyUsersLocked(sess, usersOut, users)
	return v.responseLocked(v.stateLocked())
}

func (v *AdminPanelView) applyUsersLocked(sess *services.Session, out models.Outcome, users []models.User) {
	if !v.mounted || v.rejectedLocked(sess, out) {
		return
	}
	if !out.OK {
		v.users = []models.User{}
		if v.notification == nil {
			v.notification = failure(out, "Could not load users")
		}
		return
	}
	v.users = users
}

// ToggleRole flips the user between user and admin, then re-reads the user
// list.
func (v *AdminPanelView) ToggleRole(ctx context.Context, sess *services.Session, userID int) models.ViewResponse {
	v.act.Lock()
	defer v.act.Unlock()
	v.begin()

	v.mu.Lock()
	target, ok := v.findUserLocked(userID)
	if !ok {
		v.notification = models.Failure("User not found")
		defer v.mu.Unlock()
		return v.responseLocked(v.stateLocked())
	}
	v.mu.Unlock()

	role := target.OppositeRole()
	token := sess.Token()
	out := v.api.SetUserRole(ctx, token, userID, role)
	var (
		usersOut models.Outcome
		users    []models.User
	)
	if out.OK {
		usersOut, users = v.api.Users(ctx, token)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted || v.rejectedLocked(sess, out) {
		return v.responseLocked(v.stateLocked())
	}
	if !out.OK {
		v.notification = failure(out, "Could not change role")
		return v.responseLocked(v.stateLocked())
	}
	if role == models.RoleAdmin {
		v.notification = models.Success("User promoted to admin!")
	} else {
		v.notification = models.Success("User demoted to user!")
	}
	v.applyUsersLocked(sess, usersOut, users)
	return v.responseLocked(v.stateLocked())
}

func (v *AdminPanelView) findUserLocked(id int) (models.User, bool) {
	for _, u := range v.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func (v *AdminPanelView) DeleteUser(ctx context.Context, sess *services.Session, userID int) models.ViewResponse {
	v.act.Lock()
	defer v.act.Unlock()
	v.begin()

	token := sess.Token()
	out := v.api.DeleteUser(ctx, token, userID)
	var (
		usersOut models.Outcome
		users    []models.User
	)
	if out.OK {
		usersOut, users = v.api.Users(ctx, token)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted || v.rejectedLocked(sess, out) {
		return v.responseLocked(v.stateLocked())
	}
	if !out.OK {
		v.notification = failure(out, "Could not delete user")
		return v.responseLocked(v.stateLocked())
	}
	v.notification = models.Success("User deleted!")
	v.applyUsersLocked(sess, usersOut, users)
	return v.responseLocked(v.stateLocked())
}

// ExportAppointments uploads the appointment list currently shown. An
// unmounted panel uploads nothing, and a result that arrives after unmount is
// dropped.
func (v *AdminPanelView) ExportAppointments(ctx context.Context) models.ViewResponse {
	v.act.Lock()
	defer v.act.Unlock()
	v.begin()

	v.mu.Lock()
	if !v.mounted {
		defer v.mu.Unlock()
		return v.responseLocked(v.stateLocked())
	}
	items := make([]models.Appointment, len(v.items))
	copy(items, v.items)
	v.mu.Unlock()

	key, err := v.exporter.ExportAppointments(ctx, items)

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted {
		return v.responseLocked(v.stateLocked())
	}
	switch {
	case errors.Is(err, services.ErrExportDisabled):
		v.notification = models.Failure(msgExportDisabled)
	case err != nil:
		v.notification = models.Failure("Export failed")
	default:
		v.export = key
		v.notification = models.Success("Appointments exported!")
	}
	return v.responseLocked(v.stateLocked())
}

func (v *AdminPanelView) Response() models.ViewResponse {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.responseLocked(v.stateLocked())
}

func (v *AdminPanelView) stateLocked() AdminPanelState {
	users := make([]models.User, len(v.users))
	copy(users, v.users)
	return AdminPanelState{
		AppointmentState: v.AppointmentView.stateLocked(),
		Users:            users,
		Role:             v.role,
		LastExport:       v.export,
	}
}
