package views

import (
	"context"

	"frontend-go/models"
	"frontend-go/services"
)

// AppointmentView lists the caller's appointments. Create and Update are
// followed by a full re-fetch; Delete only drops the entry from the local
// list once the backend confirms it.
type AppointmentView struct {
	base
	api   *services.APIClient
	items []models.Appointment
	form  models.AppointmentForm
	// snapshot overrides the rendered state for views that embed this one.
	snapshot func() any
}

type AppointmentState struct {
	Appointments []models.Appointment  `json:"appointments"`
	Form         models.AppointmentForm `json:"form"`
}

func NewAppointmentView(api *services.APIClient) *AppointmentView {
	return &AppointmentView{
		base:  base{name: "appointments"},
		api:   api,
		items: []models.Appointment{},
	}
}

func (v *AppointmentView) Mount(ctx context.Context, sess *services.Session) models.ViewResponse {
	v.act.Lock()
	defer v.act.Unlock()

	v.mu.Lock()
	v.mounted = true
	v.mu.Unlock()
	v.begin()

	out, items := v.api.Appointments(ctx, sess.Token())

	v.mu.Lock()
	defer v.mu.Unlock()
	v.applyListLocked(sess, out, items)
	return v.viewLocked()
}

// applyListLocked installs a fetched list. Anything but a successful array
// leaves an empty list behind.
func (v *AppointmentView) applyListLocked(sess *services.Session, out models.Outcome, items []models.Appointment) {
	if !v.mounted || v.rejectedLocked(sess, out) {
		return
	}
	if !out.OK {
		v.items = []models.Appointment{}
		if v.notification == nil {
			v.notification = failure(out, "Could not load appointments")
		}
		return
	}
	v.items = items
}

func (v *AppointmentView) Create(ctx context.Context, sess *services.Session, form models.AppointmentForm) models.ViewResponse {
	v.act.Lock()
	defer v.act.Unlock()
	v.begin()

	if errs := services.Validate(form); errs != nil {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.form = form
		v.fieldErrors = errs
		return v.viewLocked()
	}

	token := sess.Token()
	out := v.api.CreateAppointment(ctx, token, form)
	v.afterWrite(ctx, sess, out, "Appointment created!", "Could not create appointment", func() {
		v.form = models.AppointmentForm{}
	}, func() {
		v.form = form
	})

	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewLocked()
}

func (v *AppointmentView) Update(ctx context.Context, sess *services.Session, id int, form models.AppointmentForm) models.ViewResponse {
	v.act.Lock()
	defer v.act.Unlock()
	v.begin()

	if errs := services.Validate(form); errs != nil {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.fieldErrors = errs
		return v.viewLocked()
	}

	out := v.api.UpdateAppointment(ctx, sess.Token(), id, form)
	v.afterWrite(ctx, sess, out, "Appointment updated!", "Could not update appointment", nil, nil)

	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewLocked()
}

// afterWrite re-fetches the list after a successful write and records the
// outcome. onOK and onFail run under the state lock.
func (v *AppointmentView) afterWrite(ctx context.Context, sess *services.Session, out models.Outcome, okMsg, failMsg string, onOK, onFail func()) {
	var (
		listOut models.Outcome
		items   []models.Appointment
	)
	if out.OK {
		listOut, items = v.api.Appointments(ctx, sess.Token())
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted || v.rejectedLocked(sess, out) {
		return
	}
	if !out.OK {
		v.notification = failure(out, failMsg)
		if onFail != nil {
			onFail()
		}
		return
	}
	if onOK != nil {
		onOK()
	}
	v.notification = models.Success(okMsg)
	v.applyListLocked(sess, listOut, items)
}

// Delete removes exactly the entry with id from the local list after the
// backend confirms; no re-fetch follows.
func (v *AppointmentView) Delete(ctx context.Context, sess *services.Session, id int) models.ViewResponse {
	v.act.Lock()
	defer v.act.Unlock()
	v.begin()

	out := v.api.DeleteAppointment(ctx, sess.Token(), id)

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted || v.rejectedLocked(sess, out) {
		return v.viewLocked()
	}
	if !out.OK {
		v.notification = failure(out, "Could not delete appointment")
		return v.viewLocked()
	}
	v.items = withoutAppointment(v.items, id)
	v.notification = models.Success("Appointment deleted!")
	return v.viewLocked()
}

func withoutAppointment(items []models.Appointment, id int) []models.Appointment {
	out := make([]models.Appointment, 0, len(items))
	for _, a := range items {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

func (v *AppointmentView) Unmount() { v.unmount() }

func (v *AppointmentView) Response() models.ViewResponse {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewLocked()
}

func (v *AppointmentView) viewLocked() models.ViewResponse {
	if v.snapshot != nil {
		return v.responseLocked(v.snapshot())
	}
	return v.responseLocked(v.stateLocked())
}

func (v *AppointmentView) stateLocked() AppointmentState {
	items := make([]models.Appointment, len(v.items))
	copy(items, v.items)
	return AppointmentState{Appointments: items, Form: v.form}
}
