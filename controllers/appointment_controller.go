package controllers

import (
	"frontend-go/models"
	"frontend-go/views"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) Appointments(c *gin.Context) {
	v := views.NewAppointmentView(ctl.api)
	sess, ok := ctl.mount(c, v)
	if !ok {
		return
	}
	respond(c, v.Mount(c.Request.Context(), sess))
}

func (ctl *Controller) CreateAppointment(c *gin.Context) {
	v, sess, ok := page[*views.AppointmentView](ctl, c)
	if !ok {
		return
	}
	var form models.AppointmentForm
	if !bindForm(c, &form) {
		return
	}
	respond(c, v.Create(c.Request.Context(), sess, form))
}

func (ctl *Controller) UpdateAppointment(c *gin.Context) {
	v, sess, ok := page[*views.AppointmentView](ctl, c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var form models.AppointmentForm
	if !bindForm(c, &form) {
		return
	}
	respond(c, v.Update(c.Request.Context(), sess, id, form))
}

func (ctl *Controller) DeleteAppointment(c *gin.Context) {
	v, sess, ok := page[*views.AppointmentView](ctl, c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	respond(c, v.Delete(c.Request.Context(), sess, id))
}
