package controllers

import (
	"frontend-go/middleware"
	"frontend-go/models"
	"frontend-go/views"

	"github.com/gin-gonic/gin"
)

// Admin mounts the admin panel. The resolved role is only shown, never
// enforced here.
func (ctl *Controller) Admin(c *gin.Context) {
	v := views.NewAdminPanelView(ctl.api, ctl.exporter)
	v.SetRole(middleware.CurrentRole(c))
	sess, ok := ctl.mount(c, v)
	if !ok {
		return
	}
	respond(c, v.Mount(c.Request.Context(), sess))
}

func (ctl *Controller) AdminCreateAppointment(c *gin.Context) {
	v, sess, ok := page[*views.AdminPanelView](ctl, c)
	if !ok {
		return
	}
	var form models.AppointmentForm
	if !bindForm(c, &form) {
		return
	}
	respond(c, v.Create(c.Request.Context(), sess, form))
}

func (ctl *Controller) AdminUpdateAppointment(c *gin.Context) {
	v, sess, ok := page[*views.AdminPanelView](ctl, c)
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

func (ctl *Controller) AdminDeleteAppointment(c *gin.Context) {
	v, sess, ok := page[*views.AdminPanelView](ctl, c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	respond(c, v.Delete(c.Request.Context(), sess, id))
}

func (ctl *Controller) ToggleUserRole(c *gin.Context) {
	v, sess, ok := page[*views.AdminPanelView](ctl, c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	respond(c, v.ToggleRole(c.Request.Context(), sess, id))
}

func (ctl *Controller) DeleteUser(c *gin.Context) {
	v, sess, ok := page[*views.AdminPanelView](ctl, c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	respond(c, v.DeleteUser(c.Request.Context(), sess, id))
}

func (ctl *Controller) ExportAppointments(c *gin.Context) {
	v, _, ok := page[*views.AdminPanelView](ctl, c)
	if !ok {
		return
	}
	respond(c, v.ExportAppointments(c.Request.Context()))
}
