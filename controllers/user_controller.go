package controllers

import (
	"frontend-go/models"
	"frontend-go/views"

	"github.com/gin-gonic/gin"
)

// Profile mounts the profile view for the current user.
func (ctl *Controller) Profile(c *gin.Context) {
	v := views.NewProfileView(ctl.api)
	sess, ok := ctl.mount(c, v)
	if !ok {
		return
	}
	respond(c, v.Mount(c.Request.Context(), sess))
}

func (ctl *Controller) UpdateProfile(c *gin.Context) {
	v, sess, ok := page[*views.ProfileView](ctl, c)
	if !ok {
		return
	}
	var form models.ProfileUpdate
	if !bindForm(c, &form) {
		return
	}
	respond(c, v.Update(c.Request.Context(), sess, form))
}
