package controllers

import (
	"frontend-go/middleware"
	"frontend-go/models"
	"frontend-go/views"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) LoginPage(c *gin.Context) {
	respond(c, views.NewLoginView(ctl.api).Render())
}

// Login stores the token on success and points the client at the dashboard.
func (ctl *Controller) Login(c *gin.Context) {
	var creds models.Credentials
	if !bindForm(c, &creds) {
		return
	}
	sess := middleware.CurrentSession(c)
	respond(c, views.NewLoginView(ctl.api).Submit(c.Request.Context(), sess, creds))
}

func (ctl *Controller) RegisterPage(c *gin.Context) {
	respond(c, views.NewRegisterView(ctl.api).Render())
}

func (ctl *Controller) Register(c *gin.Context) {
	var reg models.Registration
	if !bindForm(c, &reg) {
		return
	}
	respond(c, views.NewRegisterView(ctl.api).Submit(c.Request.Context(), reg))
}

func (ctl *Controller) Logout(c *gin.Context) {
	respond(c, views.Logout(middleware.CurrentSession(c)))
}
