package controllers

import (
	"net/http"

	"frontend-go/middleware"
	"frontend-go/views"

	"github.com/gin-gonic/gin"
)

// GetPage returns the current state of a mounted page.
func (ctl *Controller) GetPage(c *gin.Context) {
	v, _, ok := page[views.Page](ctl, c)
	if !ok {
		return
	}
	respond(c, v.Response())
}

// ClosePage unmounts a page and releases whatever it holds.
func (ctl *Controller) ClosePage(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if err := ctl.pages.Unmount(sess.ID(), c.Param("page")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
