package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"frontend-go/middleware"
	"frontend-go/models"
	"frontend-go/services"
	"frontend-go/views"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
)

// Controller serves the view routes. Mounted views live in the registry
// between requests.
type Controller struct {
	api      *services.APIClient
	pages    *views.Registry
	exporter *services.Exporter
	chatURL  string
	dialer   *websocket.Dialer
	upgrader websocket.Upgrader
}

type Options struct {
	API      *services.APIClient
	Pages    *views.Registry
	Exporter *services.Exporter
	ChatURL  string
	// Dialer reaches the backend chat endpoint; nil uses the default dialer.
	Dialer *websocket.Dialer
	// Origins lists the browser origins allowed on the chat bridge. Empty
	// accepts same-origin requests only.
	Origins []string
}

func New(opts Options) *Controller {
	services.RegisterValidators()
	ctl := &Controller{
		api:      opts.API,
		pages:    opts.Pages,
		exporter: opts.Exporter,
		chatURL:  opts.ChatURL,
		dialer:   opts.Dialer,
	}
	ctl.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if len(opts.Origins) > 0 {
		allowed := make(map[string]bool, len(opts.Origins))
		for _, o := range opts.Origins {
			allowed[o] = true
		}
		ctl.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed[origin]
		}
	}
	return ctl
}

// bindForm decodes the JSON body. Rule violations are left for the view to
// report as field errors; only undecodable bodies are rejected here.
func bindForm(c *gin.Context, form any) bool {
	err := c.ShouldBindJSON(form)
	var verrs validator.ValidationErrors
	if err == nil || errors.As(err, &verrs) {
		return true
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	return false
}

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

// respond writes a view document. Field errors use 422 so clients can tell a
// rejected form from a completed action.
func respond(c *gin.Context, resp models.ViewResponse) {
	status := http.StatusOK
	if len(resp.FieldErrors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, resp)
}

// page finds a mounted view of type T owned by the caller's session.
func page[T views.Page](ctl *Controller, c *gin.Context) (T, *services.Session, bool) {
	sess := middleware.CurrentSession(c)
	v, err := views.Lookup[T](ctl.pages, sess.ID(), c.Param("page"))
	if err != nil {
		var zero T
		c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
		return zero, sess, false
	}
	return v, sess, true
}

// mount registers v for the caller's session. A caller without a token is
// sent to the login view instead; nothing is mounted and the backend is not
// asked.
func (ctl *Controller) mount(c *gin.Context, v views.Page) (*services.Session, bool) {
	sess := middleware.CurrentSession(c)
	if !sess.Authenticated() {
		c.JSON(http.StatusOK, models.ViewResponse{View: v.Name(), Redirect: views.PathLogin})
		return sess, false
	}
	ctl.pages.Mount(sess.ID(), v)
	return sess, true
}
