package controllers

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"frontend-go/config"
	"frontend-go/models"
	"frontend-go/services"
	"frontend-go/views"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const bridgeWriteWait = 10 * time.Second

func (ctl *Controller) Dashboard(c *gin.Context) {
	v := views.NewDashboardView(ctl.api, ctl.chatURL, ctl.dialer)
	sess, ok := ctl.mount(c, v)
	if !ok {
		return
	}
	respond(c, v.Mount(c.Request.Context(), sess))
}

// ChatSocket bridges the browser to the dashboard's chat channel. Messages
// relayed by the backend are pushed as chat_message envelopes; frames from
// the browser are sent as the current user. The channel is released when
// either side goes away; a page teardown closes the browser socket too.
// Traffic in both directions counts as page activity for the idle sweep.
func (ctl *Controller) ChatSocket(c *gin.Context) {
	v, sess, ok := page[*views.DashboardView](ctl, c)
	if !ok {
		return
	}
	owner, pageID := sess.ID(), c.Param("page")

	conn, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		config.Log.Warn("chat bridge upgrade failed: ", err)
		return
	}
	defer conn.Close()

	logger := config.Log.WithFields(logrus.Fields{"page": pageID})

	var (
		writeMu sync.Mutex
		once    sync.Once
		done    = make(chan struct{})
	)
	finish := func() { once.Do(func() { close(done) }) }

	push := func(msg models.ChatMessage) {
		ctl.pages.Touch(owner, pageID)
		frame, err := models.EncodeChatMessage(msg)
		if err != nil {
			return
		}
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(bridgeWriteWait))
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			finish()
		}
	}

	err = v.OpenChat(c.Request.Context(), views.ChatListener{OnMessage: push, OnClose: finish})
	if err != nil {
		logger.Warn("cannot open chat: ", err)
		reason := "chat unavailable"
		if errors.Is(err, services.ErrAlreadyConnected) {
			reason = "chat already open"
		}
		writeMu.Lock()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, reason),
			time.Now().Add(bridgeWriteWait))
		writeMu.Unlock()
		return
	}
	defer v.CloseChat()

	go func() {
		defer finish()
		for {
			var in models.ChatInput
			if err := conn.ReadJSON(&in); err != nil {
				return
			}
			ctl.pages.Touch(owner, pageID)
			if err := v.SendChat(in.Message); err != nil {
				logger.Warn("chat send failed: ", err)
			}
		}
	}()

	<-done
	writeMu.Lock()
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(bridgeWriteWait))
	writeMu.Unlock()
}

// SendChat posts one message on the page's open chat channel.
func (ctl *Controller) SendChat(c *gin.Context) {
	v, _, ok := page[*views.DashboardView](ctl, c)
	if !ok {
		return
	}
	var in models.ChatInput
	if !bindForm(c, &in) {
		return
	}
	switch err := v.SendChat(in.Message); {
	case errors.Is(err, services.ErrNotConnected):
		c.JSON(http.StatusConflict, gin.H{"error": "Chat is not connected"})
	case errors.Is(err, services.ErrSendDropped):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Chat is busy, message dropped"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.Status(http.StatusAccepted)
	}
}
