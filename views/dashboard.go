package views

import (
	"context"
	"strings"

	"frontend-go/models"
	"frontend-go/services"

	"github.com/gorilla/websocket"
)

const msgDashboardUnreachable = "Could not reach the server"

// ChatListener receives chat activity for one open chat panel.
type ChatListener struct {
	OnMessage func(models.ChatMessage)
	OnClose   func()
}

// DashboardView shows the greeting and the live chat. It owns at most one
// chat channel, opened by OpenChat and released by CloseChat or Unmount.
type DashboardView struct {
	base
	api     *services.APIClient
	chatURL string
	dialer  *websocket.Dialer

	username string
	greeting string
	messages []models.ChatMessage
	chat     *services.ChatChannel
	listener ChatListener
}

type DashboardState struct {
	Username string               `json:"username"`
	Greeting string               `json:"greeting"`
	Messages []models.ChatMessage `json:"messages"`
	Chat     string               `json:"chat"`
}

func NewDashboardView(api *services.APIClient, chatURL string, dialer *websocket.Dialer) *DashboardView {
	return &DashboardView{
		base:    base{name: "dashboard"},
		api:     api,
		chatURL: chatURL,
		dialer:  dialer,
	}
}

// Mount loads the profile, the greeting and the chat history.
func (v *DashboardView) Mount(ctx context.Context, sess *services.Session) models.ViewResponse {
	v.act.Lock()
	defer v.act.Unlock()

	v.mu.Lock()
	v.mounted = true
	v.mu.Unlock()
	v.begin()

	if !sess.Authenticated() {
		return v.redirectTo(PathLogin)
	}

	token := sess.Token()
	profileOut, user := v.api.Profile(ctx, token)
	dashOut, greeting := v.api.Dashboard(ctx, token)
	_, history := v.api.Messages(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted {
		return v.responseLocked(v.stateLocked())
	}
	if v.rejectedLocked(sess, profileOut) || v.rejectedLocked(sess, dashOut) {
		return v.responseLocked(v.stateLocked())
	}
	if user != nil {
		v.username = user.Username
	}
	if dashOut.OK {
		v.greeting = greeting
	} else {
		v.greeting = msgDashboardUnreachable
	}
	if history == nil {
		history = []models.ChatMessage{}
	}
	v.messages = history
	return v.responseLocked(v.stateLocked())
}

func (v *DashboardView) redirectTo(path string) models.ViewResponse {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.redirect = path
	return v.responseLocked(v.stateLocked())
}

// OpenChat connects the view's chat channel. A second call while the channel
// is open fails with services.ErrAlreadyConnected.
func (v *DashboardView) OpenChat(ctx context.Context, l ChatListener) error {
	v.mu.Lock()
	if !v.mounted {
		v.mu.Unlock()
		return ErrPageNotFound
	}
	if v.chat != nil {
		v.mu.Unlock()
		return services.ErrAlreadyConnected
	}
	var ch *services.ChatChannel
	ch = services.NewChatChannel(v.chatURL, services.ChatOptions{
		Dialer: v.dialer,
		OnMessage: func(msg models.ChatMessage) {
			v.appendMessage(msg)
			if l.OnMessage != nil {
				l.OnMessage(msg)
			}
		},
		OnClose: func() {
			v.dropChat(ch)
			if l.OnClose != nil {
				l.OnClose()
			}
		},
	})
	v.chat = ch
	v.listener = l
	v.mu.Unlock()

	if err := ch.Connect(ctx); err != nil {
		v.dropChat(ch)
		return err
	}

	// unmounted while dialing; a remote close may also have cleared v.chat
	// by now, which is not an error
	v.mu.Lock()
	released := !v.mounted
	if released && v.chat == ch {
		v.chat = nil
		v.listener = ChatListener{}
	}
	v.mu.Unlock()
	if released {
		ch.Disconnect()
		return ErrPageNotFound
	}
	return nil
}

func (v *DashboardView) appendMessage(msg models.ChatMessage) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mounted {
		v.messages = append(v.messages, msg)
	}
}

func (v *DashboardView) dropChat(ch *services.ChatChannel) {
	v.mu.Lock()
	if v.chat == ch {
		v.chat = nil
		v.listener = ChatListener{}
	}
	v.mu.Unlock()
}

// SendChat emits a message as the current user. Blank input is ignored. The
// message shows up in the list only once the backend relays it back.
func (v *DashboardView) SendChat(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	v.mu.Lock()
	ch := v.chat
	msg := models.ChatMessage{Username: v.username, Message: text}
	v.mu.Unlock()

	if ch == nil {
		return services.ErrNotConnected
	}
	return ch.Send(msg)
}

// CloseChat releases the chat channel, if any, and tells the listener the
// panel is gone. Teardown paths (unmount, idle sweep, shutdown) all end here.
func (v *DashboardView) CloseChat() {
	v.mu.Lock()
	ch, l := v.chat, v.listener
	v.chat = nil
	v.listener = ChatListener{}
	v.mu.Unlock()

	if ch == nil {
		return
	}
	ch.Disconnect()
	if l.OnClose != nil {
		l.OnClose()
	}
}

func (v *DashboardView) Unmount() {
	v.unmount()
	v.CloseChat()
}

func (v *DashboardView) Response() models.ViewResponse {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.responseLocked(v.stateLocked())
}

func (v *DashboardView) stateLocked() DashboardState {
	state := DashboardState{
		Username: v.username,
		Greeting: v.greeting,
		Messages: make([]models.ChatMessage, len(v.messages)),
		Chat:     services.ChatDisconnected.String(),
	}
	copy(state.Messages, v.messages)
	if v.chat != nil {
		state.Chat = v.chat.State().String()
	}
	return state
}
