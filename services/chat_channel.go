package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"frontend-go/config"
	"frontend-go/models"

	"github.com/gorilla/websocket"
)

var (
	ErrAlreadyConnected = errors.New("chat channel already connected")
	ErrNotConnected     = errors.New("chat channel not connected")
	ErrSendDropped      = errors.New("chat send buffer full, message dropped")
	ErrDialAborted      = errors.New("chat channel disconnected while dialing")
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 65536
	sendBuffer     = 64
)

type ChatState int

const (
	ChatDisconnected ChatState = iota
	ChatConnected
)

func (s ChatState) String() string {
	if s == ChatConnected {
		return "connected"
	}
	return "disconnected"
}

// ChatOptions configures a ChatChannel. Handlers run on the read goroutine.
type ChatOptions struct {
	Dialer    *websocket.Dialer
	OnMessage func(models.ChatMessage)
	// OnClose fires when the remote side drops the connection, not on Disconnect.
	OnClose func()
}

// chatConn is one live connection; a channel gets a fresh one per Connect.
type chatConn struct {
	ws       *websocket.Conn
	send     chan []byte
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func (cc *chatConn) stop() {
	cc.stopOnce.Do(func() { close(cc.done) })
}

// ChatChannel is a single subscription to the backend's chat events. Sends are
// fire-and-forget: at most once, never acknowledged, never retried. A lost
// connection is not re-established.
type ChatChannel struct {
	url  string
	opts ChatOptions

	mu       sync.Mutex
	current  *chatConn
	messages []models.ChatMessage
	dialing  *pendingDial
}

// pendingDial is a Connect that has not finished its handshake yet.
type pendingDial struct {
	cancel context.CancelFunc
}

func NewChatChannel(url string, opts ChatOptions) *ChatChannel {
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}
	return &ChatChannel{url: url, opts: opts}
}

func (ch *ChatChannel) State() ChatState {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.current != nil {
		return ChatConnected
	}
	return ChatDisconnected
}

// Connect dials the realtime endpoint and starts relaying inbound events.
// The lock is not held while dialing, so State stays responsive; a
// Disconnect during the dial makes Connect fail with ErrDialAborted.
func (ch *ChatChannel) Connect(ctx context.Context) error {
	ch.mu.Lock()
	if ch.current != nil || ch.dialing != nil {
		ch.mu.Unlock()
		return ErrAlreadyConnected
	}
	dialCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	pd := &pendingDial{cancel: cancel}
	ch.dialing = pd
	ch.mu.Unlock()

	ws, _, err := ch.opts.Dialer.DialContext(dialCtx, ch.url, nil)

	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.dialing != pd {
		if ws != nil {
			ws.Close()
		}
		return ErrDialAborted
	}
	ch.dialing = nil
	if err != nil {
		return fmt.Errorf("dial chat %s: %w", ch.url, err)
	}

	cc := &chatConn{
		ws:   ws,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	ch.current = cc

	cc.wg.Add(2)
	go ch.writePump(cc)
	go ch.readPump(cc)

	config.Log.WithField("url", ch.url).Info("chat channel connected")
	return nil
}

// Disconnect closes the connection and waits for both pumps to exit.
// Calling it while disconnected is a no-op.
func (ch *ChatChannel) Disconnect() {
	ch.mu.Lock()
	cc := ch.current
	ch.current = nil
	if ch.dialing != nil {
		ch.dialing.cancel()
		ch.dialing = nil
	}
	ch.mu.Unlock()

	if cc == nil {
		return
	}
	cc.stop()
	cc.wg.Wait()
	config.Log.WithField("url", ch.url).Info("chat channel disconnected")
}

// Send queues a message for the backend and returns without waiting.
func (ch *ChatChannel) Send(msg models.ChatMessage) error {
	ch.mu.Lock()
	cc := ch.current
	ch.mu.Unlock()
	if cc == nil {
		return ErrNotConnected
	}

	frame, err := models.EncodeChatMessage(msg)
	if err != nil {
		return err
	}

	select {
	case <-cc.done:
		return ErrNotConnected
	default:
	}
	select {
	case cc.send <- frame:
		return nil
	default:
		return ErrSendDropped
	}
}

// Messages returns the relayed messages in arrival order.
func (ch *ChatChannel) Messages() []models.ChatMessage {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	out := make([]models.ChatMessage, len(ch.messages))
	copy(out, ch.messages)
	return out
}

func (ch *ChatChannel) readPump(cc *chatConn) {
	defer func() {
		cc.stop()
		cc.wg.Done()

		ch.mu.Lock()
		remote := ch.current == cc
		if remote {
			ch.current = nil
		}
		ch.mu.Unlock()

		if remote {
			config.Log.WithField("url", ch.url).Warn("chat channel closed by remote")
			if ch.opts.OnClose != nil {
				ch.opts.OnClose()
			}
		}
	}()

	cc.ws.SetReadLimit(maxMessageSize)
	cc.ws.SetReadDeadline(time.Now().Add(pongWait))
	cc.ws.SetPongHandler(func(string) error {
		cc.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := cc.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				select {
				case <-cc.done:
				default:
					config.Log.Warn("chat read error: ", err)
				}
			}
			return
		}
		ch.handleFrame(data)
	}
}

func (ch *ChatChannel) handleFrame(data []byte) {
	var ev models.ChatEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		config.Log.Debug("ignoring malformed chat frame: ", err)
		return
	}
	if ev.Event != models.EventChatMessage {
		return
	}
	var msg models.ChatMessage
	if err := json.Unmarshal(ev.Data, &msg); err != nil {
		config.Log.Debug("ignoring malformed chat message: ", err)
		return
	}

	ch.mu.Lock()
	ch.messages = append(ch.messages, msg)
	ch.mu.Unlock()

	if ch.opts.OnMessage != nil {
		ch.opts.OnMessage(msg)
	}
}

func (ch *ChatChannel) writePump(cc *chatConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cc.ws.Close()
		cc.wg.Done()
	}()

	for {
		select {
		case frame := <-cc.send:
			cc.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cc.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				cc.stop()
				return
			}

		case <-ticker.C:
			cc.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cc.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				cc.stop()
				return
			}

		case <-cc.done:
			cc.ws.SetWriteDeadline(time.Now().Add(writeWait))
			cc.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
