package models

import "encoding/json"

const EventChatMessage = "chat_message"

// ChatMessage is a single line in the live chat. Timestamp is only present on
// messages that come from the history endpoint.
type ChatMessage struct {
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ChatEvent is the envelope exchanged on the realtime channel.
type ChatEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// EncodeChatMessage wraps msg in a chat_message envelope.
func EncodeChatMessage(msg ChatMessage) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return json.Marshal(ChatEvent{Event: EventChatMessage, Data: data})
}

// ChatInput is what the browser sends over the dashboard chat bridge.
type ChatInput struct {
	Message string `json:"message" form:"message"`
}
