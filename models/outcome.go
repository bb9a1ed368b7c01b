package models

import (
	"encoding/json"
	"net/http"
)

// MsgServerError is shown whenever the backend could not be reached at all.
const MsgServerError = "Server error!"

// Outcome is the result of one backend call. Status is 0 when the request
// never got a response.
type Outcome struct {
	OK     bool            `json:"ok"`
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// NetworkOutcome is the client-synthesized result of a transport failure.
func NetworkOutcome() Outcome {
	return Outcome{OK: false, Status: 0, Data: json.RawMessage(`{"error":"` + MsgServerError + `"}`)}
}

func (o Outcome) NetworkError() bool {
	return !o.OK && o.Status == 0
}

func (o Outcome) Unauthorized() bool {
	return o.Status == http.StatusUnauthorized
}

// ErrorMessage prefers the backend's "error" field, then "message", then fallback.
func (o Outcome) ErrorMessage(fallback string) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if len(o.Data) > 0 && json.Unmarshal(o.Data, &body) == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return fallback
}

// Decode unmarshals the body into v.
func (o Outcome) Decode(v any) error {
	return json.Unmarshal(o.Data, v)
}
