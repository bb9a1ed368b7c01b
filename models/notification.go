package models

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a transient message reporting the outcome of an action.
type Notification struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func Success(msg string) *Notification {
	return &Notification{Severity: SeveritySuccess, Message: msg}
}

func Failure(msg string) *Notification {
	return &Notification{Severity: SeverityError, Message: msg}
}

// ViewResponse is the document every view route returns.
type ViewResponse struct {
	View         string            `json:"view"`
	PageID       string            `json:"page_id,omitempty"`
	State        any               `json:"state,omitempty"`
	Notification *Notification     `json:"notification,omitempty"`
	FieldErrors  map[string]string `json:"field_errors,omitempty"`
	Redirect     string            `json:"redirect,omitempty"`
}
