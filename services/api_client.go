package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"frontend-go/config"
	"frontend-go/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// APIClient talks to the remote backend. It never retries and imposes no
// timeout of its own; the caller's context is the only way to cancel.
type APIClient struct {
	baseURL string
	http    *http.Client
}

func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &APIClient{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Request issues one call and folds every failure into the returned Outcome.
// A non-empty token is sent as a bearer credential.
func (a *APIClient) Request(ctx context.Context, method, path string, body any, token string) models.Outcome {
	reqID := uuid.NewString()
	logger := config.Log.WithFields(logrus.Fields{"method": method, "path": path, "request_id": reqID})

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			logger.Error("cannot encode request body: ", err)
			return models.NetworkOutcome()
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		logger.Error("cannot build request: ", err)
		return models.NetworkOutcome()
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		logger.Warn("backend unreachable: ", err)
		return models.NetworkOutcome()
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn("cannot read backend response: ", err)
		return models.NetworkOutcome()
	}

	out := models.Outcome{
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status: resp.StatusCode,
		Data:   json.RawMessage("null"),
	}
	if len(bytes.TrimSpace(raw)) > 0 && json.Valid(raw) {
		out.Data = raw
	}
	logger.WithField("status", resp.StatusCode).Debug("backend call finished")
	return out
}

func (a *APIClient) Login(ctx context.Context, creds models.Credentials) (models.Outcome, string) {
	out := a.Request(ctx, http.MethodPost, "/login", creds, "")
	var tok models.TokenResponse
	if out.OK {
		_ = out.Decode(&tok)
	}
	return out, tok.Token
}

func (a *APIClient) Register(ctx context.Context, reg models.Registration) models.Outcome {
	return a.Request(ctx, http.MethodPost, "/register", reg, "")
}

func (a *APIClient) Profile(ctx context.Context, token string) (models.Outcome, *models.User) {
	out := a.Request(ctx, http.MethodGet, "/profile", nil, token)
	if !out.OK {
		return out, nil
	}
	var u models.User
	if err := out.Decode(&u); err != nil {
		return out, nil
	}
	return out, &u
}

func (a *APIClient) UpdateProfile(ctx context.Context, token string, upd models.ProfileUpdate) models.Outcome {
	return a.Request(ctx, http.MethodPut, "/profile", upd, token)
}

func (a *APIClient) Dashboard(ctx context.Context, token string) (models.Outcome, string) {
	out := a.Request(ctx, http.MethodGet, "/dashboard", nil, token)
	var d models.DashboardResponse
	if out.OK {
		_ = out.Decode(&d)
	}
	return out, d.Message
}

// Messages fetches the chat history. The endpoint is unauthenticated.
func (a *APIClient) Messages(ctx context.Context) (models.Outcome, []models.ChatMessage) {
	out := a.Request(ctx, http.MethodGet, "/messages", nil, "")
	var msgs []models.ChatMessage
	if out.OK {
		_ = out.Decode(&msgs)
	}
	return out, msgs
}

// Appointments returns an empty list for anything that is not a JSON array.
func (a *APIClient) Appointments(ctx context.Context, token string) (models.Outcome, []models.Appointment) {
	out := a.Request(ctx, http.MethodGet, "/appointments", nil, token)
	list := []models.Appointment{}
	if out.OK {
		if err := out.Decode(&list); err != nil || list == nil {
			list = []models.Appointment{}
		}
	}
	return out, list
}

func (a *APIClient) CreateAppointment(ctx context.Context, token string, form models.AppointmentForm) models.Outcome {
	return a.Request(ctx, http.MethodPost, "/appointments", form, token)
}

func (a *APIClient) UpdateAppointment(ctx context.Context, token string, id int, form models.AppointmentForm) models.Outcome {
	return a.Request(ctx, http.MethodPut, fmt.Sprintf("/appointments/%d", id), form, token)
}

func (a *APIClient) DeleteAppointment(ctx context.Context, token string, id int) models.Outcome {
	return a.Request(ctx, http.MethodDelete, fmt.Sprintf("/appointments/%d", id), nil, token)
}

// Users lists every account. Admin only, enforced by the backend.
func (a *APIClient) Users(ctx context.Context, token string) (models.Outcome, []models.User) {
	out := a.Request(ctx, http.MethodGet, "/users", nil, token)
	list := []models.User{}
	if out.OK {
		if err := out.Decode(&list); err != nil || list == nil {
			list = []models.User{}
		}
	}
	return out, list
}

func (a *APIClient) SetUserRole(ctx context.Context, token string, id int, role string) models.Outcome {
	return a.Request(ctx, http.MethodPatch, fmt.Sprintf("/users/%d/role", id), models.RoleUpdate{Role: role}, token)
}

func (a *APIClient) DeleteUser(ctx context.Context, token string, id int) models.Outcome {
	return a.Request(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, token)
}
