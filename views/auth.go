package views

import (
	"context"

	"frontend-go/config"
	"frontend-go/models"
	"frontend-go/services"
)

// LoginView submits credentials and, on success, stores the token.
type LoginView struct {
	api *services.APIClient
}

func NewLoginView(api *services.APIClient) *LoginView {
	return &LoginView{api: api}
}

type LoginState struct {
	Role services.RoleSnapshot `json:"role"`
}

func (v *LoginView) Render() models.ViewResponse {
	return models.ViewResponse{View: "login"}
}

func (v *LoginView) Submit(ctx context.Context, sess *services.Session, creds models.Credentials) models.ViewResponse {
	resp := models.ViewResponse{View: "login"}
	if errs := services.Validate(creds); errs != nil {
		resp.FieldErrors = errs
		return resp
	}

	out, token := v.api.Login(ctx, creds)
	if !out.OK || token == "" {
		resp.Notification = failure(out, "Login failed")
		return resp
	}

	role, err := sess.Login(ctx, token)
	if err != nil {
		config.Log.Error("cannot persist session token: ", err)
		resp.Notification = models.Failure(models.MsgServerError)
		return resp
	}

	config.Log.WithField("username", creds.Username).Info("user logged in")
	resp.State = LoginState{Role: role}
	resp.Notification = models.Success("Login successful!")
	resp.Redirect = PathDashboard
	return resp
}

// RegisterView creates an account after the password passes every rule.
type RegisterView struct {
	api *services.APIClient
}

func NewRegisterView(api *services.APIClient) *RegisterView {
	return &RegisterView{api: api}
}

func (v *RegisterView) Render() models.ViewResponse {
	return models.ViewResponse{View: "register"}
}

func (v *RegisterView) Submit(ctx context.Context, reg models.Registration) models.ViewResponse {
	resp := models.ViewResponse{View: "register"}
	if errs := services.Validate(reg); errs != nil {
		resp.FieldErrors = errs
		return resp
	}

	out := v.api.Register(ctx, reg)
	if !out.OK {
		resp.Notification = failure(out, "Registration failed")
		return resp
	}

	resp.Notification = models.Success("Registration successful!")
	resp.Redirect = PathRoot
	return resp
}

// Logout drops the token and sends the user to the login view.
func Logout(sess *services.Session) models.ViewResponse {
	if err := sess.Logout(); err != nil {
		config.Log.Warn("cannot clear session: ", err)
	}
	return models.ViewResponse{View: "login", Redirect: PathLogin}
}
