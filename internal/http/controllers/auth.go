// Package controllers adapta HTTP <-> servicios de dominio.
package controllers

import (
	"context"
	"net/http"

	"github.com/dropDatabas3/agencyhub/internal/auth"
	"github.com/dropDatabas3/agencyhub/internal/authz"
	httperrors "github.com/dropDatabas3/agencyhub/internal/http/errors"
	"github.com/dropDatabas3/agencyhub/internal/http/helpers"
	"github.com/dropDatabas3/agencyhub/internal/observability/logger"
)

// AuthService es lo que los controllers de auth necesitan del servicio.
type AuthService interface {
	SignupAgency(ctx context.Context, in auth.SignupRequest) (*auth.SignupResult, error)
	Login(ctx context.Context, in auth.LoginRequest) (*auth.LoginResult, error)
	Refresh(ctx context.Context, in auth.RefreshRequest) (*auth.TokenPair, error)
	Logout(ctx context.Context, in auth.LogoutRequest)
	LogoutAll(ctx context.Context, userID string) (int, error)
	Me(ctx context.Context, p authz.Principal) (*auth.UserInfo, *auth.TenantInfo, error)
}

type AuthController struct {
	svc AuthService
}

func NewAuthController(svc AuthService) *AuthController {
	return &AuthController{svc: svc}
}

// Signup: POST /v1/auth/signup
func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	var req auth.SignupRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	res, err := c.svc.SignupAgency(r.Context(), req)
	if err != nil {
		logFailure(r, "auth.signup", err)
		httperrors.WriteError(w, err)
		return
	}
	status := http.StatusCreated
	if res.Invite != nil {
		status = http.StatusAccepted
	}
	helpers.WriteJSON(w, status, res)
}

// Login: POST /v1/auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	res, err := c.svc.Login(r.Context(), req)
	if err != nil {
		logFailure(r, "auth.login", err)
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

// Refresh: POST /v1/auth/refresh
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	pair, err := c.svc.Refresh(r.Context(), req)
	if err != nil {
		logFailure(r, "auth.refresh", err)
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, pair)
}

// Logout: POST /v1/auth/logout. Siempre 204: no revela si el token existía.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	var req auth.LogoutRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		// body vacío o roto: no hay token que revocar, la respuesta es la misma
		logger.From(r.Context()).Debug("logout without readable body", logger.Err(err))
	}
	c.svc.Logout(r.Context(), req)
	w.WriteHeader(http.StatusNoContent)
}

type logoutAllResponse struct {
	Revoked int `json:"revoked"`
}

// LogoutAll: POST /v1/auth/logout-all (autenticado)
func (c *AuthController) LogoutAll(w http.ResponseWriter, r *http.Request) {
	p, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}
	n, err := c.svc.LogoutAll(r.Context(), p.SubjectID)
	if err != nil {
		logFailure(r, "auth.logout_all", err)
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, logoutAllResponse{Revoked: n})
}

type meResponse struct {
	User   *auth.UserInfo   `json:"user"`
	Tenant *auth.TenantInfo `json:"tenant,omitempty"`
}

// Me: GET /v1/auth/me (autenticado)
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}
	u, t, err := c.svc.Me(r.Context(), *p)
	if err != nil {
		logFailure(r, "auth.me", err)
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, meResponse{User: u, Tenant: t})
}

// logFailure loguea en error solo lo que termina en 5xx; el resto es flujo normal.
func logFailure(r *http.Request, op string, err error) {
	appErr := httperrors.FromError(err)
	log := logger.From(r.Context()).With(logger.Layer("controller"), logger.Op(op))
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Error("request failed", logger.Err(err))
		return
	}
	log.Debug("request rejected", logger.String("code", appErr.Code))
}
