package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dropDatabas3/agencyhub/internal/auth"
	"github.com/dropDatabas3/agencyhub/internal/authz"
	"github.com/dropDatabas3/agencyhub/internal/domain/repository"
	jwtx "github.com/dropDatabas3/agencyhub/internal/jwt"
)

// errorResponse controla exactamente qué campos ve el cliente.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// WriteError escribe la respuesta HTTP para err (AppError o error de dominio).
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if appErr.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.FormatInt(appErr.RetryAfter, 10))
	}
	if appErr.HTTPStatus == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="agencyhub"`)
	}
	w.WriteHeader(appErr.HTTPStatus)

	_ = json.NewEncoder(w).Encode(errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	})
}

// FromError traduce errores de las capas de dominio a AppError. Lo que no se
// reconoce es un 500 que conserva la causa.
func FromError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var locked *auth.LockedError
	if stderrors.As(err, &locked) {
		return ErrAccountLocked.
			WithDetail(fmt.Sprintf("retry in %d seconds", locked.RetryAfterSeconds())).
			WithRetryAfter(locked.RetryAfterSeconds()).
			WithCause(err)
	}

	var creds *auth.CredentialsError
	if stderrors.As(err, &creds) {
		// el detalle solo dice cuántos intentos quedan, nunca la causa
		return ErrInvalidCredentials.
			WithDetail(fmt.Sprintf("%d attempts remaining", creds.RemainingAttempts)).
			WithCause(err)
	}

	var weak *auth.WeakPasswordError
	if stderrors.As(err, &weak) {
		return ErrWeakPassword.WithDetail(strings.Join(weak.Reasons, ",")).WithCause(err)
	}

	var forbidden *authz.ForbiddenError
	if stderrors.As(err, &forbidden) {
		d := forbidden.Reason
		if forbidden.Reason == authz.ReasonRole && len(forbidden.RequiredRoles) > 0 {
			roles := make([]string, len(forbidden.RequiredRoles))
			for i, r := range forbidden.RequiredRoles {
				roles[i] = string(r)
			}
			d += ": requires one of " + strings.Join(roles, ", ")
		}
		return ErrForbidden.WithDetail(d).WithCause(err)
	}

	switch {
	case stderrors.Is(err, auth.ErrInvalidCredentials):
		return ErrInvalidCredentials.WithCause(err)
	case stderrors.Is(err, auth.ErrInvalidRefreshToken):
		return ErrTokenInvalid.WithDetail("invalid or expired refresh token").WithCause(err)
	case stderrors.Is(err, jwtx.ErrInvalidToken):
		return ErrTokenInvalid.WithCause(err)
	case stderrors.Is(err, auth.ErrUnknownUser):
		return ErrUnauthorized.WithCause(err)
	case stderrors.Is(err, auth.ErrConflict):
		return ErrConflict.WithDetail("email already registered").WithCause(err)
	case stderrors.Is(err, auth.ErrInvalidInput), stderrors.Is(err, repository.ErrInvalidInput):
		return ErrMissingFields.WithCause(err)
	case stderrors.Is(err, authz.ErrForbidden):
		return ErrForbidden.WithCause(err)
	case stderrors.Is(err, repository.ErrNotFound):
		return ErrNotFound.WithCause(err)
	case stderrors.Is(err, repository.ErrConflict):
		return ErrConflict.WithCause(err)
	}
	return ErrInternalServerError.WithCause(err)
}
