package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrConflict: el email ya está registrado.
	ErrConflict = errors.New("email already registered")
	// ErrInvalidInput: faltan campos obligatorios.
	ErrInvalidInput = errors.New("missing required fields")
	// ErrInvalidCredentials es el único error visible de un login fallido.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidRefreshToken cubre token desconocido, vencido, revocado o reusado.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrUnknownUser: el principal apunta a un usuario que ya no existe.
	ErrUnknownUser = errors.New("unknown user")
	// ErrWeakPassword: la password no cumple la política; ver WeakPasswordError.
	ErrWeakPassword = errors.New("password does not meet policy")
)

// WeakPasswordError lleva los motivos de password.Policy.Validate.
type WeakPasswordError struct {
	Reasons []string
}

func (e *WeakPasswordError) Error() string {
	return ErrWeakPassword.Error() + ": " + strings.Join(e.Reasons, ", ")
}
func (e *WeakPasswordError) Is(target error) bool { return target == ErrWeakPassword }

// Causas internas de ErrInvalidCredentials. Nunca llegan al cliente.
var (
	errUserNotFound  = errors.New("user not found")
	errWrongPassword = errors.New("password mismatch")
	errUserInactive  = errors.New("user inactive")
)

// CredentialsError es un login fallido. Error() es siempre el mismo mensaje
// genérico; la causa real solo se expone vía Cause para logs.
type CredentialsError struct {
	cause             error
	RemainingAttempts int
}

func (e *CredentialsError) Error() string        { return ErrInvalidCredentials.Error() }
func (e *CredentialsError) Is(target error) bool { return target == ErrInvalidCredentials }
func (e *CredentialsError) Cause() error         { return e.cause }

// LockedError: la identidad está bloqueada por intentos fallidos.
type LockedError struct {
	Remaining time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account temporarily locked, retry in %ds", e.RetryAfterSeconds())
}

// RetryAfterSeconds redondea hacia arriba para no invitar a reintentar antes de tiempo.
func (e *LockedError) RetryAfterSeconds() int64 {
	s := int64(e.Remaining / time.Second)
	if e.Remaining%time.Second != 0 {
		s++
	}
	return s
}
