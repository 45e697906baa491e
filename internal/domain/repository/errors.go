package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indica que el recurso solicitado no existe.
	ErrNotFound = errors.New("not found")

	// ErrConflict indica un conflicto (ej: duplicado, constraint violation).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indica que los datos de entrada son inválidos.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSlugTaken y ErrEmailTaken distinguen qué unicidad falló en Provision.
	// Ambos cumplen errors.Is(err, ErrConflict).
	ErrSlugTaken  = fmt.Errorf("%w: slug", ErrConflict)
	ErrEmailTaken = fmt.Errorf("%w: email", ErrConflict)
)

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict verifica si el error es ErrConflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
