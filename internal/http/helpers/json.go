// Package helpers agrupa utilidades de request/response JSON.
package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	httperrors "github.com/dropDatabas3/agencyhub/internal/http/errors"
)

// MaxBodyBytes limita el tamaño de los bodies JSON.
const MaxBodyBytes = 1 << 20

// ReadJSON decodifica el body en dst. Rechaza campos desconocidos y basura
// después del objeto.
func ReadJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return httperrors.ErrBadRequest.WithDetail("request body too large").WithCause(err)
		case errors.Is(err, io.EOF):
			return httperrors.ErrInvalidJSON.WithDetail("empty body").WithCause(err)
		default:
			return httperrors.ErrInvalidJSON.WithCause(err)
		}
	}
	if dec.More() {
		return httperrors.ErrInvalidJSON.WithDetail("unexpected data after JSON object")
	}
	return nil
}

// WriteJSON escribe v como JSON con el status dado.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}
