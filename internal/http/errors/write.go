package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/clinicia-hq/clinicia-server/internal/auth"
	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

// errorResponse estructura interna para la serialización JSON.
// Nunca incluye stack traces ni contenido crudo de tokens.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// WriteError escribe una respuesta HTTP basada en el error proporcionado.
// Maneja *AppError, los sentinels de la capa auth y errores genéricos.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromAny(err)

	resp := errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(resp)
}

// FromAny mapea los sentinels de autorización a su AppError correspondiente
// antes de caer en el mapeo genérico. Este es el único lugar donde la
// taxonomía de auth se traduce a códigos HTTP.
func FromAny(err error) *AppError {
	switch {
	case stderrors.Is(err, auth.ErrUnauthenticated):
		return ErrUnauthenticated
	case stderrors.Is(err, auth.ErrUserNotProvisioned):
		return ErrUserNotProvisioned
	case stderrors.Is(err, auth.ErrForbidden):
		return ErrForbidden
	case stderrors.Is(err, auth.ErrStoreUnavailable):
		return ErrStoreUnavailable.WithCause(err)
	case stderrors.Is(err, core.ErrNotFound):
		return ErrNotFound
	case stderrors.Is(err, core.ErrConflict):
		return ErrConflict
	case stderrors.Is(err, core.ErrInvalid):
		return ErrBadRequest
	case stderrors.Is(err, core.ErrUnavailable):
		return ErrStoreUnavailable.WithCause(err)
	}
	return FromError(err)
}
