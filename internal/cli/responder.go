package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/example/sereno-rh/internal/application"
	"github.com/example/sereno-rh/internal/export"
	"github.com/example/sereno-rh/internal/logging"
)

// Process exit codes.
const (
	ExitOK              = 0
	ExitFailure         = 1
	ExitUsage           = 2
	ExitUnauthenticated = 3
	ExitForbidden       = 4
	ExitNotFound        = 5
	ExitConflict        = 6
	ExitInvalid         = 7
)

type usageError struct {
	message string
}

func (e *usageError) Error() string {
	return e.message
}

func usageErrorf(format string, args ...any) error {
	return &usageError{message: fmt.Sprintf(format, args...)}
}

type responder struct {
	out     io.Writer
	errOut  io.Writer
	compact bool
	logger  *slog.Logger
}

func newResponder(out, errOut io.Writer, compact bool, logger *slog.Logger) responder {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	return responder{out: out, errOut: errOut, compact: compact, logger: defaultLogger(logger)}
}

func (r responder) writeJSON(ctx context.Context, payload any) int {
	if err := r.encode(r.out, payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode output", "error", err)
		return ExitFailure
	}
	return ExitOK
}

func (r responder) writeError(ctx context.Context, code int, resp errorResponse) int {
	if err := r.encode(r.errOut, resp); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode error output", "error", err)
	}
	return code
}

func (r responder) encode(w io.Writer, payload any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if !r.compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(payload)
}

func (r responder) handleError(ctx context.Context, err error) int {
	if err == nil {
		return r.writeError(ctx, ExitFailure, errorResponse{ErrorCode: "INTERNAL", Message: "Ocurrió un error inesperado."})
	}

	logger := r.loggerFor(ctx)
	var (
		usage *usageError
		vErr  *application.ValidationError
	)
	switch {
	case errors.As(err, &usage):
		return r.writeError(ctx, ExitUsage, errorResponse{ErrorCode: "USAGE", Message: usage.message})
	case errors.Is(err, ErrNoSession):
		return r.writeError(ctx, ExitUnauthenticated, errorResponse{ErrorCode: "AUTH_REQUIRED", Message: "Inicia sesión para continuar."})
	case errors.Is(err, application.ErrInvalidCredentials):
		return r.writeError(ctx, ExitUnauthenticated, errorResponse{ErrorCode: "AUTH_INVALID_CREDENTIALS", Message: "Correo o contraseña incorrectos."})
	case errors.Is(err, application.ErrSessionExpired):
		return r.writeError(ctx, ExitUnauthenticated, errorResponse{ErrorCode: "AUTH_SESSION_EXPIRED", Message: "La sesión expiró. Inicia sesión de nuevo."})
	case errors.Is(err, application.ErrAccountDisabled):
		return r.writeError(ctx, ExitUnauthenticated, errorResponse{ErrorCode: "AUTH_ACCOUNT_DISABLED", Message: "La cuenta está desactivada."})
	case errors.Is(err, application.ErrUnauthorized):
		return r.writeError(ctx, ExitForbidden, errorResponse{ErrorCode: "AUTH_FORBIDDEN", Message: "No tienes permiso para realizar esta acción."})
	case errors.Is(err, application.ErrNotFound):
		return r.writeError(ctx, ExitNotFound, errorResponse{ErrorCode: "NOT_FOUND", Message: "El recurso solicitado no existe."})
	case errors.Is(err, export.ErrNoData):
		return r.writeError(ctx, ExitNotFound, errorResponse{ErrorCode: "NO_DATA", Message: "No hay registros para exportar."})
	case errors.Is(err, application.ErrAlreadyCheckedOut):
		return r.writeError(ctx, ExitConflict, errorResponse{ErrorCode: "ALREADY_CHECKED_OUT", Message: "Ya registraste tu salida de hoy."})
	case errors.Is(err, application.ErrInsufficientPoints):
		return r.writeError(ctx, ExitConflict, errorResponse{ErrorCode: "INSUFFICIENT_POINTS", Message: "No tienes puntos suficientes para esta recompensa."})
	case errors.Is(err, application.ErrAlreadyExists):
		return r.writeError(ctx, ExitConflict, errorResponse{ErrorCode: "CONFLICT", Message: "El registro ya existe."})
	case errors.As(err, &vErr):
		return r.writeError(ctx, ExitInvalid, errorResponse{
			ErrorCode: "VALIDATION",
			Message:   "Revisa los datos ingresados.",
			Errors:    localizeValidationErrors(vErr),
		})
	default:
		logger.ErrorContext(ctx, "command failed", "error", err, "error_kind", application.ErrorKind(err))
		return r.writeError(ctx, ExitFailure, errorResponse{ErrorCode: "INTERNAL", Message: "Ocurrió un error inesperado."})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func localizeValidationErrors(vErr *application.ValidationError) map[string]string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return nil
	}

	translated := make(map[string]string, len(vErr.FieldErrors))
	for field, msg := range vErr.FieldErrors {
		translated[field] = translateValidationMessage(msg)
	}
	return translated
}

func translateValidationMessage(message string) string {
	switch message {
	case "name is required":
		return "El nombre es obligatorio."
	case "email is required":
		return "El correo es obligatorio."
	case "email is invalid":
		return "El correo no es válido."
	case "email is already in use":
		return "El correo ya está registrado."
	case "secret is required":
		return "La contraseña es obligatoria."
	case "administrators cannot deactivate their own account":
		return "No puedes desactivar tu propia cuenta."
	case "administrators cannot delete their own account":
		return "No puedes eliminar tu propia cuenta."
	case "employee is required":
		return "Selecciona un empleado."
	case "employee does not exist":
		return "El empleado no existe."
	case "month must be YYYY-MM or YYYY-MM-DD":
		return "El mes debe tener el formato AAAA-MM."
	case "description is required":
		return "La descripción es obligatoria."
	case "points required cannot be negative":
		return "Los puntos requeridos no pueden ser negativos."
	default:
		return strings.TrimSpace(message)
	}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
