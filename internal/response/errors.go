package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTooManyAttempts    ErrCode = "TOO_MANY_ATTEMPTS"
	ErrUnauthenticated    ErrCode = "UNAUTHENTICATED"
	ErrWrongPassword      ErrCode = "WRONG_CURRENT_PASSWORD"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden        ErrCode = "FORBIDDEN"
	ErrProtectedAccount ErrCode = "PROTECTED_ACCOUNT"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation ErrCode = "VALIDATION_ERROR"
	ErrInvalidID  ErrCode = "INVALID_ID"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound      ErrCode = "NOT_FOUND"
	ErrUsernameTaken ErrCode = "USERNAME_TAKEN"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Usuario o contraseña incorrectos."
	case ErrTooManyAttempts:
		return "Demasiados intentos fallidos. Acceso bloqueado."
	case ErrUnauthenticated:
		return "Debe iniciar sesión para continuar."
	case ErrWrongPassword:
		return "La contraseña actual no es correcta."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "No autorizado."
	case ErrProtectedAccount:
		return "La cuenta principal no puede eliminarse ni modificarse por esta vía."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Datos incompletos o inválidos."
	case ErrInvalidID:
		return "Formato de ID inválido."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Recurso no encontrado."
	case ErrUsernameTaken:
		return "El usuario ya existe."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrUnsupportedFile:
		return "Tipo de archivo no soportado."
	case ErrFileTooLarge:
		return "El archivo supera el tamaño máximo."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Demasiadas solicitudes. Intente nuevamente más tarde."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Error interno del servidor."
	default:
		return "Ocurrió un error inesperado."
	}
}
