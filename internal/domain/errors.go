package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrBackendUnavailable   = errors.New("backend no disponible")
	ErrValidationGate       = errors.New("operación bloqueada: falta motivo o líneas")
	ErrExceedsAvailable     = errors.New("cantidad solicitada supera el stock disponible")
	ErrIncompleteProductRef = errors.New("producto sin id de variación o de padre")
)
