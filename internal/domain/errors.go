package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Los mensajes forman parte del
// contrato con la capa de transporte, por eso van en inglés.
var (
	// ErrNotFound: id desconocido o perteneciente a otro tenant. El mismatch de
	// tenant se reporta igual que un no-encontrado para no filtrar existencia.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation: entrada malformada o que viola una regla de negocio.
	ErrValidation = errors.New("validation error")

	// ErrInvalidState: operación no permitida para el estado actual de la entidad.
	ErrInvalidState = errors.New("invalid state")
)

// Validationf envuelve ErrValidation con un mensaje con formato.
// errors.Is(err, ErrValidation) sigue funcionando sobre el resultado.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// InvalidStatef envuelve ErrInvalidState con un mensaje con formato.
func InvalidStatef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

// NotFoundf envuelve ErrNotFound con un mensaje con formato.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
