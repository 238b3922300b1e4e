package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrInvalidQuantity = errors.New("la cantidad resultante sería negativa")
	ErrDuplicate       = errors.New("recurso duplicado")
	ErrConflict        = errors.New("conflicto con el estado actual")
	ErrConcurrency     = errors.New("conflicto de concurrencia, reintentar")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrForbidden       = errors.New("acceso denegado")
)

// ValidationError señala qué campo de la petición es inválido.
// Unwrap devuelve ErrInvalidInput para que errors.Is funcione entre capas.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validación: campo %q: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye un ValidationError.
func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// BatchError señala la primera petición fallida de un lote (índice base 0).
// El lote completo se revierte: ningún cambio del lote queda aplicado.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("lote rechazado en la petición %d: %v (ningún cambio aplicado)", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }
