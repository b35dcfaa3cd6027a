package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrOrderNotFound      = errors.New("el pedido no existe")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrOrderCompleted     = errors.New("el pedido ya fue completado")
)

// ItemNotFoundError indica que una línea referencia un artículo inexistente.
type ItemNotFoundError struct {
	ItemID string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("Artículo con ID '%s' no encontrado en el inventario.", e.ItemID)
}

// MalformedLineEntryError indica una línea sin referencia de artículo.
type MalformedLineEntryError struct {
	ItemName string
}

func (e *MalformedLineEntryError) Error() string {
	return fmt.Sprintf("Dato inconsistente: al artículo '%s' le falta su ID.", e.ItemName)
}

// InsufficientStockError indica que el stock disponible no cubre lo solicitado.
// Requested y Available permiten al caller construir mensajes precisos.
type InsufficientStockError struct {
	ItemID    string
	ItemName  string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	name := e.ItemName
	if name == "" {
		name = e.ItemID
	}
	return fmt.Sprintf("Stock insuficiente para '%s'. Se necesitan %d, hay %d.", name, e.Requested, e.Available)
}

// IsValidation reporta si err pertenece a la taxonomía de validación del motor
// de ajustes (el mensaje se muestra tal cual al usuario). Cualquier otro error
// se trata como fallo transitorio de la transacción.
func IsValidation(err error) bool {
	var itemNotFound *ItemNotFoundError
	var malformed *MalformedLineEntryError
	var insufficient *InsufficientStockError
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrOrderCompleted) ||
		errors.As(err, &itemNotFound) ||
		errors.As(err, &malformed) ||
		errors.As(err, &insufficient)
}
