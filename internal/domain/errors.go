package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Las categorías (NotFound, Conflict, ...) se comprueban con errors.Is; los errores
// específicos envuelven su categoría.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrInvalidState = errors.New("transición de estado no permitida")

	ErrPriceMismatch     = errors.New("el precio del libro ha cambiado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrTotalMismatch     = errors.New("el total no coincide con la suma de los ítems")

	ErrUserNotFound    = kindOf(ErrNotFound, "usuario no encontrado")
	ErrBookNotFound    = kindOf(ErrNotFound, "libro no encontrado")
	ErrOrderNotFound   = kindOf(ErrNotFound, "pedido no encontrado")
	ErrPaymentNotFound = kindOf(ErrNotFound, "pago no encontrado")

	ErrUsernameAlreadyExists = kindOf(ErrConflict, "el nombre de usuario ya existe")
	ErrEmailAlreadyExists    = kindOf(ErrConflict, "el email ya está registrado")
	ErrDuplicateRequest      = kindOf(ErrConflict, "solicitud duplicada")
)

// kindError es un error con mensaje propio que pertenece a una categoría.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func kindOf(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}
