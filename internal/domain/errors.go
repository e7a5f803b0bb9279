package domain

import "errors"

// ErrorKind código estable que viaja hasta el cliente.
type ErrorKind string

const (
	KindInvalidIdentity   ErrorKind = "INVALID_IDENTITY"
	KindRecordNotFound    ErrorKind = "RECORD_NOT_FOUND"
	KindInsufficientStock ErrorKind = "INSUFFICIENT_STOCK"
	KindInvalidState      ErrorKind = "INVALID_STATE"
	KindMissingField      ErrorKind = "MISSING_FIELD"
	KindInvalidAmount     ErrorKind = "INVALID_AMOUNT"
	KindForbidden         ErrorKind = "FORBIDDEN"
	KindUnauthorized      ErrorKind = "UNAUTHORIZED"
	KindStorageFailure    ErrorKind = "STORAGE_FAILURE"
)

// Error error de dominio con un Kind estable. Dos errores son equivalentes para
// errors.Is cuando comparten Kind, sin importar el mensaje.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidIdentity   = &Error{Kind: KindInvalidIdentity, Message: "identidad de stock inválida"}
	ErrRecordNotFound    = &Error{Kind: KindRecordNotFound, Message: "recurso no encontrado"}
	ErrInsufficientStock = &Error{Kind: KindInsufficientStock, Message: "stock insuficiente"}
	ErrInvalidState      = &Error{Kind: KindInvalidState, Message: "conflicto con el estado actual"}
	ErrMissingField      = &Error{Kind: KindMissingField, Message: "campo obligatorio ausente"}
	ErrInvalidAmount     = &Error{Kind: KindInvalidAmount, Message: "monto o cantidad inválida"}
	ErrForbidden         = &Error{Kind: KindForbidden, Message: "acceso denegado"}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized, Message: "no autorizado"}
	ErrStorageFailure    = &Error{Kind: KindStorageFailure, Message: "falla de almacenamiento"}
)

// Wrap devuelve un error del mismo Kind que base con un mensaje específico.
func Wrap(base *Error, message string) *Error {
	return &Error{Kind: base.Kind, Message: message}
}

// StorageFailure envuelve un error de infraestructura. Los errores de dominio pasan intactos.
func StorageFailure(err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: KindStorageFailure, Message: ErrStorageFailure.Message, Err: err}
}

// KindOf devuelve el Kind de err. Un error desconocido cuenta como falla de almacenamiento.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindStorageFailure
}
