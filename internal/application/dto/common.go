package dto

// ErrorResponse cuerpo de error HTTP. Code es el Kind estable del error de dominio.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DeletedResponse respuesta de borrados masivos.
type DeletedResponse struct {
	Deleted int64 `json:"deleted"`
}
