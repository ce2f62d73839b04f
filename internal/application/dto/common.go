package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []FieldDetail `json:"details,omitempty"`
}

// FieldDetail error de formato de un campo del cuerpo de la petición.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
