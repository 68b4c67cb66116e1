package dto

// ErrorResponse corpo de erro HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse corpo de sucesso simples.
type MessageResponse struct {
	Message string `json:"message"`
}

// PageResponse metadados de página em respostas paginadas.
type PageResponse struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
