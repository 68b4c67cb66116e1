package dto

import (
	"time"

	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
)

// CreateProductRequest cadastro de produto (codigo único).
type CreateProductRequest struct {
	Nome       string `json:"nome"`
	Quantidade int    `json:"quantidade"`
	Local      string `json:"local"`
	Codigo     string `json:"codigo"`
	Carencia   int    `json:"carencia"`
}

// UpdateProductRequest edição de produto. Quantidade não é editável aqui:
// muda apenas via movimentações. Carencia é ponteiro para distinguir
// "não enviado" de zero.
type UpdateProductRequest struct {
	Nome     string `json:"nome"`
	Local    string `json:"local"`
	Carencia *int   `json:"carencia"`
}

// ProductResponse produto no formato da API.
type ProductResponse struct {
	ID         string    `json:"id"`
	Nome       string    `json:"nome"`
	Quantidade int       `json:"quantidade"`
	Local      string    `json:"local"`
	Codigo     string    `json:"codigo"`
	Carencia   int       `json:"carencia"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToProductResponse converte a entidade.
func ToProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:         p.ID,
		Nome:       p.Nome,
		Quantidade: p.Quantidade,
		Local:      p.Local,
		Codigo:     p.Codigo,
		Carencia:   p.Carencia,
		CreatedAt:  p.CreatedAt,
	}
}
