package dto

import (
	"time"

	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
)

// CreateRequestRequest abertura de solicitação de retirada.
type CreateRequestRequest struct {
	Codigo     string `json:"codigo"`
	Quantidade int    `json:"quantidade"`
	Destino    string `json:"destino"`
}

// StockEntryRequest entrada de estoque.
type StockEntryRequest struct {
	Codigo     string `json:"codigo"`
	Quantidade int    `json:"quantidade"`
}

// WithdrawalRequest retirada direta (sem solicitação prévia).
type WithdrawalRequest struct {
	Codigo     string `json:"codigo"`
	Quantidade int    `json:"quantidade"`
	Destino    string `json:"destino"`
}

// SolicitacaoResponse solicitação no formato da API.
type SolicitacaoResponse struct {
	ID            string     `json:"id"`
	ProdutoID     string     `json:"produto_id"`
	Quantidade    int        `json:"quantidade"`
	Destino       string     `json:"destino"`
	Status        string     `json:"status"`
	Solicitante   string     `json:"solicitante"`
	Aprovador     string     `json:"aprovador,omitempty"`
	DataAprovacao *time.Time `json:"data_aprovacao,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToSolicitacaoResponse converte a entidade.
func ToSolicitacaoResponse(s *entity.Solicitacao) *SolicitacaoResponse {
	if s == nil {
		return nil
	}
	return &SolicitacaoResponse{
		ID:            s.ID,
		ProdutoID:     s.ProdutoID,
		Quantidade:    s.Quantidade,
		Destino:       s.Destino,
		Status:        s.Status,
		Solicitante:   s.Solicitante,
		Aprovador:     s.Aprovador,
		DataAprovacao: s.DataAprovacao,
		CreatedAt:     s.CreatedAt,
	}
}
