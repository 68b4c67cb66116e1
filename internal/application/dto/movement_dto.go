package dto

import (
	"time"

	"github.com/vbeltrame/stockflow-api/internal/domain/repository"
)

// MovementResponse linha do razão unificado com o produto resolvido.
type MovementResponse struct {
	ID           string    `json:"id"`
	Tipo         string    `json:"tipo"`
	Produto      string    `json:"produto"`
	Codigo       string    `json:"codigo"`
	Quantidade   int       `json:"quantidade"`
	Usuario      string    `json:"usuario"`
	ReferenciaID string    `json:"referencia_id,omitempty"`
	Observacao   string    `json:"observacao"`
	DataHora     time.Time `json:"data_hora"`
}

// ToMovementResponse converte a linha do repositório.
func ToMovementResponse(m *repository.MovimentacaoComProduto) *MovementResponse {
	if m == nil {
		return nil
	}
	return &MovementResponse{
		ID:           m.ID,
		Tipo:         m.Tipo,
		Produto:      m.ProdutoNome,
		Codigo:       m.ProdutoCodigo,
		Quantidade:   m.Quantidade,
		Usuario:      m.Usuario,
		ReferenciaID: m.ReferenciaID,
		Observacao:   m.Observacao,
		DataHora:     m.DataHora,
	}
}

// LogResponse linha da trilha de auditoria.
type LogResponse struct {
	ID       string    `json:"id"`
	Acao     string    `json:"acao"`
	Usuario  string    `json:"usuario"`
	Detalhes string    `json:"detalhes"`
	DataHora time.Time `json:"data_hora"`
}
