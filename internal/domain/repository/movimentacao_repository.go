package repository

import (
	"time"

	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
)

// MovimentacaoFilter filtros do listado de movimentações. Codigo, Nome e
// Usuario são substring case-insensitive; DataInicio/DataFim delimitam o dia.
type MovimentacaoFilter struct {
	Codigo     string
	Nome       string
	Tipo       string
	Usuario    string
	DataInicio *time.Time
	DataFim    *time.Time
}

// MovimentacaoComProduto linha do listado com os dados do produto já
// resolvidos (join), como a tela de movimentações exibe.
type MovimentacaoComProduto struct {
	entity.Movimentacao
	ProdutoNome   string
	ProdutoCodigo string
}

// MovimentacaoRepository porto do razão unificado (append-only).
type MovimentacaoRepository interface {
	Create(m *entity.Movimentacao) error
	GetByID(id string) (*MovimentacaoComProduto, error)
	// List devolve as movimentações mais recentes primeiro, limitadas a limit.
	List(filter MovimentacaoFilter, limit int) ([]*MovimentacaoComProduto, error)
	ReassignUsuario(de, para string) error
}
