package entity

import "time"

// Tipos de movimentação do razão unificado.
const (
	TipoEntrada     = "ENTRADA"
	TipoSolicitacao = "SOLICITACAO"
	TipoAprovacao   = "APROVACAO"
	TipoRetirada    = "RETIRADA"
)

// Movimentacao é o razão unificado de todos os eventos que afetam estoque.
// ReferenciaID aponta para a Solicitacao quando o evento nasceu de uma
// (criação ou aprovação); fica vazio em entradas e retiradas diretas.
type Movimentacao struct {
	ID           string
	Tipo         string
	ProdutoID    string
	Quantidade   int
	Usuario      string
	ReferenciaID string
	Observacao   string
	DataHora     time.Time
}
