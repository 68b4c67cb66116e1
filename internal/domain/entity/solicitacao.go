package entity

import "time"

// Status de uma Solicitacao. APROVADA existe no vocabulário mas nunca é um
// estado de repouso: a aprovação executa a retirada no mesmo passo e grava
// ATENDIDA direto.
const (
	StatusPendente  = "PENDENTE"
	StatusAprovada  = "APROVADA"
	StatusReprovada = "REPROVADA"
	StatusAtendida  = "ATENDIDA"
)

// Solicitacao é um pedido de retirada de estoque aguardando aprovação.
// Ciclo de vida: PENDENTE -> ATENDIDA (aprovação + retirada) ou REPROVADA.
// Estados terminais não transicionam.
type Solicitacao struct {
	ID            string
	ProdutoID     string
	Quantidade    int
	Destino       string
	Status        string
	Solicitante   string // username de quem pediu
	Aprovador     string // username de quem decidiu; vazio enquanto PENDENTE
	DataAprovacao *time.Time
	CreatedAt     time.Time
}
