package entity

import "time"

// Entrada registra um acréscimo de estoque. Append-only.
type Entrada struct {
	ID          string
	ProdutoID   string
	Quantidade  int
	Usuario     string
	DataEntrada time.Time
}

// Saida registra uma baixa de estoque (retirada direta ou solicitação
// aprovada). Append-only.
type Saida struct {
	ID         string
	ProdutoID  string
	Quantidade int
	Destino    string
	Usuario    string
	DataSaida  time.Time
}
