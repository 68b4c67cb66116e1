package entity

import "time"

// Product representa um produto do estoque.
// Quantidade só muda por movimentações (entrada, retirada, aprovação);
// Carencia é o limite de reposição usado nos relatórios.
type Product struct {
	ID         string
	Nome       string
	Quantidade int
	Local      string
	Codigo     string // único
	Carencia   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PrecisaCompra indica se o produto está no nível de reposição ou abaixo dele.
func (p *Product) PrecisaCompra() bool {
	return p.Quantidade <= p.Carencia
}
