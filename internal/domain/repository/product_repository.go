package repository

import "github.com/vbeltrame/stockflow-api/internal/domain/entity"

// ProductFilter filtros do listado de produtos (substring em codigo/nome).
type ProductFilter struct {
	Codigo string
	Nome   string
}

// ProductRepository porto de persistência de produtos.
// Quantidade só é alterada por UpdateQuantidade, sempre dentro de uma
// transação com a linha bloqueada via GetByCodigoForUpdate.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCodigo(codigo string) (*entity.Product, error)
	// GetByCodigoForUpdate bloqueia a linha do produto (SELECT ... FOR UPDATE)
	// para a sequência verificar-e-decrementar. Usar só dentro de transação.
	GetByCodigoForUpdate(codigo string) (*entity.Product, error)
	GetByIDForUpdate(id string) (*entity.Product, error)
	UpdateInfo(product *entity.Product) error
	UpdateQuantidade(id string, quantidade int) error
	List(filter ProductFilter) ([]*entity.Product, error)
	Delete(id string) error
}
