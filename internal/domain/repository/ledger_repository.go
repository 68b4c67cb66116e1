package repository

import "github.com/vbeltrame/stockflow-api/internal/domain/entity"

// EntradaRepository porto do razão de entradas (append-only).
type EntradaRepository interface {
	Create(e *entity.Entrada) error
	ListByProduto(produtoID string) ([]*entity.Entrada, error)
	ReassignUsuario(de, para string) error
}

// SaidaRepository porto do razão de saídas (append-only).
type SaidaRepository interface {
	Create(s *entity.Saida) error
	ListByProduto(produtoID string) ([]*entity.Saida, error)
	ReassignUsuario(de, para string) error
}
