package postgres

import (
	"context"
	"fmt"

	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
	"github.com/vbeltrame/stockflow-api/internal/domain/repository"
)

var _ repository.EntradaRepository = (*EntradaRepo)(nil)
var _ repository.SaidaRepository = (*SaidaRepo)(nil)

// EntradaRepo razão de entradas sobre PostgreSQL (append-only).
type EntradaRepo struct {
	q Querier
}

// NewEntradaRepository constrói o adaptador de persistência de entradas.
func NewEntradaRepository(q Querier) *EntradaRepo {
	return &EntradaRepo{q: q}
}

// Create persiste uma entrada.
func (r *EntradaRepo) Create(e *entity.Entrada) error {
	query := `
		INSERT INTO entradas (id, produto_id, quantidade, usuario, data_entrada)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.ProdutoID, e.Quantidade, e.Usuario, e.DataEntrada,
	)
	if err != nil {
		return fmt.Errorf("insert entrada: %w", err)
	}
	return nil
}

// ListByProduto lista as entradas de um produto, mais recentes primeiro.
func (r *EntradaRepo) ListByProduto(produtoID string) ([]*entity.Entrada, error) {
	query := `
		SELECT id, produto_id, quantidade, usuario, data_entrada
		FROM entradas WHERE produto_id = $1 ORDER BY data_entrada DESC`
	rows, err := r.q.Query(context.Background(), query, produtoID)
	if err != nil {
		return nil, fmt.Errorf("list entradas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Entrada
	for rows.Next() {
		var e entity.Entrada
		if err := rows.Scan(&e.ID, &e.ProdutoID, &e.Quantidade, &e.Usuario, &e.DataEntrada); err != nil {
			return nil, fmt.Errorf("scan entrada: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// ReassignUsuario troca o username nas entradas (anonimização).
func (r *EntradaRepo) ReassignUsuario(de, para string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE entradas SET usuario = $2 WHERE usuario = $1`, de, para)
	if err != nil {
		return fmt.Errorf("reassign entradas: %w", err)
	}
	return nil
}

// SaidaRepo razão de saídas sobre PostgreSQL (append-only).
type SaidaRepo struct {
	q Querier
}

// NewSaidaRepository constrói o adaptador de persistência de saídas.
func NewSaidaRepository(q Querier) *SaidaRepo {
	return &SaidaRepo{q: q}
}

// Create persiste uma saída.
func (r *SaidaRepo) Create(s *entity.Saida) error {
	query := `
		INSERT INTO saidas (id, produto_id, quantidade, destino, usuario, data_saida)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.ProdutoID, s.Quantidade, s.Destino, s.Usuario, s.DataSaida,
	)
	if err != nil {
		return fmt.Errorf("insert saida: %w", err)
	}
	return nil
}

// ListByProduto lista as saídas de um produto, mais recentes primeiro.
func (r *SaidaRepo) ListByProduto(produtoID string) ([]*entity.Saida, error) {
	query := `
		SELECT id, produto_id, quantidade, destino, usuario, data_saida
		FROM saidas WHERE produto_id = $1 ORDER BY data_saida DESC`
	rows, err := r.q.Query(context.Background(), query, produtoID)
	if err != nil {
		return nil, fmt.Errorf("list saidas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Saida
	for rows.Next() {
		var s entity.Saida
		if err := rows.Scan(&s.ID, &s.ProdutoID, &s.Quantidade, &s.Destino, &s.Usuario, &s.DataSaida); err != nil {
			return nil, fmt.Errorf("scan saida: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// ReassignUsuario troca o username nas saídas (anonimização).
func (r *SaidaRepo) ReassignUsuario(de, para string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE saidas SET usuario = $2 WHERE usuario = $1`, de, para)
	if err != nil {
		return fmt.Errorf("reassign saidas: %w", err)
	}
	return nil
}
