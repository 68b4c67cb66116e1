package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
	"github.com/vbeltrame/stockflow-api/internal/domain/repository"
)

var _ repository.MovimentacaoRepository = (*MovimentacaoRepo)(nil)

// MovimentacaoRepo razão unificado de movimentações sobre PostgreSQL.
type MovimentacaoRepo struct {
	q Querier
}

// NewMovimentacaoRepository constrói o adaptador de persistência de movimentações.
func NewMovimentacaoRepository(q Querier) *MovimentacaoRepo {
	return &MovimentacaoRepo{q: q}
}

// Create persiste uma movimentação.
func (r *MovimentacaoRepo) Create(m *entity.Movimentacao) error {
	query := `
		INSERT INTO movimentacoes (id, tipo, produto_id, quantidade, usuario, referencia_id, observacao, data_hora)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.Tipo, m.ProdutoID, m.Quantidade, m.Usuario, m.ReferenciaID, m.Observacao, m.DataHora,
	)
	if err != nil {
		return fmt.Errorf("insert movimentacao: %w", err)
	}
	return nil
}

const movimentacaoSelect = `
	SELECT m.id, m.tipo, m.produto_id, m.quantidade, m.usuario, m.referencia_id, m.observacao, m.data_hora,
	       p.nome, p.codigo
	FROM movimentacoes m
	JOIN products p ON p.id = m.produto_id`

// GetByID busca uma movimentação com os dados do produto resolvidos.
func (r *MovimentacaoRepo) GetByID(id string) (*repository.MovimentacaoComProduto, error) {
	var m repository.MovimentacaoComProduto
	err := r.q.QueryRow(context.Background(), movimentacaoSelect+` WHERE m.id = $1`, id).Scan(
		&m.ID, &m.Tipo, &m.ProdutoID, &m.Quantidade, &m.Usuario, &m.ReferenciaID, &m.Observacao, &m.DataHora,
		&m.ProdutoNome, &m.ProdutoCodigo,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimentacao: %w", err)
	}
	return &m, nil
}

// List lista as movimentações mais recentes, limitadas a limit, aplicando
// os filtros da tela (código/nome/usuário por substring, tipo exato e
// intervalo de dias).
func (r *MovimentacaoRepo) List(filter repository.MovimentacaoFilter, limit int) ([]*repository.MovimentacaoComProduto, error) {
	query := movimentacaoSelect + ` WHERE 1=1`
	args := []any{}
	if filter.Codigo != "" {
		args = append(args, "%"+filter.Codigo+"%")
		query += fmt.Sprintf(` AND p.codigo ILIKE $%d`, len(args))
	}
	if filter.Nome != "" {
		args = append(args, "%"+filter.Nome+"%")
		query += fmt.Sprintf(` AND p.nome ILIKE $%d`, len(args))
	}
	if filter.Tipo != "" {
		args = append(args, filter.Tipo)
		query += fmt.Sprintf(` AND m.tipo = $%d`, len(args))
	}
	if filter.Usuario != "" {
		args = append(args, "%"+filter.Usuario+"%")
		query += fmt.Sprintf(` AND m.usuario ILIKE $%d`, len(args))
	}
	if filter.DataInicio != nil {
		args = append(args, *filter.DataInicio)
		query += fmt.Sprintf(` AND m.data_hora::date >= $%d::date`, len(args))
	}
	if filter.DataFim != nil {
		args = append(args, *filter.DataFim)
		query += fmt.Sprintf(` AND m.data_hora::date <= $%d::date`, len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY m.data_hora DESC LIMIT $%d`, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movimentacoes: %w", err)
	}
	defer rows.Close()
	var list []*repository.MovimentacaoComProduto
	for rows.Next() {
		var m repository.MovimentacaoComProduto
		if err := rows.Scan(&m.ID, &m.Tipo, &m.ProdutoID, &m.Quantidade, &m.Usuario,
			&m.ReferenciaID, &m.Observacao, &m.DataHora, &m.ProdutoNome, &m.ProdutoCodigo); err != nil {
			return nil, fmt.Errorf("scan movimentacao: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// ReassignUsuario troca o username nas movimentações (anonimização).
func (r *MovimentacaoRepo) ReassignUsuario(de, para string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE movimentacoes SET usuario = $2 WHERE usuario = $1`, de, para)
	if err != nil {
		return fmt.Errorf("reassign movimentacoes: %w", err)
	}
	return nil
}
