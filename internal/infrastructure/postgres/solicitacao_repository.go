package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vbeltrame/stockflow-api/internal/domain"
	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
	"github.com/vbeltrame/stockflow-api/internal/domain/repository"
)

var _ repository.SolicitacaoRepository = (*SolicitacaoRepo)(nil)

const solicitacaoColumns = `id, produto_id, quantidade, destino, status, solicitante, aprovador, data_aprovacao, created_at`

// SolicitacaoRepo implementação do porto SolicitacaoRepository sobre PostgreSQL.
type SolicitacaoRepo struct {
	q Querier
}

// NewSolicitacaoRepository constrói o adaptador de persistência de solicitações.
func NewSolicitacaoRepository(q Querier) *SolicitacaoRepo {
	return &SolicitacaoRepo{q: q}
}

// Create persiste uma nova solicitação.
func (r *SolicitacaoRepo) Create(s *entity.Solicitacao) error {
	query := `
		INSERT INTO solicitacoes (` + solicitacaoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.ProdutoID, s.Quantidade, s.Destino, s.Status,
		s.Solicitante, s.Aprovador, s.DataAprovacao, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert solicitacao: %w", err)
	}
	return nil
}

// GetByID busca uma solicitação por ID.
func (r *SolicitacaoRepo) GetByID(id string) (*entity.Solicitacao, error) {
	query := `SELECT ` + solicitacaoColumns + ` FROM solicitacoes WHERE id = $1`
	var s entity.Solicitacao
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.ProdutoID, &s.Quantidade, &s.Destino, &s.Status,
		&s.Solicitante, &s.Aprovador, &s.DataAprovacao, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get solicitacao: %w", err)
	}
	return &s, nil
}

// Decide fecha uma solicitação PENDENTE com o status terminal informado.
// A atualização é condicional: se a solicitação já saiu de PENDENTE em
// outra transação, nenhuma linha é afetada e volta ErrRequestNotFound.
func (r *SolicitacaoRepo) Decide(id, status, aprovador string, quando time.Time) error {
	query := `
		UPDATE solicitacoes
		SET status = $2, aprovador = $3, data_aprovacao = $4
		WHERE id = $1 AND status = 'PENDENTE'`
	cmd, err := r.q.Exec(context.Background(), query, id, status, aprovador, quando)
	if err != nil {
		return fmt.Errorf("decide solicitacao: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

// List lista solicitações, mais recentes primeiro, com filtro opcional
// por status.
func (r *SolicitacaoRepo) List(status string) ([]*entity.Solicitacao, error) {
	query := `SELECT ` + solicitacaoColumns + ` FROM solicitacoes`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list solicitacoes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Solicitacao
	for rows.Next() {
		var s entity.Solicitacao
		if err := rows.Scan(&s.ID, &s.ProdutoID, &s.Quantidade, &s.Destino, &s.Status,
			&s.Solicitante, &s.Aprovador, &s.DataAprovacao, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan solicitacao: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// ReassignUsuario troca o username nas colunas solicitante e aprovador
// (anonimização na exclusão de conta).
func (r *SolicitacaoRepo) ReassignUsuario(de, para string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx,
		`UPDATE solicitacoes SET solicitante = $2 WHERE solicitante = $1`, de, para); err != nil {
		return fmt.Errorf("reassign solicitante: %w", err)
	}
	if _, err := r.q.Exec(ctx,
		`UPDATE solicitacoes SET aprovador = $2 WHERE aprovador = $1`, de, para); err != nil {
		return fmt.Errorf("reassign aprovador: %w", err)
	}
	return nil
}
