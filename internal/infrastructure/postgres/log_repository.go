package postgres

import (
	"context"
	"fmt"

	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
	"github.com/vbeltrame/stockflow-api/internal/domain/repository"
)

var _ repository.LogRepository = (*LogRepo)(nil)

// LogRepo trilha de auditoria sobre PostgreSQL (append-only).
type LogRepo struct {
	q Querier
}

// NewLogRepository constrói o adaptador de persistência de logs.
func NewLogRepository(q Querier) *LogRepo {
	return &LogRepo{q: q}
}

// Create persiste um registro de auditoria.
func (r *LogRepo) Create(l *entity.LogEntry) error {
	query := `
		INSERT INTO logs (id, acao, usuario, detalhes, data_hora)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.Acao, l.Usuario, l.Detalhes, l.DataHora,
	)
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

// List devolve uma página de registros (mais recentes primeiro) e o total
// que casa com o filtro, para a paginação do visor.
func (r *LogRepo) List(filter repository.LogFilter, limit, offset int) ([]*entity.LogEntry, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if filter.Usuario != "" {
		args = append(args, "%"+filter.Usuario+"%")
		where += fmt.Sprintf(` AND usuario ILIKE $%d`, len(args))
	}
	if filter.Acao != "" {
		args = append(args, "%"+filter.Acao+"%")
		where += fmt.Sprintf(` AND acao ILIKE $%d`, len(args))
	}
	if filter.DataInicio != nil {
		args = append(args, *filter.DataInicio)
		where += fmt.Sprintf(` AND data_hora::date >= $%d::date`, len(args))
	}
	if filter.DataFim != nil {
		args = append(args, *filter.DataFim)
		where += fmt.Sprintf(` AND data_hora::date <= $%d::date`, len(args))
	}

	ctx := context.Background()
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM logs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count logs: %w", err)
	}

	args = append(args, limit)
	limitClause := fmt.Sprintf(` ORDER BY data_hora DESC LIMIT $%d`, len(args))
	args = append(args, offset)
	limitClause += fmt.Sprintf(` OFFSET $%d`, len(args))

	rows, err := r.q.Query(ctx, `SELECT id, acao, usuario, detalhes, data_hora FROM logs`+where+limitClause, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.LogEntry
	for rows.Next() {
		var l entity.LogEntry
		if err := rows.Scan(&l.ID, &l.Acao, &l.Usuario, &l.Detalhes, &l.DataHora); err != nil {
			return nil, 0, fmt.Errorf("scan log: %w", err)
		}
		list = append(list, &l)
	}
	return list, total, rows.Err()
}

// ReassignUsuario troca o username nos logs (anonimização).
func (r *LogRepo) ReassignUsuario(de, para string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE logs SET usuario = $2 WHERE usuario = $1`, de, para)
	if err != nil {
		return fmt.Errorf("reassign logs: %w", err)
	}
	return nil
}
