package repository

import (
	"time"

	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
)

// LogFilter filtros do visor de auditoria.
type LogFilter struct {
	Usuario    string
	Acao       string
	DataInicio *time.Time
	DataFim    *time.Time
}

// LogRepository porto da trilha de auditoria (append-only, sem retenção).
type LogRepository interface {
	Create(l *entity.LogEntry) error
	// List devolve uma página (mais recentes primeiro) e o total de registros
	// que casam com o filtro, para a paginação do visor.
	List(filter LogFilter, limit, offset int) ([]*entity.LogEntry, int, error)
	ReassignUsuario(de, para string) error
}
