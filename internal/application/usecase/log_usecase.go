package usecase

import (
	"github.com/vbeltrame/stockflow-api/internal/application/dto"
	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
	"github.com/vbeltrame/stockflow-api/internal/domain/repository"
)

// O visor de auditoria pagina de 25 em 25 registros.
const logsPerPage = 25

// LogUseCase consulta paginada da trilha de auditoria.
type LogUseCase struct {
	repo repository.LogRepository
}

// NewLogUseCase constrói o caso de uso.
func NewLogUseCase(repo repository.LogRepository) *LogUseCase {
	return &LogUseCase{repo: repo}
}

// LogPage uma página da trilha, mais recentes primeiro.
type LogPage struct {
	Entries []*dto.LogResponse `json:"entries"`
	Page    dto.PageResponse   `json:"page"`
}

// List devolve a página pedida (a primeira é 1).
func (uc *LogUseCase) List(filter repository.LogFilter, page int) (*LogPage, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * logsPerPage
	entries, total, err := uc.repo.List(filter, logsPerPage, offset)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.LogResponse, 0, len(entries))
	for _, l := range entries {
		out = append(out, toLogResponse(l))
	}
	totalPages := (total + logsPerPage - 1) / logsPerPage
	if totalPages == 0 {
		totalPages = 1
	}
	return &LogPage{
		Entries: out,
		Page: dto.PageResponse{
			Page:       page,
			PerPage:    logsPerPage,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

func toLogResponse(l *entity.LogEntry) *dto.LogResponse {
	return &dto.LogResponse{
		ID:       l.ID,
		Acao:     l.Acao,
		Usuario:  l.Usuario,
		Detalhes: l.Detalhes,
		DataHora: l.DataHora,
	}
}
