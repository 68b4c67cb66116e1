package repository

import (
	"time"

	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
)

// SolicitacaoRepository porto de persistência de solicitações de retirada.
type SolicitacaoRepository interface {
	Create(s *entity.Solicitacao) error
	GetByID(id string) (*entity.Solicitacao, error)
	// Decide fecha uma solicitação PENDENTE com o status terminal informado
	// (ATENDIDA ou REPROVADA). Atualização condicional: devolve
	// domain.ErrRequestNotFound se a solicitação não existe ou já saiu de
	// PENDENTE, protegendo contra decisões concorrentes.
	Decide(id, status, aprovador string, quando time.Time) error
	List(status string) ([]*entity.Solicitacao, error)
	ReassignUsuario(de, para string) error
}
