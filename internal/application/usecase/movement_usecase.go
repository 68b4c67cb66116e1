package usecase

import (
	"github.com/vbeltrame/stockflow-api/internal/application/dto"
	"github.com/vbeltrame/stockflow-api/internal/domain"
	"github.com/vbeltrame/stockflow-api/internal/domain/repository"
)

// A tela de movimentações mostra no máximo as 100 mais recentes.
const movementListLimit = 100

// MovementUseCase consulta do razão unificado de movimentações.
type MovementUseCase struct {
	repo repository.MovimentacaoRepository
}

// NewMovementUseCase constrói o caso de uso.
func NewMovementUseCase(repo repository.MovimentacaoRepository) *MovementUseCase {
	return &MovementUseCase{repo: repo}
}

// List lista as movimentações mais recentes que casam com o filtro.
func (uc *MovementUseCase) List(filter repository.MovimentacaoFilter) ([]*dto.MovementResponse, error) {
	movs, err := uc.repo.List(filter, movementListLimit)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.ToMovementResponse(m))
	}
	return out, nil
}

// GetByID busca uma movimentação por ID.
func (uc *MovementUseCase) GetByID(id string) (*dto.MovementResponse, error) {
	mov, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToMovementResponse(mov), nil
}
