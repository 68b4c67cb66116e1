package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vbeltrame/stockflow-api/internal/application/dto"
	"github.com/vbeltrame/stockflow-api/internal/domain"
	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
	"github.com/vbeltrame/stockflow-api/internal/domain/repository"
)

// ProductUseCase CRUD de produtos. Quantidade não é editada aqui: só muda
// via entradas, retiradas e aprovações de solicitação.
type ProductUseCase struct {
	repo    repository.ProductRepository
	logRepo repository.LogRepository
}

// NewProductUseCase constrói o caso de uso.
func NewProductUseCase(repo repository.ProductRepository, logRepo repository.LogRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, logRepo: logRepo}
}

// Create cadastra um produto com código único.
func (uc *ProductUseCase) Create(usuario string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Nome == "" || in.Codigo == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantidade < 0 || in.Carencia < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCodigo(in.Codigo)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrCodigoTaken
	}

	now := time.Now()
	product := &entity.Product{
		ID:         uuid.New().String(),
		Nome:       in.Nome,
		Quantidade: in.Quantidade,
		Local:      in.Local,
		Codigo:     in.Codigo,
		Carencia:   in.Carencia,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}

	_ = uc.logRepo.Create(&entity.LogEntry{
		ID:       uuid.New().String(),
		Acao:     "Produto cadastrado",
		Usuario:  usuario,
		Detalhes: fmt.Sprintf("Cadastrou produto: %s (Código: %s)", product.Nome, product.Codigo),
		DataHora: now,
	})
	return dto.ToProductResponse(product), nil
}

// GetByID busca um produto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return dto.ToProductResponse(product), nil
}

// GetByCodigo busca um produto pelo código.
func (uc *ProductUseCase) GetByCodigo(codigo string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByCodigo(codigo)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return dto.ToProductResponse(product), nil
}

// Update edita nome, local e carência. Código e quantidade ficam de fora.
func (uc *ProductUseCase) Update(usuario, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	if in.Nome != "" {
		product.Nome = in.Nome
	}
	if in.Local != "" {
		product.Local = in.Local
	}
	if in.Carencia != nil {
		product.Carencia = *in.Carencia
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.UpdateInfo(product); err != nil {
		return nil, err
	}

	_ = uc.logRepo.Create(&entity.LogEntry{
		ID:       uuid.New().String(),
		Acao:     "Produto atualizado",
		Usuario:  usuario,
		Detalhes: fmt.Sprintf("Atualizou produto: %s (Código: %s)", product.Nome, product.Codigo),
		DataHora: time.Now(),
	})
	return dto.ToProductResponse(product), nil
}

// List lista o estoque geral, com filtro opcional por código/nome.
func (uc *ProductUseCase) List(filter repository.ProductFilter) ([]*dto.ProductResponse, error) {
	products, err := uc.repo.List(filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.ToProductResponse(p))
	}
	return out, nil
}

// Delete remove um produto. O histórico de movimentações do produto cai
// junto (FK em cascata).
func (uc *ProductUseCase) Delete(usuario, id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrProductNotFound
	}
	if err := uc.repo.Delete(id); err != nil {
		return err
	}

	_ = uc.logRepo.Create(&entity.LogEntry{
		ID:       uuid.New().String(),
		Acao:     "Produto excluído",
		Usuario:  usuario,
		Detalhes: fmt.Sprintf("Excluiu produto: %s (Código: %s)", product.Nome, product.Codigo),
		DataHora: time.Now(),
	})
	return nil
}
