package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vbeltrame/stockflow-api/internal/domain"
	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
	"github.com/vbeltrame/stockflow-api/internal/domain/repository"
)

// UseCase concentra o fluxo de estoque: solicitações, aprovação com
// retirada automática, entradas e retiradas diretas. Toda escrita passa
// por uma transação com bloqueio de linha no produto (SELECT FOR UPDATE).
type UseCase struct {
	txRunner        TxRunner
	solicitacaoRepo repository.SolicitacaoRepository
	productRepo     repository.ProductRepository
	notifier        Notifier
}

// NewUseCase constrói o caso de uso.
func NewUseCase(
	txRunner TxRunner,
	solicitacaoRepo repository.SolicitacaoRepository,
	productRepo repository.ProductRepository,
	notifier Notifier,
) *UseCase {
	return &UseCase{
		txRunner:        txRunner,
		solicitacaoRepo: solicitacaoRepo,
		productRepo:     productRepo,
		notifier:        notifier,
	}
}

// CreateRequestInput entrada para abrir uma solicitação de retirada.
type CreateRequestInput struct {
	Codigo      string
	Quantidade  int
	Destino     string
	Solicitante string
}

// EntryInput entrada de estoque.
type EntryInput struct {
	Codigo     string
	Quantidade int
	Usuario    string
}

// WithdrawInput retirada direta, sem solicitação prévia.
type WithdrawInput struct {
	Codigo     string
	Quantidade int
	Destino    string
	Usuario    string
}

// CreateRequest abre uma solicitação PENDENTE. Não valida estoque aqui:
// a checagem acontece na aprovação, com a linha do produto bloqueada.
func (uc *UseCase) CreateRequest(ctx context.Context, input CreateRequestInput) (*entity.Solicitacao, error) {
	if input.Quantidade <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if input.Destino == "" {
		return nil, domain.ErrMissingDestino
	}

	now := time.Now()
	sol := &entity.Solicitacao{
		ID:          uuid.New().String(),
		Quantidade:  input.Quantidade,
		Destino:     input.Destino,
		Status:      entity.StatusPendente,
		Solicitante: input.Solicitante,
		CreatedAt:   now,
	}
	var produto *entity.Product

	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		solicitacaoRepo repository.SolicitacaoRepository,
		_ repository.EntradaRepository,
		_ repository.SaidaRepository,
		movimentacaoRepo repository.MovimentacaoRepository,
		logRepo repository.LogRepository,
	) error {
		var err error
		produto, err = productRepo.GetByCodigo(input.Codigo)
		if err != nil {
			return err
		}
		if produto == nil {
			return domain.ErrProductNotFound
		}
		sol.ProdutoID = produto.ID

		if err := solicitacaoRepo.Create(sol); err != nil {
			return err
		}
		mov := &entity.Movimentacao{
			ID:           uuid.New().String(),
			Tipo:         entity.TipoSolicitacao,
			ProdutoID:    produto.ID,
			Quantidade:   input.Quantidade,
			Usuario:      input.Solicitante,
			ReferenciaID: sol.ID,
			Observacao:   fmt.Sprintf("Solicitação #%s criada - Destino: %s", sol.ID, input.Destino),
			DataHora:     now,
		}
		if err := movimentacaoRepo.Create(mov); err != nil {
			return err
		}
		return logRepo.Create(&entity.LogEntry{
			ID:       uuid.New().String(),
			Acao:     "Solicitação criada",
			Usuario:  input.Solicitante,
			Detalhes: fmt.Sprintf("Solicitou %d unidades do produto: %s - Destino: %s", input.Quantidade, produto.Nome, input.Destino),
			DataHora: now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.RequestCreated(produto, sol)
	return sol, nil
}

// Approve aprova uma solicitação PENDENTE e executa a retirada na mesma
// transação: decrementa o produto, grava a saída e o registro RETIRADA
// no razão. A linha do produto fica bloqueada durante a checagem de
// estoque, então duas aprovações concorrentes não passam do saldo.
func (uc *UseCase) Approve(ctx context.Context, solicitacaoID, aprovador string) (*entity.Solicitacao, error) {
	var sol *entity.Solicitacao
	var produto *entity.Product

	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		solicitacaoRepo repository.SolicitacaoRepository,
		_ repository.EntradaRepository,
		saidaRepo repository.SaidaRepository,
		movimentacaoRepo repository.MovimentacaoRepository,
		logRepo repository.LogRepository,
	) error {
		var err error
		sol, err = solicitacaoRepo.GetByID(solicitacaoID)
		if err != nil {
			return err
		}
		if sol == nil || sol.Status != entity.StatusPendente {
			return domain.ErrRequestNotFound
		}

		// Bloqueia a linha do produto antes de checar o saldo
		produto, err = productRepo.GetByIDForUpdate(sol.ProdutoID)
		if err != nil {
			return err
		}
		if produto == nil {
			return domain.ErrProductNotFound
		}
		if produto.Quantidade < sol.Quantidade {
			return &domain.InsufficientStockError{Disponivel: produto.Quantidade, Solicitado: sol.Quantidade}
		}

		now := time.Now()
		// Decide é condicional (WHERE status = 'PENDENTE'); se outra
		// transação decidiu primeiro, nada é alterado aqui.
		if err := solicitacaoRepo.Decide(sol.ID, entity.StatusAtendida, aprovador, now); err != nil {
			return err
		}
		produto.Quantidade -= sol.Quantidade
		if err := productRepo.UpdateQuantidade(produto.ID, produto.Quantidade); err != nil {
			return err
		}
		saida := &entity.Saida{
			ID:         uuid.New().String(),
			ProdutoID:  produto.ID,
			Quantidade: sol.Quantidade,
			Destino:    sol.Destino,
			Usuario:    aprovador,
			DataSaida:  now,
		}
		if err := saidaRepo.Create(saida); err != nil {
			return err
		}
		mov := &entity.Movimentacao{
			ID:           uuid.New().String(),
			Tipo:         entity.TipoRetirada,
			ProdutoID:    produto.ID,
			Quantidade:   sol.Quantidade,
			Usuario:      aprovador,
			ReferenciaID: sol.ID,
			Observacao:   fmt.Sprintf("Solicitação #%s aprovada e retirada executada automaticamente - Destino: %s", sol.ID, sol.Destino),
			DataHora:     now,
		}
		if err := movimentacaoRepo.Create(mov); err != nil {
			return err
		}
		if err := logRepo.Create(&entity.LogEntry{
			ID:       uuid.New().String(),
			Acao:     "Solicitação aprovada",
			Usuario:  aprovador,
			Detalhes: fmt.Sprintf("Aprovou solicitação #%s - %d unidades do produto: %s", sol.ID, sol.Quantidade, produto.Nome),
			DataHora: now,
		}); err != nil {
			return err
		}

		sol.Status = entity.StatusAtendida
		sol.Aprovador = aprovador
		sol.DataAprovacao = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.RequestApproved(produto, sol)
	return sol, nil
}

// Reject reprova uma solicitação PENDENTE. Não mexe em estoque.
func (uc *UseCase) Reject(ctx context.Context, solicitacaoID, aprovador string) (*entity.Solicitacao, error) {
	var sol *entity.Solicitacao
	var produto *entity.Product

	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		solicitacaoRepo repository.SolicitacaoRepository,
		_ repository.EntradaRepository,
		_ repository.SaidaRepository,
		_ repository.MovimentacaoRepository,
		logRepo repository.LogRepository,
	) error {
		var err error
		sol, err = solicitacaoRepo.GetByID(solicitacaoID)
		if err != nil {
			return err
		}
		if sol == nil || sol.Status != entity.StatusPendente {
			return domain.ErrRequestNotFound
		}
		produto, err = productRepo.GetByID(sol.ProdutoID)
		if err != nil {
			return err
		}
		if produto == nil {
			return domain.ErrProductNotFound
		}

		now := time.Now()
		if err := solicitacaoRepo.Decide(sol.ID, entity.StatusReprovada, aprovador, now); err != nil {
			return err
		}
		if err := logRepo.Create(&entity.LogEntry{
			ID:       uuid.New().String(),
			Acao:     "Solicitação reprovada",
			Usuario:  aprovador,
			Detalhes: fmt.Sprintf("Reprovou solicitação #%s - %d unidades do produto: %s", sol.ID, sol.Quantidade, produto.Nome),
			DataHora: now,
		}); err != nil {
			return err
		}

		sol.Status = entity.StatusReprovada
		sol.Aprovador = aprovador
		sol.DataAprovacao = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.RequestRejected(produto, sol)
	return sol, nil
}

// Entry registra uma entrada de estoque: incrementa o produto e grava
// a entrada e o registro ENTRADA no razão, tudo na mesma transação.
func (uc *UseCase) Entry(ctx context.Context, input EntryInput) (*entity.Product, error) {
	if input.Quantidade <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var produto *entity.Product
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.SolicitacaoRepository,
		entradaRepo repository.EntradaRepository,
		_ repository.SaidaRepository,
		movimentacaoRepo repository.MovimentacaoRepository,
		logRepo repository.LogRepository,
	) error {
		var err error
		produto, err = productRepo.GetByCodigoForUpdate(input.Codigo)
		if err != nil {
			return err
		}
		if produto == nil {
			return domain.ErrProductNotFound
		}

		now := time.Now()
		produto.Quantidade += input.Quantidade
		if err := productRepo.UpdateQuantidade(produto.ID, produto.Quantidade); err != nil {
			return err
		}
		mov := &entity.Movimentacao{
			ID:         uuid.New().String(),
			Tipo:       entity.TipoEntrada,
			ProdutoID:  produto.ID,
			Quantidade: input.Quantidade,
			Usuario:    input.Usuario,
			Observacao: fmt.Sprintf("Entrada de %d unidades", input.Quantidade),
			DataHora:   now,
		}
		if err := movimentacaoRepo.Create(mov); err != nil {
			return err
		}
		entrada := &entity.Entrada{
			ID:          uuid.New().String(),
			ProdutoID:   produto.ID,
			Quantidade:  input.Quantidade,
			Usuario:     input.Usuario,
			DataEntrada: now,
		}
		if err := entradaRepo.Create(entrada); err != nil {
			return err
		}
		return logRepo.Create(&entity.LogEntry{
			ID:       uuid.New().String(),
			Acao:     "Entrada de produto",
			Usuario:  input.Usuario,
			Detalhes: fmt.Sprintf("Registrou entrada de %d unidades do produto: %s", input.Quantidade, produto.Nome),
			DataHora: now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.StockEntry(produto, input.Quantidade, input.Usuario)
	return produto, nil
}

// Withdraw executa uma retirada direta: bloqueia a linha do produto,
// verifica o saldo, decrementa e grava saída e registro RETIRADA.
func (uc *UseCase) Withdraw(ctx context.Context, input WithdrawInput) (*entity.Product, error) {
	if input.Quantidade <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if input.Destino == "" {
		return nil, domain.ErrMissingDestino
	}

	var produto *entity.Product
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.SolicitacaoRepository,
		_ repository.EntradaRepository,
		saidaRepo repository.SaidaRepository,
		movimentacaoRepo repository.MovimentacaoRepository,
		logRepo repository.LogRepository,
	) error {
		var err error
		produto, err = productRepo.GetByCodigoForUpdate(input.Codigo)
		if err != nil {
			return err
		}
		if produto == nil {
			return domain.ErrProductNotFound
		}
		if produto.Quantidade < input.Quantidade {
			return &domain.InsufficientStockError{Disponivel: produto.Quantidade, Solicitado: input.Quantidade}
		}

		now := time.Now()
		produto.Quantidade -= input.Quantidade
		if err := productRepo.UpdateQuantidade(produto.ID, produto.Quantidade); err != nil {
			return err
		}
		saida := &entity.Saida{
			ID:         uuid.New().String(),
			ProdutoID:  produto.ID,
			Quantidade: input.Quantidade,
			Destino:    input.Destino,
			Usuario:    input.Usuario,
			DataSaida:  now,
		}
		if err := saidaRepo.Create(saida); err != nil {
			return err
		}
		mov := &entity.Movimentacao{
			ID:         uuid.New().String(),
			Tipo:       entity.TipoRetirada,
			ProdutoID:  produto.ID,
			Quantidade: input.Quantidade,
			Usuario:    input.Usuario,
			Observacao: fmt.Sprintf("Retirada direta de %d unidades - Destino: %s", input.Quantidade, input.Destino),
			DataHora:   now,
		}
		if err := movimentacaoRepo.Create(mov); err != nil {
			return err
		}
		return logRepo.Create(&entity.LogEntry{
			ID:       uuid.New().String(),
			Acao:     "Retirada direta",
			Usuario:  input.Usuario,
			Detalhes: fmt.Sprintf("Retirou %d unidades do produto: %s - Destino: %s", input.Quantidade, produto.Nome, input.Destino),
			DataHora: now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.WithdrawalDone(produto, input.Quantidade, input.Destino, input.Usuario)
	return produto, nil
}

// ListRequests lista solicitações, opcionalmente por status.
func (uc *UseCase) ListRequests(ctx context.Context, status string) ([]*entity.Solicitacao, error) {
	return uc.solicitacaoRepo.List(status)
}

// GetRequest busca uma solicitação por ID.
func (uc *UseCase) GetRequest(ctx context.Context, id string) (*entity.Solicitacao, error) {
	sol, err := uc.solicitacaoRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sol == nil {
		return nil, domain.ErrRequestNotFound
	}
	return sol, nil
}
