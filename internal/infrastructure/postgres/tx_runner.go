package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vbeltrame/stockflow-api/internal/application/auth"
	"github.com/vbeltrame/stockflow-api/internal/application/stock"
	"github.com/vbeltrame/stockflow-api/internal/domain/repository"
)

var _ stock.TxRunner = (*TxRunner)(nil)
var _ auth.AnonymizeTxRunner = (*TxRunner)(nil)

// TxRunner executa callbacks dentro de uma transação PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner constrói o runner com o pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia uma transação, executa fn com os repositórios de estoque
// atados à tx e faz Commit ou Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	solicitacaoRepo repository.SolicitacaoRepository,
	entradaRepo repository.EntradaRepository,
	saidaRepo repository.SaidaRepository,
	movimentacaoRepo repository.MovimentacaoRepository,
	logRepo repository.LogRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewProductRepository(tx),
		NewSolicitacaoRepository(tx),
		NewEntradaRepository(tx),
		NewSaidaRepository(tx),
		NewMovimentacaoRepository(tx),
		NewLogRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunAnonymize inicia uma transação com os repositórios da exclusão de
// conta (anonimização do histórico + delete do usuário).
func (r *TxRunner) RunAnonymize(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	solicitacaoRepo repository.SolicitacaoRepository,
	entradaRepo repository.EntradaRepository,
	saidaRepo repository.SaidaRepository,
	movimentacaoRepo repository.MovimentacaoRepository,
	logRepo repository.LogRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewUserRepository(tx),
		NewSolicitacaoRepository(tx),
		NewEntradaRepository(tx),
		NewSaidaRepository(tx),
		NewMovimentacaoRepository(tx),
		NewLogRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
