package stock

import (
	"context"

	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
	"github.com/vbeltrame/stockflow-api/internal/domain/repository"
)

// TxRunner executa callbacks dentro de uma transação, com repositórios
// atados à tx. O log de auditoria entra na mesma transação das escritas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		solicitacaoRepo repository.SolicitacaoRepository,
		entradaRepo repository.EntradaRepository,
		saidaRepo repository.SaidaRepository,
		movimentacaoRepo repository.MovimentacaoRepository,
		logRepo repository.LogRepository,
	) error) error
}

// Notifier dispara avisos (email, WhatsApp) após o commit. As chamadas
// nunca bloqueiam nem devolvem erro: falha de notificação não desfaz
// a operação de estoque.
type Notifier interface {
	RequestCreated(produto *entity.Product, solicitacao *entity.Solicitacao)
	RequestApproved(produto *entity.Product, solicitacao *entity.Solicitacao)
	RequestRejected(produto *entity.Product, solicitacao *entity.Solicitacao)
	StockEntry(produto *entity.Product, quantidade int, usuario string)
	WithdrawalDone(produto *entity.Product, quantidade int, destino, usuario string)
}
