// Package notification dispara os avisos de estoque por email e WhatsApp.
// Tudo roda em goroutine própria depois do commit: falha de envio vira log
// e nunca desfaz a operação que a originou.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
	"github.com/vbeltrame/stockflow-api/internal/domain/repository"
	"github.com/vbeltrame/stockflow-api/pkg/logger"
)

// Timeout de cada rodada de envio.
const sendTimeout = 30 * time.Second

const dateLayout = "02/01/2006 15:04"

// WhatsAppSender envia uma mensagem de texto para um telefone.
type WhatsAppSender interface {
	SendMessage(ctx context.Context, phone, message string) error
}

// Mailer envia emails transacionais.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Notifier implementa stock.Notifier: solicitações novas avisam os
// administradores, decisões avisam o solicitante e entradas/retiradas
// geram email de registro.
type Notifier struct {
	userRepo repository.UserRepository
	wa       WhatsAppSender
	mailer   Mailer
	log      *logger.Logger
}

// New constrói o notifier.
func New(userRepo repository.UserRepository, wa WhatsAppSender, mailer Mailer, log *logger.Logger) *Notifier {
	return &Notifier{userRepo: userRepo, wa: wa, mailer: mailer, log: log}
}

// RequestCreated avisa os administradores por WhatsApp que há uma
// solicitação pendente.
func (n *Notifier) RequestCreated(produto *entity.Product, sol *entity.Solicitacao) {
	go n.run(func(ctx context.Context) {
		msg := fmt.Sprintf(`🔔 *Nova Solicitação - Stock Flow*

📋 *Solicitação #%s*
👤 *Solicitante:* %s
📦 *Produto:* %s
🏷️ *Código:* %s
📊 *Quantidade:* %d unidades
📍 *Destino:* %s
📅 *Data:* %s

⏳ Status: *PENDENTE*

Acesse o sistema para aprovar ou reprovar esta solicitação.`,
			sol.ID, sol.Solicitante, produto.Nome, produto.Codigo,
			sol.Quantidade, sol.Destino, sol.CreatedAt.Format(dateLayout))
		n.whatsappAdmins(ctx, msg)
	})
}

// RequestApproved avisa o solicitante que a retirada foi executada.
func (n *Notifier) RequestApproved(produto *entity.Product, sol *entity.Solicitacao) {
	go n.run(func(ctx context.Context) {
		quando := time.Now()
		if sol.DataAprovacao != nil {
			quando = *sol.DataAprovacao
		}
		msg := fmt.Sprintf(`✅ *Solicitação Aprovada - Stock Flow*

📋 *Solicitação #%s*
👤 *Solicitante:* %s
👨💼 *Aprovador:* %s
📦 *Produto:* %s
📊 *Quantidade:* -%d unidades
📍 *Destino:* %s
📅 *Aprovação:* %s

✅ Status: *APROVADA E RETIRADA*`,
			sol.ID, sol.Solicitante, sol.Aprovador, produto.Nome,
			sol.Quantidade, sol.Destino, quando.Format(dateLayout))
		n.whatsappUser(ctx, sol.Solicitante, msg)
	})
}

// RequestRejected avisa o solicitante da reprovação.
func (n *Notifier) RequestRejected(produto *entity.Product, sol *entity.Solicitacao) {
	go n.run(func(ctx context.Context) {
		quando := time.Now()
		if sol.DataAprovacao != nil {
			quando = *sol.DataAprovacao
		}
		msg := fmt.Sprintf(`❌ *Solicitação Reprovada - Stock Flow*

📋 *Solicitação #%s*
👤 *Solicitante:* %s
👨💼 *Reprovador:* %s
📦 *Produto:* %s
📊 *Quantidade:* %d unidades
📍 *Destino:* %s
📅 *Reprovação:* %s

❌ Status: *REPROVADA*`,
			sol.ID, sol.Solicitante, sol.Aprovador, produto.Nome,
			sol.Quantidade, sol.Destino, quando.Format(dateLayout))
		n.whatsappUser(ctx, sol.Solicitante, msg)
	})
}

// StockEntry avisa os administradores da entrada, por WhatsApp e email.
func (n *Notifier) StockEntry(produto *entity.Product, quantidade int, usuario string) {
	go n.run(func(ctx context.Context) {
		msg := fmt.Sprintf(`⬆️ *Entrada de Produto - Stock Flow*

📦 *Produto:* %s
🏷️ *Código:* %s
📊 *Quantidade:* +%d unidades
👤 *Usuário:* %s
📅 *Data:* %s

✅ Entrada registrada com sucesso!`,
			produto.Nome, produto.Codigo, quantidade, usuario, time.Now().Format(dateLayout))
		n.whatsappAdmins(ctx, msg)

		body := fmt.Sprintf("O usuário %s realizou a entrada de %d unidades do produto %s.", usuario, quantidade, produto.Nome)
		n.emailAdmins(ctx, "Entrada de Produto", body)
	})
}

// WithdrawalDone avisa os administradores da retirada direta por email.
func (n *Notifier) WithdrawalDone(produto *entity.Product, quantidade int, destino, usuario string) {
	go n.run(func(ctx context.Context) {
		body := fmt.Sprintf("O usuário %s realizou a retirada de %d unidades do produto %s.", usuario, quantidade, produto.Nome)
		n.emailAdmins(ctx, "Retirada de Produto", body)
	})
}

func (n *Notifier) run(fn func(ctx context.Context)) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	fn(ctx)
}

func (n *Notifier) whatsappAdmins(ctx context.Context, msg string) {
	admins, err := n.userRepo.ListAdmins()
	if err != nil {
		n.log.Warn().Err(err).Msg("notification: listar admins")
		return
	}
	for _, admin := range admins {
		if admin.Telefone == "" {
			continue
		}
		if err := n.wa.SendMessage(ctx, admin.Telefone, msg); err != nil {
			n.log.Warn().Err(err).Str("usuario", admin.Username).Msg("notification: whatsapp falhou")
		}
	}
}

func (n *Notifier) whatsappUser(ctx context.Context, username, msg string) {
	user, err := n.userRepo.GetByUsername(username)
	if err != nil {
		n.log.Warn().Err(err).Str("usuario", username).Msg("notification: buscar usuário")
		return
	}
	if user == nil || user.Telefone == "" {
		return
	}
	if err := n.wa.SendMessage(ctx, user.Telefone, msg); err != nil {
		n.log.Warn().Err(err).Str("usuario", username).Msg("notification: whatsapp falhou")
	}
}

func (n *Notifier) emailAdmins(ctx context.Context, subject, body string) {
	admins, err := n.userRepo.ListAdmins()
	if err != nil {
		n.log.Warn().Err(err).Msg("notification: listar admins")
		return
	}
	for _, admin := range admins {
		if admin.Email == "" {
			continue
		}
		if err := n.mailer.Send(ctx, admin.Email, subject, body); err != nil {
			n.log.Warn().Err(err).Str("usuario", admin.Username).Msg("notification: email falhou")
		}
	}
}
