package auth

import (
	"context"

	"github.com/vbeltrame/stockflow-api/internal/domain/repository"
)

// ResetSession estado do fluxo de recuperação de senha. Verified passa a
// true quando o token de 6 dígitos é conferido; só então a troca de senha
// é aceita.
type ResetSession struct {
	UserID   string `json:"user_id"`
	Token    string `json:"token"`
	Verified bool   `json:"verified"`
}

// SessionStore guarda o estado intermediário dos fluxos de autenticação
// (setup TOTP, verificação TOTP e reset de senha) fora do processo, com
// TTL. Lookups devolvem zero/nil quando a sessão não existe ou expirou.
type SessionStore interface {
	CreateSetupSession(ctx context.Context, userID string) (string, error)
	GetSetupSession(ctx context.Context, sessionID string) (string, error)
	DeleteSetupSession(ctx context.Context, sessionID string) error

	CreateLoginSession(ctx context.Context, userID string) (string, error)
	GetLoginSession(ctx context.Context, sessionID string) (string, error)
	DeleteLoginSession(ctx context.Context, sessionID string) error

	CreateResetSession(ctx context.Context, sess *ResetSession) (string, error)
	GetResetSession(ctx context.Context, sessionID string) (*ResetSession, error)
	UpdateResetSession(ctx context.Context, sessionID string, sess *ResetSession) error
	DeleteResetSession(ctx context.Context, sessionID string) error
}

// Mailer envia emails transacionais (token de reset, avisos de estoque).
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// AnonymizeTxRunner executa a exclusão de conta em uma transação: anonimiza
// o usuário em todas as tabelas históricas e apaga o registro.
type AnonymizeTxRunner interface {
	RunAnonymize(ctx context.Context, fn func(
		userRepo repository.UserRepository,
		solicitacaoRepo repository.SolicitacaoRepository,
		entradaRepo repository.EntradaRepository,
		saidaRepo repository.SaidaRepository,
		movimentacaoRepo repository.MovimentacaoRepository,
		logRepo repository.LogRepository,
	) error) error
}
