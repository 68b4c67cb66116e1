package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vbeltrame/stockflow-api/internal/application/dto"
	"github.com/vbeltrame/stockflow-api/internal/domain"
	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
	"github.com/vbeltrame/stockflow-api/internal/domain/password"
	"github.com/vbeltrame/stockflow-api/internal/domain/repository"
	"github.com/vbeltrame/stockflow-api/pkg/jwt"
	"github.com/vbeltrame/stockflow-api/pkg/totp"
)

// Tamanho do QR code de provisionamento em pixels.
const qrSize = 256

// Config parâmetros de emissão de token e provisionamento TOTP.
type Config struct {
	JWTSecret     string
	JWTIssuer     string
	JWTExpMinutes int
	TOTPIssuer    string
}

// UseCase fluxo de autenticação em duas etapas: credenciais primeiro,
// TOTP depois. O JWT só é emitido após o código TOTP conferir.
type UseCase struct {
	userRepo   repository.UserRepository
	logRepo    repository.LogRepository
	sessions   SessionStore
	mailer     Mailer
	anonymizer AnonymizeTxRunner
	cfg        Config
}

// NewUseCase constrói o caso de uso.
func NewUseCase(
	userRepo repository.UserRepository,
	logRepo repository.LogRepository,
	sessions SessionStore,
	mailer Mailer,
	anonymizer AnonymizeTxRunner,
	cfg Config,
) *UseCase {
	return &UseCase{
		userRepo:   userRepo,
		logRepo:    logRepo,
		sessions:   sessions,
		mailer:     mailer,
		anonymizer: anonymizer,
		cfg:        cfg,
	}
}

// Register cadastro público. O nível de acesso é sempre "comum":
// contas admin/superadmin só nascem pela rota de gestão de usuários.
func (uc *UseCase) Register(ctx context.Context, input dto.RegisterRequest) (*entity.User, error) {
	if input.Username == "" || input.Email == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := password.Validate(input.Password); err != nil {
		return nil, err
	}
	if existing, err := uc.userRepo.GetByUsername(input.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrUsernameTaken
	}
	if existing, err := uc.userRepo.GetByEmail(input.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash senha: %w", err)
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     input.Username,
		Email:        input.Email,
		Telefone:     input.Telefone,
		Nome:         input.Nome,
		Sobrenome:    input.Sobrenome,
		PasswordHash: string(hash),
		NivelAcesso:  entity.NivelComum,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}

	_ = uc.logRepo.Create(&entity.LogEntry{
		ID:       uuid.New().String(),
		Acao:     "Usuário cadastrado",
		Usuario:  user.Username,
		Detalhes: fmt.Sprintf("Novo usuário cadastrado: %s (%s)", user.Username, user.Email),
		DataHora: now,
	})
	return user, nil
}

// Login primeira etapa: confere credenciais e abre a sessão pendente da
// etapa TOTP. Nunca emite JWT; quem nunca configurou o 2FA é mandado
// para o setup.
func (uc *UseCase) Login(ctx context.Context, input dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByUsername(input.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.TOTPEnabled {
		sessionID, err := uc.sessions.CreateSetupSession(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		return &dto.LoginResponse{Status: dto.LoginStatusSetupRequired, SessionID: sessionID}, nil
	}
	sessionID, err := uc.sessions.CreateLoginSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Status: dto.LoginStatusTOTPRequired, SessionID: sessionID}, nil
}

// TOTPSetup devolve secret, URI e QR code da sessão de setup. Gera o
// secret na primeira chamada e o reaproveita nas seguintes, então
// recarregar a tela não invalida o app autenticador.
func (uc *UseCase) TOTPSetup(ctx context.Context, sessionID string) (*dto.TOTPSetupResponse, error) {
	user, err := uc.setupSessionUser(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	uri := ""
	if user.TOTPSecret == "" {
		enrollment, err := totp.Generate(uc.cfg.TOTPIssuer, user.Username)
		if err != nil {
			return nil, err
		}
		user.TOTPSecret = enrollment.Secret
		user.UpdatedAt = time.Now()
		if err := uc.userRepo.Update(user); err != nil {
			return nil, err
		}
		uri = enrollment.URI
	} else {
		uri = totp.URI(uc.cfg.TOTPIssuer, user.Username, user.TOTPSecret)
	}

	qr, err := totp.QRCodeBase64(uri, qrSize)
	if err != nil {
		return nil, err
	}
	return &dto.TOTPSetupResponse{Secret: user.TOTPSecret, URI: uri, QRCode: qr}, nil
}

// TOTPConfirm confirma o primeiro código do setup, ativa o 2FA e emite
// o JWT da sessão.
func (uc *UseCase) TOTPConfirm(ctx context.Context, sessionID, code string) (*dto.TokenResponse, error) {
	user, err := uc.setupSessionUser(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if user.TOTPSecret == "" || !totp.Verify(user.TOTPSecret, code) {
		return nil, domain.ErrInvalidTOTPCode
	}

	user.TOTPEnabled = true
	user.IsVerified = true
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	_ = uc.sessions.DeleteSetupSession(ctx, sessionID)

	return uc.issueToken(user)
}

// TOTPVerify segunda etapa do login para quem já tem 2FA ativo.
func (uc *UseCase) TOTPVerify(ctx context.Context, sessionID, code, ip string) (*dto.TokenResponse, error) {
	userID, err := uc.sessions.GetLoginSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, domain.ErrSessionExpired
	}
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrSessionExpired
	}
	if user.TOTPSecret == "" || !totp.Verify(user.TOTPSecret, code) {
		return nil, domain.ErrInvalidTOTPCode
	}
	_ = uc.sessions.DeleteLoginSession(ctx, sessionID)

	_ = uc.logRepo.Create(&entity.LogEntry{
		ID:       uuid.New().String(),
		Acao:     "Login realizado",
		Usuario:  user.Username,
		Detalhes: fmt.Sprintf("Login feito com sucesso pelo usuário %s | IP: %s", user.Username, ip),
		DataHora: time.Now(),
	})
	return uc.issueToken(user)
}

// Logout registra a saída na auditoria. O JWT é stateless: o cliente
// descarta o token.
func (uc *UseCase) Logout(ctx context.Context, username, ip string) {
	_ = uc.logRepo.Create(&entity.LogEntry{
		ID:       uuid.New().String(),
		Acao:     "Logout realizado",
		Usuario:  username,
		Detalhes: fmt.Sprintf("Logout feito com sucesso pelo usuário %s | IP: %s", username, ip),
		DataHora: time.Now(),
	})
}

// ForgotPassword gera o token de 6 dígitos, abre a sessão de reset com
// TTL de 15 minutos e envia o token por email.
func (uc *UseCase) ForgotPassword(ctx context.Context, email string) (*dto.ForgotPasswordResponse, error) {
	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	token, err := sixDigitToken()
	if err != nil {
		return nil, err
	}
	sessionID, err := uc.sessions.CreateResetSession(ctx, &ResetSession{UserID: user.ID, Token: token})
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf("Seu token para redefinir a senha é: %s\n\nEste token expira em 15 minutos.", token)
	if err := uc.mailer.Send(ctx, user.Email, "Token de Reset - Sistema de Estoque", body); err != nil {
		return nil, fmt.Errorf("enviar token de reset: %w", err)
	}
	return &dto.ForgotPasswordResponse{SessionID: sessionID, Message: "Token enviado para seu email!"}, nil
}

// VerifyResetToken confere o token recebido por email e marca a sessão
// como verificada.
func (uc *UseCase) VerifyResetToken(ctx context.Context, sessionID, token string) error {
	sess, err := uc.sessions.GetResetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess == nil {
		return domain.ErrSessionExpired
	}
	if token == "" || token != sess.Token {
		return domain.ErrInvalidToken
	}
	sess.Verified = true
	return uc.sessions.UpdateResetSession(ctx, sessionID, sess)
}

// ResetPassword troca a senha após o token verificado e encerra a sessão.
func (uc *UseCase) ResetPassword(ctx context.Context, input dto.ResetPasswordRequest) error {
	sess, err := uc.sessions.GetResetSession(ctx, input.SessionID)
	if err != nil {
		return err
	}
	if sess == nil {
		return domain.ErrSessionExpired
	}
	if !sess.Verified || input.Token != sess.Token {
		return domain.ErrInvalidToken
	}
	if input.NovaSenha != input.ConfirmarSenha {
		return domain.ErrPasswordMismatch
	}
	if err := password.Validate(input.NovaSenha); err != nil {
		return err
	}

	user, err := uc.userRepo.GetByID(sess.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.NovaSenha), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash senha: %w", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return err
	}
	return uc.sessions.DeleteResetSession(ctx, input.SessionID)
}

// Profile devolve o usuário autenticado.
func (uc *UseCase) Profile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile atualiza os dados do próprio usuário; a troca de senha é
// opcional e passa pela política.
func (uc *UseCase) UpdateProfile(ctx context.Context, userID string, input dto.UpdateProfileRequest) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if input.Nome != "" {
		user.Nome = input.Nome
	}
	if input.Sobrenome != "" {
		user.Sobrenome = input.Sobrenome
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Telefone != "" {
		user.Telefone = input.Telefone
	}
	if input.NovaSenha != "" {
		if err := password.Validate(input.NovaSenha); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(input.NovaSenha), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash senha: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}

	_ = uc.logRepo.Create(&entity.LogEntry{
		ID:       uuid.New().String(),
		Acao:     "Perfil atualizado",
		Usuario:  user.Username,
		Detalhes: "Atualizou informações do perfil",
		DataHora: time.Now(),
	})
	return user, nil
}

// DeleteAccount apaga a própria conta. Na mesma transação, o username é
// trocado por "Usuário Excluído" em entradas, saídas, solicitações
// (solicitante e aprovador), movimentações e logs, preservando o
// histórico sem dados pessoais.
func (uc *UseCase) DeleteAccount(ctx context.Context, userID string) error {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	username := user.Username

	return uc.anonymizer.RunAnonymize(ctx, func(
		userRepo repository.UserRepository,
		solicitacaoRepo repository.SolicitacaoRepository,
		entradaRepo repository.EntradaRepository,
		saidaRepo repository.SaidaRepository,
		movimentacaoRepo repository.MovimentacaoRepository,
		logRepo repository.LogRepository,
	) error {
		if err := logRepo.Create(&entity.LogEntry{
			ID:       uuid.New().String(),
			Acao:     "Conta deletada",
			Usuario:  username,
			Detalhes: fmt.Sprintf("Usuário %s deletou sua própria conta", username),
			DataHora: time.Now(),
		}); err != nil {
			return err
		}
		if err := entradaRepo.ReassignUsuario(username, entity.AnonymizedUsername); err != nil {
			return err
		}
		if err := saidaRepo.ReassignUsuario(username, entity.AnonymizedUsername); err != nil {
			return err
		}
		if err := solicitacaoRepo.ReassignUsuario(username, entity.AnonymizedUsername); err != nil {
			return err
		}
		if err := movimentacaoRepo.ReassignUsuario(username, entity.AnonymizedUsername); err != nil {
			return err
		}
		if err := logRepo.ReassignUsuario(username, entity.AnonymizedUsername); err != nil {
			return err
		}
		return userRepo.Delete(userID)
	})
}

func (uc *UseCase) setupSessionUser(ctx context.Context, sessionID string) (*entity.User, error) {
	userID, err := uc.sessions.GetSetupSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, domain.ErrSessionExpired
	}
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrSessionExpired
	}
	return user, nil
}

func (uc *UseCase) issueToken(user *entity.User) (*dto.TokenResponse, error) {
	token, err := jwt.Generate(uc.cfg.JWTSecret, user.ID, user.Username, user.NivelAcesso, uc.cfg.JWTIssuer, uc.cfg.JWTExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{Token: token, User: dto.ToUserResponse(user)}, nil
}

// sixDigitToken gera um token numérico entre 100000 e 999999.
func sixDigitToken() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("gerar token: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
