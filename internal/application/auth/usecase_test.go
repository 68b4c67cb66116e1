package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	ptotp "github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vbeltrame/stockflow-api/internal/application/dto"
	"github.com/vbeltrame/stockflow-api/internal/domain"
	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
	"github.com/vbeltrame/stockflow-api/internal/domain/password"
	"github.com/vbeltrame/stockflow-api/internal/domain/repository"
)

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	for _, other := range r.users {
		if other.Username == u.Username {
			return domain.ErrUsernameTaken
		}
		if other.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	c := *u
	r.users[u.ID] = &c
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	if u, ok := r.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(u *entity.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	c := *u
	r.users[u.ID] = &c
	return nil
}

func (r *fakeUserRepo) List() ([]*entity.User, error)       { return nil, nil }
func (r *fakeUserRepo) ListAdmins() ([]*entity.User, error) { return nil, nil }

func (r *fakeUserRepo) Delete(id string) error {
	delete(r.users, id)
	return nil
}

type fakeAuthLogRepo struct {
	entries []*entity.LogEntry
}

func (r *fakeAuthLogRepo) Create(l *entity.LogEntry) error {
	r.entries = append(r.entries, l)
	return nil
}

func (r *fakeAuthLogRepo) List(f repository.LogFilter, limit, offset int) ([]*entity.LogEntry, int, error) {
	return r.entries, len(r.entries), nil
}

func (r *fakeAuthLogRepo) ReassignUsuario(de, para string) error {
	for _, l := range r.entries {
		if l.Usuario == de {
			l.Usuario = para
		}
	}
	return nil
}

type fakeSessionStore struct {
	seq    int
	setup  map[string]string
	login  map[string]string
	resets map[string]*ResetSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		setup:  map[string]string{},
		login:  map[string]string{},
		resets: map[string]*ResetSession{},
	}
}

func (s *fakeSessionStore) nextID() string {
	s.seq++
	return fmt.Sprintf("sess-%d", s.seq)
}

func (s *fakeSessionStore) CreateSetupSession(ctx context.Context, userID string) (string, error) {
	id := s.nextID()
	s.setup[id] = userID
	return id, nil
}

func (s *fakeSessionStore) GetSetupSession(ctx context.Context, id string) (string, error) {
	return s.setup[id], nil
}

func (s *fakeSessionStore) DeleteSetupSession(ctx context.Context, id string) error {
	delete(s.setup, id)
	return nil
}

func (s *fakeSessionStore) CreateLoginSession(ctx context.Context, userID string) (string, error) {
	id := s.nextID()
	s.login[id] = userID
	return id, nil
}

func (s *fakeSessionStore) GetLoginSession(ctx context.Context, id string) (string, error) {
	return s.login[id], nil
}

func (s *fakeSessionStore) DeleteLoginSession(ctx context.Context, id string) error {
	delete(s.login, id)
	return nil
}

func (s *fakeSessionStore) CreateResetSession(ctx context.Context, sess *ResetSession) (string, error) {
	id := s.nextID()
	c := *sess
	s.resets[id] = &c
	return id, nil
}

func (s *fakeSessionStore) GetResetSession(ctx context.Context, id string) (*ResetSession, error) {
	if sess, ok := s.resets[id]; ok {
		c := *sess
		return &c, nil
	}
	return nil, nil
}

func (s *fakeSessionStore) UpdateResetSession(ctx context.Context, id string, sess *ResetSession) error {
	c := *sess
	s.resets[id] = &c
	return nil
}

func (s *fakeSessionStore) DeleteResetSession(ctx context.Context, id string) error {
	delete(s.resets, id)
	return nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	sent []sentMail
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

// fakeAnonymizer roda o callback com os repositórios fake, sem transação.
type fakeAnonymizer struct {
	userRepo *fakeUserRepo
	logRepo  *fakeAuthLogRepo

	reassigned []string
}

func (a *fakeAnonymizer) RunAnonymize(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	solicitacaoRepo repository.SolicitacaoRepository,
	entradaRepo repository.EntradaRepository,
	saidaRepo repository.SaidaRepository,
	movimentacaoRepo repository.MovimentacaoRepository,
	logRepo repository.LogRepository,
) error) error {
	return fn(
		a.userRepo,
		&anonSolicitacaoRepo{anonymizer: a},
		&anonEntradaRepo{anonymizer: a},
		&anonSaidaRepo{anonymizer: a},
		&anonMovRepo{anonymizer: a},
		&anonLogRepo{inner: a.logRepo, anonymizer: a},
	)
}

func (a *fakeAnonymizer) record(de, para string) {
	a.reassigned = append(a.reassigned, de+"->"+para)
}

type anonSolicitacaoRepo struct{ anonymizer *fakeAnonymizer }

func (r *anonSolicitacaoRepo) Create(*entity.Solicitacao) error               { return nil }
func (r *anonSolicitacaoRepo) GetByID(string) (*entity.Solicitacao, error)    { return nil, nil }
func (r *anonSolicitacaoRepo) Decide(string, string, string, time.Time) error { return nil }
func (r *anonSolicitacaoRepo) List(string) ([]*entity.Solicitacao, error)     { return nil, nil }

func (r *anonSolicitacaoRepo) ReassignUsuario(de, para string) error {
	r.anonymizer.record(de, para)
	return nil
}

type anonEntradaRepo struct{ anonymizer *fakeAnonymizer }

func (r *anonEntradaRepo) Create(*entity.Entrada) error                    { return nil }
func (r *anonEntradaRepo) ListByProduto(string) ([]*entity.Entrada, error) { return nil, nil }

func (r *anonEntradaRepo) ReassignUsuario(de, para string) error {
	r.anonymizer.record(de, para)
	return nil
}

type anonSaidaRepo struct{ anonymizer *fakeAnonymizer }

func (r *anonSaidaRepo) Create(*entity.Saida) error                    { return nil }
func (r *anonSaidaRepo) ListByProduto(string) ([]*entity.Saida, error) { return nil, nil }

func (r *anonSaidaRepo) ReassignUsuario(de, para string) error {
	r.anonymizer.record(de, para)
	return nil
}

type anonMovRepo struct{ anonymizer *fakeAnonymizer }

func (r *anonMovRepo) Create(*entity.Movimentacao) error { return nil }

func (r *anonMovRepo) GetByID(string) (*repository.MovimentacaoComProduto, error) {
	return nil, nil
}

func (r *anonMovRepo) List(repository.MovimentacaoFilter, int) ([]*repository.MovimentacaoComProduto, error) {
	return nil, nil
}

func (r *anonMovRepo) ReassignUsuario(de, para string) error {
	r.anonymizer.record(de, para)
	return nil
}

type anonLogRepo struct {
	inner      *fakeAuthLogRepo
	anonymizer *fakeAnonymizer
}

func (r *anonLogRepo) Create(l *entity.LogEntry) error { return r.inner.Create(l) }

func (r *anonLogRepo) List(f repository.LogFilter, limit, offset int) ([]*entity.LogEntry, int, error) {
	return r.inner.List(f, limit, offset)
}

func (r *anonLogRepo) ReassignUsuario(de, para string) error {
	r.anonymizer.reassigned = append(r.anonymizer.reassigned, de+"->"+para)
	return r.inner.ReassignUsuario(de, para)
}

type testEnv struct {
	uc       *UseCase
	users    *fakeUserRepo
	logs     *fakeAuthLogRepo
	sessions *fakeSessionStore
	mailer   *fakeMailer
	anon     *fakeAnonymizer
}

func newTestEnv() *testEnv {
	users := newFakeUserRepo()
	logs := &fakeAuthLogRepo{}
	sessions := newFakeSessionStore()
	mailer := &fakeMailer{}
	anon := &fakeAnonymizer{userRepo: users, logRepo: logs}
	uc := NewUseCase(users, logs, sessions, mailer, anon, Config{
		JWTSecret:     "segredo-de-teste",
		JWTIssuer:     "stockflow-api",
		JWTExpMinutes: 60,
		TOTPIssuer:    "Stock Flow",
	})
	return &testEnv{uc: uc, users: users, logs: logs, sessions: sessions, mailer: mailer, anon: anon}
}

func registerUser(t *testing.T, env *testEnv, username, email string) *entity.User {
	t.Helper()
	user, err := env.uc.Register(context.Background(), dto.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "Valid123!",
		Nome:     "Ana",
	})
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	env := newTestEnv()

	user := registerUser(t, env, "ana", "ana@example.com")
	assert.Equal(t, entity.NivelComum, user.NivelAcesso)
	assert.NotEqual(t, "Valid123!", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Valid123!")))
	assert.False(t, user.TOTPEnabled)

	require.Len(t, env.logs.entries, 1)
	assert.Equal(t, "Usuário cadastrado", env.logs.entries[0].Acao)
}

func TestRegisterDuplicates(t *testing.T) {
	env := newTestEnv()
	registerUser(t, env, "ana", "ana@example.com")

	_, err := env.uc.Register(context.Background(), dto.RegisterRequest{
		Username: "ana", Email: "outra@example.com", Password: "Valid123!",
	})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	_, err = env.uc.Register(context.Background(), dto.RegisterRequest{
		Username: "outra", Email: "ana@example.com", Password: "Valid123!",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestRegisterWeakPassword(t *testing.T) {
	env := newTestEnv()

	_, err := env.uc.Register(context.Background(), dto.RegisterRequest{
		Username: "ana", Email: "ana@example.com", Password: "fraca",
	})
	require.Error(t, err)
	assert.True(t, password.IsPolicyError(err))
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv()
	registerUser(t, env, "ana", "ana@example.com")
	ctx := context.Background()

	_, err := env.uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "Errada123!"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = env.uc.Login(ctx, dto.LoginRequest{Username: "naoexiste", Password: "Valid123!"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginRequiresTOTPSetup(t *testing.T) {
	env := newTestEnv()
	registerUser(t, env, "ana", "ana@example.com")

	resp, err := env.uc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "Valid123!"})
	require.NoError(t, err)
	assert.Equal(t, dto.LoginStatusSetupRequired, resp.Status)
	assert.NotEmpty(t, resp.SessionID)
}

func TestTOTPSetupAndConfirm(t *testing.T) {
	env := newTestEnv()
	user := registerUser(t, env, "ana", "ana@example.com")
	ctx := context.Background()

	login, err := env.uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "Valid123!"})
	require.NoError(t, err)
	require.Equal(t, dto.LoginStatusSetupRequired, login.Status)

	setup, err := env.uc.TOTPSetup(ctx, login.SessionID)
	require.NoError(t, err)
	assert.NotEmpty(t, setup.Secret)
	assert.Contains(t, setup.URI, "otpauth://totp/")
	assert.NotEmpty(t, setup.QRCode)

	// Segunda chamada reaproveita o secret
	again, err := env.uc.TOTPSetup(ctx, login.SessionID)
	require.NoError(t, err)
	assert.Equal(t, setup.Secret, again.Secret)

	code, err := ptotp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)

	tok, err := env.uc.TOTPConfirm(ctx, login.SessionID, code)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
	assert.Equal(t, user.Username, tok.User.Username)

	stored, _ := env.users.GetByID(user.ID)
	assert.True(t, stored.TOTPEnabled)
	assert.True(t, stored.IsVerified)

	// Próximo login cai direto na verificação
	second, err := env.uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "Valid123!"})
	require.NoError(t, err)
	assert.Equal(t, dto.LoginStatusTOTPRequired, second.Status)
}

func TestTOTPConfirmInvalidCode(t *testing.T) {
	env := newTestEnv()
	registerUser(t, env, "ana", "ana@example.com")
	ctx := context.Background()

	login, err := env.uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "Valid123!"})
	require.NoError(t, err)
	_, err = env.uc.TOTPSetup(ctx, login.SessionID)
	require.NoError(t, err)

	_, err = env.uc.TOTPConfirm(ctx, login.SessionID, "000000")
	assert.ErrorIs(t, err, domain.ErrInvalidTOTPCode)
}

func TestTOTPVerify(t *testing.T) {
	env := newTestEnv()
	user := registerUser(t, env, "ana", "ana@example.com")
	ctx := context.Background()

	// Ativa o 2FA direto no repositório
	stored, _ := env.users.GetByID(user.ID)
	stored.TOTPSecret = "JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXP"
	stored.TOTPEnabled = true
	require.NoError(t, env.users.Update(stored))

	login, err := env.uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "Valid123!"})
	require.NoError(t, err)
	require.Equal(t, dto.LoginStatusTOTPRequired, login.Status)

	_, err = env.uc.TOTPVerify(ctx, login.SessionID, "000000", "10.0.0.1")
	assert.ErrorIs(t, err, domain.ErrInvalidTOTPCode)

	code, err := ptotp.GenerateCode(stored.TOTPSecret, time.Now())
	require.NoError(t, err)
	tok, err := env.uc.TOTPVerify(ctx, login.SessionID, code, "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)

	// Sessão consumida
	_, err = env.uc.TOTPVerify(ctx, login.SessionID, code, "10.0.0.1")
	assert.ErrorIs(t, err, domain.ErrSessionExpired)

	last := env.logs.entries[len(env.logs.entries)-1]
	assert.Equal(t, "Login realizado", last.Acao)
	assert.Contains(t, last.Detalhes, "IP: 10.0.0.1")
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv()
	user := registerUser(t, env, "ana", "ana@example.com")
	ctx := context.Background()

	resp, err := env.uc.ForgotPassword(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Len(t, env.mailer.sent, 1)
	assert.Equal(t, "ana@example.com", env.mailer.sent[0].to)
	assert.Equal(t, "Token de Reset - Sistema de Estoque", env.mailer.sent[0].subject)

	sess := env.sessions.resets[resp.SessionID]
	require.NotNil(t, sess)
	assert.Len(t, sess.Token, 6)
	assert.Contains(t, env.mailer.sent[0].body, sess.Token)

	// Troca sem verificar o token é recusada
	err = env.uc.ResetPassword(ctx, dto.ResetPasswordRequest{
		SessionID: resp.SessionID, Token: sess.Token,
		NovaSenha: "Nova123!", ConfirmarSenha: "Nova123!",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	err = env.uc.VerifyResetToken(ctx, resp.SessionID, "999999")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	require.NoError(t, env.uc.VerifyResetToken(ctx, resp.SessionID, sess.Token))

	err = env.uc.ResetPassword(ctx, dto.ResetPasswordRequest{
		SessionID: resp.SessionID, Token: sess.Token,
		NovaSenha: "Nova123!", ConfirmarSenha: "Outra123!",
	})
	assert.ErrorIs(t, err, domain.ErrPasswordMismatch)

	require.NoError(t, env.uc.ResetPassword(ctx, dto.ResetPasswordRequest{
		SessionID: resp.SessionID, Token: sess.Token,
		NovaSenha: "Nova123!", ConfirmarSenha: "Nova123!",
	}))

	stored, _ := env.users.GetByID(user.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Nova123!")))

	// Sessão encerrada após a troca
	err = env.uc.ResetPassword(ctx, dto.ResetPasswordRequest{
		SessionID: resp.SessionID, Token: sess.Token,
		NovaSenha: "Nova123!", ConfirmarSenha: "Nova123!",
	})
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	env := newTestEnv()

	_, err := env.uc.ForgotPassword(context.Background(), "ninguem@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Empty(t, env.mailer.sent)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv()
	user := registerUser(t, env, "ana", "ana@example.com")
	ctx := context.Background()

	updated, err := env.uc.UpdateProfile(ctx, user.ID, dto.UpdateProfileRequest{
		Nome: "Ana Paula", Telefone: "+5511999990000",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Paula", updated.Nome)
	assert.Equal(t, "+5511999990000", updated.Telefone)

	_, err = env.uc.UpdateProfile(ctx, user.ID, dto.UpdateProfileRequest{NovaSenha: "fraca"})
	require.Error(t, err)
	assert.True(t, password.IsPolicyError(err))

	last := env.logs.entries[len(env.logs.entries)-1]
	assert.Equal(t, "Perfil atualizado", last.Acao)
}

func TestDeleteAccountAnonymizes(t *testing.T) {
	env := newTestEnv()
	user := registerUser(t, env, "ana", "ana@example.com")

	require.NoError(t, env.uc.DeleteAccount(context.Background(), user.ID))

	// Usuário removido
	gone, _ := env.users.GetByID(user.ID)
	assert.Nil(t, gone)

	// Reassign em solicitações, entradas, saídas, movimentações e logs
	assert.Len(t, env.anon.reassigned, 5)
	for _, r := range env.anon.reassigned {
		assert.Equal(t, "ana->"+entity.AnonymizedUsername, r)
	}

	// Logs antigos da ana ficaram anônimos; o log da exclusão também
	for _, l := range env.logs.entries {
		assert.NotEqual(t, "ana", l.Usuario)
	}
}
