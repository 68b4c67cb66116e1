package stock

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbeltrame/stockflow-api/internal/domain"
	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
	"github.com/vbeltrame/stockflow-api/internal/domain/repository"
)

// memStore guarda o estado compartilhado pelos repositórios fake.
type memStore struct {
	produtos      map[string]*entity.Product
	solicitacoes  map[string]*entity.Solicitacao
	entradas      []*entity.Entrada
	saidas        []*entity.Saida
	movimentacoes []*entity.Movimentacao
	logs          []*entity.LogEntry
}

func newMemStore() *memStore {
	return &memStore{
		produtos:     map[string]*entity.Product{},
		solicitacoes: map[string]*entity.Solicitacao{},
	}
}

func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	for id, p := range s.produtos {
		c := *p
		cp.produtos[id] = &c
	}
	for id, sol := range s.solicitacoes {
		c := *sol
		cp.solicitacoes[id] = &c
	}
	cp.entradas = append(cp.entradas, s.entradas...)
	cp.saidas = append(cp.saidas, s.saidas...)
	cp.movimentacoes = append(cp.movimentacoes, s.movimentacoes...)
	cp.logs = append(cp.logs, s.logs...)
	return cp
}

func (s *memStore) restore(from *memStore) {
	s.produtos = from.produtos
	s.solicitacoes = from.solicitacoes
	s.entradas = from.entradas
	s.saidas = from.saidas
	s.movimentacoes = from.movimentacoes
	s.logs = from.logs
}

type fakeProductRepo struct{ store *memStore }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.store.produtos[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	if p, ok := r.store.produtos[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByCodigo(codigo string) (*entity.Product, error) {
	for _, p := range r.store.produtos {
		if p.Codigo == codigo {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByCodigoForUpdate(codigo string) (*entity.Product, error) {
	return r.GetByCodigo(codigo)
}

func (r *fakeProductRepo) GetByIDForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) UpdateInfo(p *entity.Product) error { return nil }

func (r *fakeProductRepo) UpdateQuantidade(id string, quantidade int) error {
	p, ok := r.store.produtos[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Quantidade = quantidade
	return nil
}

func (r *fakeProductRepo) List(filter repository.ProductFilter) ([]*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) Delete(id string) error { return nil }

type fakeSolicitacaoRepo struct{ store *memStore }

func (r *fakeSolicitacaoRepo) Create(s *entity.Solicitacao) error {
	c := *s
	r.store.solicitacoes[s.ID] = &c
	return nil
}

func (r *fakeSolicitacaoRepo) GetByID(id string) (*entity.Solicitacao, error) {
	if s, ok := r.store.solicitacoes[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (r *fakeSolicitacaoRepo) Decide(id, status, aprovador string, quando time.Time) error {
	s, ok := r.store.solicitacoes[id]
	if !ok || s.Status != entity.StatusPendente {
		return domain.ErrRequestNotFound
	}
	s.Status = status
	s.Aprovador = aprovador
	s.DataAprovacao = &quando
	return nil
}

func (r *fakeSolicitacaoRepo) List(status string) ([]*entity.Solicitacao, error) {
	var out []*entity.Solicitacao
	for _, s := range r.store.solicitacoes {
		if status == "" || s.Status == status {
			c := *s
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeSolicitacaoRepo) ReassignUsuario(de, para string) error { return nil }

type fakeEntradaRepo struct{ store *memStore }

func (r *fakeEntradaRepo) Create(e *entity.Entrada) error {
	r.store.entradas = append(r.store.entradas, e)
	return nil
}

func (r *fakeEntradaRepo) ListByProduto(produtoID string) ([]*entity.Entrada, error) {
	return r.store.entradas, nil
}

func (r *fakeEntradaRepo) ReassignUsuario(de, para string) error { return nil }

type fakeSaidaRepo struct{ store *memStore }

func (r *fakeSaidaRepo) Create(s *entity.Saida) error {
	r.store.saidas = append(r.store.saidas, s)
	return nil
}

func (r *fakeSaidaRepo) ListByProduto(produtoID string) ([]*entity.Saida, error) {
	return r.store.saidas, nil
}

func (r *fakeSaidaRepo) ReassignUsuario(de, para string) error { return nil }

type fakeMovimentacaoRepo struct{ store *memStore }

func (r *fakeMovimentacaoRepo) Create(m *entity.Movimentacao) error {
	r.store.movimentacoes = append(r.store.movimentacoes, m)
	return nil
}

func (r *fakeMovimentacaoRepo) GetByID(id string) (*repository.MovimentacaoComProduto, error) {
	return nil, nil
}

func (r *fakeMovimentacaoRepo) List(filter repository.MovimentacaoFilter, limit int) ([]*repository.MovimentacaoComProduto, error) {
	return nil, nil
}

func (r *fakeMovimentacaoRepo) ReassignUsuario(de, para string) error { return nil }

type fakeLogRepo struct{ store *memStore }

func (r *fakeLogRepo) Create(l *entity.LogEntry) error {
	r.store.logs = append(r.store.logs, l)
	return nil
}

func (r *fakeLogRepo) List(filter repository.LogFilter, limit, offset int) ([]*entity.LogEntry, int, error) {
	return r.store.logs, len(r.store.logs), nil
}

func (r *fakeLogRepo) ReassignUsuario(de, para string) error { return nil }

// fakeTxRunner aplica o callback sobre o estado em memória e desfaz tudo
// se fn devolver erro, imitando o Rollback.
type fakeTxRunner struct{ store *memStore }

func (t *fakeTxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	solicitacaoRepo repository.SolicitacaoRepository,
	entradaRepo repository.EntradaRepository,
	saidaRepo repository.SaidaRepository,
	movimentacaoRepo repository.MovimentacaoRepository,
	logRepo repository.LogRepository,
) error) error {
	snap := t.store.snapshot()
	err := fn(
		&fakeProductRepo{store: t.store},
		&fakeSolicitacaoRepo{store: t.store},
		&fakeEntradaRepo{store: t.store},
		&fakeSaidaRepo{store: t.store},
		&fakeMovimentacaoRepo{store: t.store},
		&fakeLogRepo{store: t.store},
	)
	if err != nil {
		t.store.restore(snap)
	}
	return err
}

type fakeNotifier struct {
	created   int
	approved  int
	rejected  int
	entries   int
	withdraws int
}

func (n *fakeNotifier) RequestCreated(p *entity.Product, s *entity.Solicitacao)  { n.created++ }
func (n *fakeNotifier) RequestApproved(p *entity.Product, s *entity.Solicitacao) { n.approved++ }
func (n *fakeNotifier) RequestRejected(p *entity.Product, s *entity.Solicitacao) { n.rejected++ }
func (n *fakeNotifier) StockEntry(p *entity.Product, q int, u string)            { n.entries++ }
func (n *fakeNotifier) WithdrawalDone(p *entity.Product, q int, d, u string)     { n.withdraws++ }

func newTestUseCase(store *memStore) (*UseCase, *fakeNotifier) {
	notifier := &fakeNotifier{}
	uc := NewUseCase(
		&fakeTxRunner{store: store},
		&fakeSolicitacaoRepo{store: store},
		&fakeProductRepo{store: store},
		notifier,
	)
	return uc, notifier
}

func seedProduct(store *memStore, codigo string, quantidade int) *entity.Product {
	p := &entity.Product{
		ID:         "prod-" + codigo,
		Nome:       "Parafuso M6",
		Quantidade: quantidade,
		Local:      "Prateleira A1",
		Codigo:     codigo,
		Carencia:   10,
	}
	store.produtos[p.ID] = p
	return p
}

func TestCreateRequest(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "TEST001", 50)
	uc, notifier := newTestUseCase(store)

	sol, err := uc.CreateRequest(context.Background(), CreateRequestInput{
		Codigo:      "TEST001",
		Quantidade:  5,
		Destino:     "Obra Central",
		Solicitante: "joao",
	})
	require.NoError(t, err)
	require.NotNil(t, sol)

	assert.Equal(t, entity.StatusPendente, sol.Status)
	assert.Equal(t, "joao", sol.Solicitante)
	assert.Equal(t, "prod-TEST001", sol.ProdutoID)

	// Abrir solicitação não mexe em estoque
	assert.Equal(t, 50, store.produtos["prod-TEST001"].Quantidade)

	require.Len(t, store.movimentacoes, 1)
	mov := store.movimentacoes[0]
	assert.Equal(t, entity.TipoSolicitacao, mov.Tipo)
	assert.Equal(t, sol.ID, mov.ReferenciaID)
	assert.Contains(t, mov.Observacao, "Destino: Obra Central")

	require.Len(t, store.logs, 1)
	assert.Equal(t, "Solicitação criada", store.logs[0].Acao)
	assert.Equal(t, 1, notifier.created)
}

func TestCreateRequestValidations(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "TEST001", 50)
	uc, _ := newTestUseCase(store)
	ctx := context.Background()

	_, err := uc.CreateRequest(ctx, CreateRequestInput{Codigo: "TEST001", Quantidade: 0, Destino: "Obra", Solicitante: "joao"})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.CreateRequest(ctx, CreateRequestInput{Codigo: "TEST001", Quantidade: -3, Destino: "Obra", Solicitante: "joao"})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.CreateRequest(ctx, CreateRequestInput{Codigo: "TEST001", Quantidade: 5, Destino: "", Solicitante: "joao"})
	assert.ErrorIs(t, err, domain.ErrMissingDestino)

	_, err = uc.CreateRequest(ctx, CreateRequestInput{Codigo: "NAOEXISTE", Quantidade: 5, Destino: "Obra", Solicitante: "joao"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	assert.Empty(t, store.solicitacoes)
	assert.Empty(t, store.movimentacoes)
}

func TestApproveExecutesWithdrawal(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "TEST001", 50)
	uc, notifier := newTestUseCase(store)
	ctx := context.Background()

	sol, err := uc.CreateRequest(ctx, CreateRequestInput{
		Codigo: "TEST001", Quantidade: 5, Destino: "Obra Central", Solicitante: "joao",
	})
	require.NoError(t, err)

	decided, err := uc.Approve(ctx, sol.ID, "maria")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusAtendida, decided.Status)
	assert.Equal(t, "maria", decided.Aprovador)
	require.NotNil(t, decided.DataAprovacao)

	// 50 - 5 = 45
	assert.Equal(t, 45, store.produtos["prod-TEST001"].Quantidade)

	require.Len(t, store.saidas, 1)
	assert.Equal(t, 5, store.saidas[0].Quantidade)
	assert.Equal(t, "Obra Central", store.saidas[0].Destino)
	assert.Equal(t, "maria", store.saidas[0].Usuario)

	// SOLICITACAO da abertura + RETIRADA da aprovação
	require.Len(t, store.movimentacoes, 2)
	ret := store.movimentacoes[1]
	assert.Equal(t, entity.TipoRetirada, ret.Tipo)
	assert.Equal(t, sol.ID, ret.ReferenciaID)
	assert.True(t, strings.Contains(ret.Observacao, "aprovada e retirada executada automaticamente"))

	require.Len(t, store.logs, 2)
	assert.Equal(t, "Solicitação aprovada", store.logs[1].Acao)
	assert.Equal(t, 1, notifier.approved)
}

func TestApproveInsufficientStock(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "TEST001", 3)
	uc, notifier := newTestUseCase(store)
	ctx := context.Background()

	sol, err := uc.CreateRequest(ctx, CreateRequestInput{
		Codigo: "TEST001", Quantidade: 5, Destino: "Obra", Solicitante: "joao",
	})
	require.NoError(t, err)

	_, err = uc.Approve(ctx, sol.ID, "maria")
	require.Error(t, err)
	ins, ok := domain.IsInsufficientStock(err)
	require.True(t, ok)
	assert.Equal(t, 3, ins.Disponivel)
	assert.Equal(t, 5, ins.Solicitado)

	// Nada muda: solicitação segue PENDENTE, estoque intacto, sem saída
	assert.Equal(t, entity.StatusPendente, store.solicitacoes[sol.ID].Status)
	assert.Equal(t, 3, store.produtos["prod-TEST001"].Quantidade)
	assert.Empty(t, store.saidas)
	assert.Equal(t, 0, notifier.approved)
}

func TestApproveAlreadyDecided(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "TEST001", 50)
	uc, _ := newTestUseCase(store)
	ctx := context.Background()

	sol, err := uc.CreateRequest(ctx, CreateRequestInput{
		Codigo: "TEST001", Quantidade: 5, Destino: "Obra", Solicitante: "joao",
	})
	require.NoError(t, err)

	_, err = uc.Approve(ctx, sol.ID, "maria")
	require.NoError(t, err)

	// Segunda decisão sobre a mesma solicitação não encontra PENDENTE
	_, err = uc.Approve(ctx, sol.ID, "pedro")
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
	_, err = uc.Reject(ctx, sol.ID, "pedro")
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)

	// Decrementou uma única vez
	assert.Equal(t, 45, store.produtos["prod-TEST001"].Quantidade)
	assert.Len(t, store.saidas, 1)
}

func TestReject(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "TEST001", 50)
	uc, notifier := newTestUseCase(store)
	ctx := context.Background()

	sol, err := uc.CreateRequest(ctx, CreateRequestInput{
		Codigo: "TEST001", Quantidade: 5, Destino: "Obra", Solicitante: "joao",
	})
	require.NoError(t, err)

	decided, err := uc.Reject(ctx, sol.ID, "maria")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusReprovada, decided.Status)
	assert.Equal(t, "maria", decided.Aprovador)
	require.NotNil(t, decided.DataAprovacao)

	// Reprovação não mexe em estoque nem gera saída/movimentação
	assert.Equal(t, 50, store.produtos["prod-TEST001"].Quantidade)
	assert.Empty(t, store.saidas)
	assert.Len(t, store.movimentacoes, 1) // só a SOLICITACAO da abertura

	require.Len(t, store.logs, 2)
	assert.Equal(t, "Solicitação reprovada", store.logs[1].Acao)
	assert.Equal(t, 1, notifier.rejected)
}

func TestEntry(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "TEST001", 50)
	uc, notifier := newTestUseCase(store)

	produto, err := uc.Entry(context.Background(), EntryInput{
		Codigo: "TEST001", Quantidade: 10, Usuario: "maria",
	})
	require.NoError(t, err)

	assert.Equal(t, 60, produto.Quantidade)
	assert.Equal(t, 60, store.produtos["prod-TEST001"].Quantidade)

	require.Len(t, store.entradas, 1)
	assert.Equal(t, 10, store.entradas[0].Quantidade)

	require.Len(t, store.movimentacoes, 1)
	assert.Equal(t, entity.TipoEntrada, store.movimentacoes[0].Tipo)
	assert.Equal(t, "Entrada de 10 unidades", store.movimentacoes[0].Observacao)

	require.Len(t, store.logs, 1)
	assert.Equal(t, "Entrada de produto", store.logs[0].Acao)
	assert.Equal(t, 1, notifier.entries)
}

func TestEntryValidations(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "TEST001", 50)
	uc, _ := newTestUseCase(store)
	ctx := context.Background()

	_, err := uc.Entry(ctx, EntryInput{Codigo: "TEST001", Quantidade: 0, Usuario: "maria"})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.Entry(ctx, EntryInput{Codigo: "NAOEXISTE", Quantidade: 5, Usuario: "maria"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	assert.Equal(t, 50, store.produtos["prod-TEST001"].Quantidade)
}

func TestWithdraw(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "TEST001", 50)
	uc, notifier := newTestUseCase(store)

	produto, err := uc.Withdraw(context.Background(), WithdrawInput{
		Codigo: "TEST001", Quantidade: 8, Destino: "Manutenção", Usuario: "maria",
	})
	require.NoError(t, err)

	assert.Equal(t, 42, produto.Quantidade)

	require.Len(t, store.saidas, 1)
	assert.Equal(t, "Manutenção", store.saidas[0].Destino)

	require.Len(t, store.movimentacoes, 1)
	assert.Equal(t, entity.TipoRetirada, store.movimentacoes[0].Tipo)
	assert.Equal(t, "Retirada direta de 8 unidades - Destino: Manutenção", store.movimentacoes[0].Observacao)
	assert.Empty(t, store.movimentacoes[0].ReferenciaID)

	require.Len(t, store.logs, 1)
	assert.Equal(t, "Retirada direta", store.logs[0].Acao)
	assert.Equal(t, 1, notifier.withdraws)
}

func TestWithdrawInsufficientStock(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "TEST001", 4)
	uc, _ := newTestUseCase(store)

	_, err := uc.Withdraw(context.Background(), WithdrawInput{
		Codigo: "TEST001", Quantidade: 9, Destino: "Obra", Usuario: "maria",
	})
	require.Error(t, err)
	ins, ok := domain.IsInsufficientStock(err)
	require.True(t, ok)
	assert.Equal(t, 4, ins.Disponivel)
	assert.Equal(t, 9, ins.Solicitado)

	assert.Equal(t, 4, store.produtos["prod-TEST001"].Quantidade)
	assert.Empty(t, store.saidas)
	assert.Empty(t, store.movimentacoes)
}

func TestWithdrawToZeroIsAllowed(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "TEST001", 5)
	uc, _ := newTestUseCase(store)

	produto, err := uc.Withdraw(context.Background(), WithdrawInput{
		Codigo: "TEST001", Quantidade: 5, Destino: "Obra", Usuario: "maria",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, produto.Quantidade)
}
