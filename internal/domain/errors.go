package domain

import "errors"

// Erros de domínio (sem dependências externas).
var (
	ErrNotFound           = errors.New("recurso não encontrado")
	ErrUserNotFound       = errors.New("usuário não encontrado")
	ErrProductNotFound    = errors.New("produto não encontrado")
	ErrRequestNotFound    = errors.New("solicitação não encontrada")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUsernameTaken      = errors.New("usuário já existe")
	ErrEmailTaken         = errors.New("email já cadastrado")
	ErrCodigoTaken        = errors.New("código do produto já existe")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidQuantity    = errors.New("quantidade deve ser maior que zero")
	ErrMissingDestino     = errors.New("campo destino é obrigatório")
	ErrUnauthorized       = errors.New("não autorizado")
	ErrForbidden          = errors.New("acesso negado")
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	ErrInvalidTOTPCode    = errors.New("código inválido")
	ErrSessionExpired     = errors.New("sessão expirada")
	ErrInvalidToken       = errors.New("token inválido")
	ErrPasswordMismatch   = errors.New("senhas não coincidem")
)

// InsufficientStockError carrega as quantidades para a mensagem ao usuário
// ("Disponível: N, Solicitado: M").
type InsufficientStockError struct {
	Disponivel int
	Solicitado int
}

func (e *InsufficientStockError) Error() string {
	return "estoque insuficiente"
}

// IsInsufficientStock devolve o erro tipado quando err é falta de estoque.
func IsInsufficientStock(err error) (*InsufficientStockError, bool) {
	var e *InsufficientStockError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
