package entity

import "time"

// Níveis de acesso válidos para User.
const (
	NivelComum      = "comum"
	NivelAdmin      = "admin"
	NivelSuperadmin = "superadmin"
)

// AnonymizedUsername substitui o username nos registros históricos quando a
// conta é excluída (entradas, saídas, solicitações, movimentações e logs).
const AnonymizedUsername = "Usuário Excluído"

// User representa um usuário do sistema de estoque.
type User struct {
	ID           string
	Username     string // único
	Email        string // único
	Telefone     string
	Nome         string
	Sobrenome    string
	PasswordHash string // hash bcrypt, nunca a senha em claro
	NivelAcesso  string // comum, admin, superadmin
	IsVerified   bool
	TOTPSecret   string // vazio enquanto o 2FA não foi configurado
	TOTPEnabled  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin indica se o usuário tem privilégios administrativos (admin ou superadmin).
func (u *User) IsAdmin() bool {
	return u.NivelAcesso == NivelAdmin || u.NivelAcesso == NivelSuperadmin
}
