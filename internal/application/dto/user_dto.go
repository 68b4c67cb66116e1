package dto

import (
	"time"

	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
)

// CreateUserRequest cadastro feito pelo superadmin (escolhe o nível).
type CreateUserRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Nome        string `json:"nome"`
	Sobrenome   string `json:"sobrenome"`
	Telefone    string `json:"telefone"`
	NivelAcesso string `json:"nivel_acesso"`
}

// UpdateProfileRequest atualização do próprio perfil; NovaSenha opcional.
type UpdateProfileRequest struct {
	Nome      string `json:"nome"`
	Sobrenome string `json:"sobrenome"`
	Email     string `json:"email"`
	Telefone  string `json:"telefone"`
	NovaSenha string `json:"nova_senha"`
}

// UserResponse usuário sem campos sensíveis (hash, secret TOTP).
type UserResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Telefone    string    `json:"telefone"`
	Nome        string    `json:"nome"`
	Sobrenome   string    `json:"sobrenome"`
	NivelAcesso string    `json:"nivel_acesso"`
	IsVerified  bool      `json:"is_verified"`
	TOTPEnabled bool      `json:"totp_enabled"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToUserResponse converte a entidade omitindo credenciais.
func ToUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Telefone:    u.Telefone,
		Nome:        u.Nome,
		Sobrenome:   u.Sobrenome,
		NivelAcesso: u.NivelAcesso,
		IsVerified:  u.IsVerified,
		TOTPEnabled: u.TOTPEnabled,
		CreatedAt:   u.CreatedAt,
	}
}
