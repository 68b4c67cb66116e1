package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vbeltrame/stockflow-api/internal/application/dto"
	"github.com/vbeltrame/stockflow-api/internal/domain"
	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
	"github.com/vbeltrame/stockflow-api/internal/domain/password"
	"github.com/vbeltrame/stockflow-api/internal/domain/repository"
)

// UserUseCase gestão de usuários pelo superadmin: cadastro com nível de
// acesso escolhido, listagem e reset do 2FA.
type UserUseCase struct {
	repo    repository.UserRepository
	logRepo repository.LogRepository
}

// NewUserUseCase constrói o caso de uso.
func NewUserUseCase(repo repository.UserRepository, logRepo repository.LogRepository) *UserUseCase {
	return &UserUseCase{repo: repo, logRepo: logRepo}
}

// Create cadastra um usuário com o nível de acesso informado.
func (uc *UserUseCase) Create(criador string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	switch in.NivelAcesso {
	case entity.NivelComum, entity.NivelAdmin, entity.NivelSuperadmin:
	default:
		return nil, domain.ErrInvalidInput
	}
	if in.Username == "" || in.Email == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := password.Validate(in.Password); err != nil {
		return nil, err
	}
	if existing, err := uc.repo.GetByUsername(in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrUsernameTaken
	}
	if existing, err := uc.repo.GetByEmail(in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash senha: %w", err)
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		Telefone:     in.Telefone,
		Nome:         in.Nome,
		Sobrenome:    in.Sobrenome,
		PasswordHash: string(hash),
		NivelAcesso:  in.NivelAcesso,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(user); err != nil {
		return nil, err
	}

	_ = uc.logRepo.Create(&entity.LogEntry{
		ID:       uuid.New().String(),
		Acao:     "Usuário cadastrado",
		Usuario:  criador,
		Detalhes: fmt.Sprintf("Novo usuário cadastrado: %s (%s)", user.Username, user.Email),
		DataHora: now,
	})
	return dto.ToUserResponse(user), nil
}

// List lista todos os usuários, ordenados por username.
func (uc *UserUseCase) List() ([]*dto.UserResponse, error) {
	users, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.ToUserResponse(u))
	}
	return out, nil
}

// GetByID busca um usuário por ID.
func (uc *UserUseCase) GetByID(id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return dto.ToUserResponse(user), nil
}

// ResetTOTP zera o 2FA de outro usuário. No próximo login ele passa pelo
// setup de novo.
func (uc *UserUseCase) ResetTOTP(id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	user.TOTPSecret = ""
	user.TOTPEnabled = false
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(user); err != nil {
		return nil, err
	}
	return dto.ToUserResponse(user), nil
}
