package repository

import "github.com/vbeltrame/stockflow-api/internal/domain/entity"

// UserRepository porto de persistência de usuários.
// Create devolve domain.ErrUsernameTaken / domain.ErrEmailTaken em violação
// de unicidade; lookups devolvem (nil, nil) quando não há registro.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	List() ([]*entity.User, error)
	ListAdmins() ([]*entity.User, error)
	Delete(id string) error
}
