package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vbeltrame/stockflow-api/internal/domain"
	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
	"github.com/vbeltrame/stockflow-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, username, email, telefone, nome, sobrenome, password_hash, nivel_acesso, is_verified, totp_secret, totp_enabled, created_at, updated_at`

// UserRepo implementação do porto UserRepository sobre PostgreSQL (pool ou tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository constrói o adaptador de persistência de usuários.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste um novo usuário. Mapeia a violação de unicidade para o
// erro de domínio da coluna atingida.
func (r *UserRepo) Create(user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		user.ID, user.Username, user.Email, user.Telefone, user.Nome, user.Sobrenome,
		user.PasswordHash, user.NivelAcesso, user.IsVerified, user.TOTPSecret, user.TOTPEnabled,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(violatedConstraint(err), "email") {
				return domain.ErrEmailTaken
			}
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID busca um usuário por ID.
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	return r.getBy(`id = $1`, id)
}

// GetByUsername busca um usuário por username.
func (r *UserRepo) GetByUsername(username string) (*entity.User, error) {
	return r.getBy(`username = $1`, username)
}

// GetByEmail busca um usuário por email.
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	return r.getBy(`email = $1`, email)
}

func (r *UserRepo) getBy(where string, arg any) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	var u entity.User
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.Telefone, &u.Nome, &u.Sobrenome,
		&u.PasswordHash, &u.NivelAcesso, &u.IsVerified, &u.TOTPSecret, &u.TOTPEnabled,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Update atualiza os dados mutáveis do usuário.
func (r *UserRepo) Update(user *entity.User) error {
	query := `
		UPDATE users
		SET email = $2, telefone = $3, nome = $4, sobrenome = $5, password_hash = $6,
		    nivel_acesso = $7, is_verified = $8, totp_secret = $9, totp_enabled = $10, updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		user.ID, user.Email, user.Telefone, user.Nome, user.Sobrenome, user.PasswordHash,
		user.NivelAcesso, user.IsVerified, user.TOTPSecret, user.TOTPEnabled, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("update user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List lista todos os usuários ordenados por username.
func (r *UserRepo) List() ([]*entity.User, error) {
	return r.list(`SELECT ` + userColumns + ` FROM users ORDER BY username`)
}

// ListAdmins lista usuários admin e superadmin (destinatários de avisos).
func (r *UserRepo) ListAdmins() ([]*entity.User, error) {
	return r.list(`SELECT ` + userColumns + ` FROM users WHERE nivel_acesso IN ('admin', 'superadmin') ORDER BY username`)
}

func (r *UserRepo) list(query string) ([]*entity.User, error) {
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.Telefone, &u.Nome, &u.Sobrenome,
			&u.PasswordHash, &u.NivelAcesso, &u.IsVerified, &u.TOTPSecret, &u.TOTPEnabled,
			&u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// Delete remove o usuário por ID.
func (r *UserRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
