package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vbeltrame/stockflow-api/internal/domain"
	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
	"github.com/vbeltrame/stockflow-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, nome, quantidade, local, codigo, carencia, created_at, updated_at`

// ProductRepo implementação do porto ProductRepository sobre PostgreSQL (pool ou tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository constrói o adaptador de persistência de produtos.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste um novo produto. Código duplicado vira ErrCodigoTaken.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Nome, product.Quantidade, product.Local,
		product.Codigo, product.Carencia, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCodigoTaken
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID busca um produto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.getBy(`id = $1`, id, "")
}

// GetByCodigo busca um produto pelo código.
func (r *ProductRepo) GetByCodigo(codigo string) (*entity.Product, error) {
	return r.getBy(`codigo = $1`, codigo, "")
}

// GetByCodigoForUpdate bloqueia a linha do produto (SELECT ... FOR UPDATE)
// para a sequência verificar-e-decrementar. Usar só dentro de transação.
func (r *ProductRepo) GetByCodigoForUpdate(codigo string) (*entity.Product, error) {
	return r.getBy(`codigo = $1`, codigo, " FOR UPDATE")
}

// GetByIDForUpdate bloqueia a linha do produto por ID.
func (r *ProductRepo) GetByIDForUpdate(id string) (*entity.Product, error) {
	return r.getBy(`id = $1`, id, " FOR UPDATE")
}

func (r *ProductRepo) getBy(where string, arg any, suffix string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE ` + where + suffix
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&p.ID, &p.Nome, &p.Quantidade, &p.Local, &p.Codigo, &p.Carencia,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// UpdateInfo atualiza nome, local e carência. Quantidade fica de fora:
// só muda via UpdateQuantidade dentro de transação.
func (r *ProductRepo) UpdateInfo(product *entity.Product) error {
	query := `
		UPDATE products SET nome = $2, local = $3, carencia = $4, updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		product.ID, product.Nome, product.Local, product.Carencia, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// UpdateQuantidade grava o novo saldo do produto.
func (r *ProductRepo) UpdateQuantidade(id string, quantidade int) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE products SET quantidade = $2, updated_at = now() WHERE id = $1`,
		id, quantidade,
	)
	if err != nil {
		return fmt.Errorf("update product quantidade: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// List lista produtos ordenados por nome, com filtro opcional por
// código/nome (substring, case-insensitive).
func (r *ProductRepo) List(filter repository.ProductFilter) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}
	if filter.Codigo != "" {
		args = append(args, "%"+filter.Codigo+"%")
		query += fmt.Sprintf(` AND codigo ILIKE $%d`, len(args))
	}
	if filter.Nome != "" {
		args = append(args, "%"+filter.Nome+"%")
		query += fmt.Sprintf(` AND nome ILIKE $%d`, len(args))
	}
	query += ` ORDER BY nome`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Nome, &p.Quantidade, &p.Local, &p.Codigo, &p.Carencia,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Delete remove um produto. As movimentações, entradas, saídas e
// solicitações do produto caem junto (FK ON DELETE CASCADE).
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
