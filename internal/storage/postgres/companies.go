package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/fitinbox/internal/domain/errors"
	"github.com/polkiloo/fitinbox/internal/domain/model"
)

const selectCompany = `SELECT id, cnpj, name, password_hash, role, created_at FROM companies`

func (r *companyRepository) Create(ctx context.Context, company model.Company) (*model.Company, error) {
	const query = `INSERT INTO companies (id, cnpj, name, password_hash, role) VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	company.ID = uuid.NewString()
	if company.Role == "" {
		company.Role = model.RoleCompany
	}
	err := r.storage.pool.QueryRow(ctx, query, company.ID, company.CNPJ, company.Name, company.PasswordHash, string(company.Role)).Scan(&company.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) GetByCNPJ(ctx context.Context, cnpj string) (*model.Company, error) {
	return r.getOne(ctx, selectCompany+` WHERE cnpj=$1`, cnpj)
}

func (r *companyRepository) GetByID(ctx context.Context, id string) (*model.Company, error) {
	return r.getOne(ctx, selectCompany+` WHERE id=$1`, id)
}

func (r *companyRepository) getOne(ctx context.Context, query string, arg string) (*model.Company, error) {
	var c model.Company
	var role string
	err := r.storage.pool.QueryRow(ctx, query, arg).Scan(&c.ID, &c.CNPJ, &c.Name, &c.PasswordHash, &role, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	c.Role = model.Role(role)
	return &c, nil
}

func (r *companyRepository) List(ctx context.Context) ([]model.Company, error) {
	rows, err := r.storage.pool.Query(ctx, selectCompany+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Company
	for rows.Next() {
		var c model.Company
		var role string
		if err := rows.Scan(&c.ID, &c.CNPJ, &c.Name, &c.PasswordHash, &role, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Role = model.Role(role)
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a company account. The administrator row is locked and
// refused inside the same transaction, so a concurrent role change cannot
// slip between the check and the delete.
func (r *companyRepository) Delete(ctx context.Context, id string) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var role string
		err := tx.QueryRow(ctx, `SELECT role FROM companies WHERE id=$1 FOR UPDATE`, id).Scan(&role)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if model.Role(role) == model.RoleAdmin {
			return domainErrors.ErrProtectedAccount
		}

		tag, err := tx.Exec(ctx, `DELETE FROM companies WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}
		return nil
	})
}
