package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/fitinbox/internal/domain/errors"
	"github.com/polkiloo/fitinbox/internal/domain/model"
)

// seedProducts installs the default menu on a fresh database. Existing rows
// are left alone so prices edited in the database survive restarts.
const seedProducts = `INSERT INTO products (id, name, description, price, active, position) VALUES
            ('frango-batata-doce', 'Frango grelhado com batata doce', 'Peito de frango, batata doce e legumes', 18.90, TRUE, 1),
            ('carne-arroz-integral', 'Carne moída com arroz integral', 'Patinho moído, arroz integral e brócolis', 19.90, TRUE, 2),
            ('tilapia-pure', 'Tilápia com purê de mandioquinha', 'Filé de tilápia e purê de mandioquinha', 22.90, TRUE, 3),
            ('escondidinho-frango', 'Escondidinho de frango', 'Frango desfiado com purê de abóbora', 17.90, TRUE, 4),
            ('strogonoff-fit', 'Strogonoff fit', 'Strogonoff de frango com iogurte e arroz', 19.50, TRUE, 5)
        ON CONFLICT (id) DO NOTHING`

const selectProduct = `SELECT id, name, description, price::text, active FROM products`

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	var price string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.Active); err != nil {
		return p, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return p, err
	}
	p.Price = d
	return p, nil
}

func (c *productCatalog) ListActive(ctx context.Context) ([]model.Product, error) {
	rows, err := c.storage.pool.Query(ctx, selectProduct+` WHERE active ORDER BY position, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *productCatalog) GetByID(ctx context.Context, id string) (*model.Product, error) {
	p, err := scanProduct(c.storage.pool.QueryRow(ctx, selectProduct+` WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
