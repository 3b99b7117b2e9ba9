package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

const productColumns = `id::text, name, description, price, quantity, category`

// PostgresStore keeps products in the products table (see internal/db/migrations).
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.pool.Ping(ctx)
	})
}

func (s *PostgresStore) List(ctx context.Context) ([]Product, error) {
	var out []Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx, `
			SELECT `+productColumns+`
			FROM products
			ORDER BY created_at ASC, id ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Product, 0, 16)
		for rows.Next() {
			p, err := scanProduct(rows)
			if err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Product, bool, error) {
	if !validID(id) {
		return Product{}, false, nil
	}

	var p Product
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		var err error
		p, err = scanProduct(s.pool.QueryRow(ctx, `
			SELECT `+productColumns+`
			FROM products
			WHERE id = $1
		`, id))
		return err
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, fmt.Errorf("getting product %s: %w", id, err)
	}
	return p, true, nil
}

func (s *PostgresStore) Create(ctx context.Context, p Product) (Product, error) {
	var created Product
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		var err error
		created, err = scanProduct(s.pool.QueryRow(ctx, `
			INSERT INTO products (id, name, description, price, quantity, category)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+productColumns,
			newID(), p.Name, p.Description, p.Price, p.Quantity, p.Category.String()))
		return err
	})
	if err != nil {
		return Product{}, fmt.Errorf("creating product: %w", err)
	}
	return created, nil
}

func (s *PostgresStore) Update(ctx context.Context, id string, p Product) (Product, bool, error) {
	if !validID(id) {
		return Product{}, false, nil
	}

	var updated Product
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		var err error
		updated, err = scanProduct(s.pool.QueryRow(ctx, `
			UPDATE products
			SET name = $2, description = $3, price = $4, quantity = $5, category = $6
			WHERE id = $1
			RETURNING `+productColumns,
			id, p.Name, p.Description, p.Price, p.Quantity, p.Category.String()))
		return err
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, fmt.Errorf("updating product %s: %w", id, err)
	}
	return updated, true, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("deleting product %s: %w", id, err)
	}
	return nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p        Product
		category string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity, &category); err != nil {
		return Product{}, err
	}

	c, err := ParseCategory(category)
	if err != nil {
		return Product{}, err
	}
	p.Category = c
	return p, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
