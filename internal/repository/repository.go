package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"

	"github.com/lamanda20/ecommerce-backend/internal/domain"
)

// ErrProductNotFound is returned when no product exists for the requested id.
var ErrProductNotFound = errors.New("product not found")

type Repository struct {
	db *sql.DB
}

type ProductRepository interface {
	GetAllProducts(ctx context.Context, category string) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Close() error
	RunMigrations(string) error
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

// GetAllProducts lists the catalog, optionally filtered by category.
// An empty category means no filter.
func (r *Repository) GetAllProducts(ctx context.Context, category string) ([]*domain.Product, error) {
	query := `
		SELECT id, name, price, image_url, category, in_stock, variants
		FROM products
	`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, name, price, image_url, category, in_stock, variants
		FROM products
		WHERE id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var product *domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		product = p
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// CreateProduct inserts a new catalog record and returns it with the
// assigned id.
func (r *Repository) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (name, price, image_url, category, in_stock, variants)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Price,
		p.ImageURL,
		p.Category,
		p.InStock,
		p.Variants,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted id: %w", err)
	}

	created := *p
	created.ID = id
	return &created, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func scanProduct(rows *sql.Rows) (*domain.Product, error) {
	p := &domain.Product{}
	var imageURL, category, variants sql.NullString
	err := rows.Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&imageURL,
		&category,
		&p.InStock,
		&variants,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	p.ImageURL = imageURL.String
	p.Category = category.String
	p.Variants = variants.String
	return p, nil
}
