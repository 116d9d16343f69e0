package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/warelabs/taskterm/internal/domain/model/stock"
	"github.com/warelabs/taskterm/internal/domain/repository"
)

// ProductRepositoryImpl implements repository.ProductLookup with SQLite
type ProductRepositoryImpl struct {
	db *sql.DB
}

// NewProductRepository creates a new SQLite-based product lookup
func NewProductRepository(db *sql.DB) repository.ProductLookup {
	return &ProductRepositoryImpl{db: db}
}

const productColumns = `p.id, p.code, p.name, IFNULL(p.classifier_id, '')`

func (r *ProductRepositoryImpl) scanProduct(ctx context.Context, row *sql.Row) (*stock.Product, error) {
	var p stock.Product
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.ClassifierID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan product failed: %w", err)
	}
	if err := r.loadBarcodes(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepositoryImpl) loadBarcodes(ctx context.Context, p *stock.Product) error {
	rows, err := r.db.QueryContext(ctx, `SELECT barcode FROM product_barcodes WHERE product_id = ? ORDER BY barcode`, p.ID)
	if err != nil {
		return fmt.Errorf("load barcodes failed: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return fmt.Errorf("scan barcode failed: %w", err)
		}
		p.Barcodes = append(p.Barcodes, b)
	}
	return rows.Err()
}

// ResolveByBarcode resolves a product by one of its barcodes
func (r *ProductRepositoryImpl) ResolveByBarcode(ctx context.Context, barcode string) (*stock.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		JOIN product_barcodes b ON b.product_id = p.id
		WHERE b.barcode = ?
	`
	return r.scanProduct(ctx, r.db.QueryRowContext(ctx, query, normalizeCode(barcode)))
}

// ResolveByCode resolves a product by its primary code
func (r *ProductRepositoryImpl) ResolveByCode(ctx context.Context, code string) (*stock.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.code = ?`
	return r.scanProduct(ctx, r.db.QueryRowContext(ctx, query, normalizeCode(code)))
}

// ResolveClassifier resolves a product classifier by code
func (r *ProductRepositoryImpl) ResolveClassifier(ctx context.Context, code string) (*stock.ProductClassifier, error) {
	query := `SELECT id, code, name FROM product_classifiers WHERE code = ?`

	var c stock.ProductClassifier
	err := r.db.QueryRowContext(ctx, query, normalizeCode(code)).Scan(&c.ID, &c.Code, &c.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve classifier failed: %w", err)
	}
	return &c, nil
}

// Search returns products whose code or name contains the query
func (r *ProductRepositoryImpl) Search(ctx context.Context, query string, limit int) ([]*stock.Product, error) {
	stmt := `
		SELECT ` + productColumns + `
		FROM products p
		WHERE p.code LIKE ? OR p.name LIKE ?
		ORDER BY p.code
		LIMIT ?
	`
	needle := "%" + normalizeCode(query) + "%"
	rows, err := r.db.QueryContext(ctx, stmt, needle, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search products failed: %w", err)
	}
	defer rows.Close()

	var products []*stock.Product
	for rows.Next() {
		var p stock.Product
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.ClassifierID); err != nil {
			return nil, fmt.Errorf("scan product failed: %w", err)
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range products {
		if err := r.loadBarcodes(ctx, p); err != nil {
			return nil, err
		}
	}
	return products, nil
}

// Insert stores a product with its barcodes, replacing any existing rows
func (r *ProductRepositoryImpl) Insert(ctx context.Context, p *stock.Product) error {
	query := `
		INSERT INTO products (id, code, name, classifier_id) VALUES (?, ?, ?, NULLIF(?, ''))
		ON CONFLICT(id) DO UPDATE SET
			code = excluded.code,
			name = excluded.name,
			classifier_id = excluded.classifier_id
	`
	if _, err := r.db.ExecContext(ctx, query, p.ID, normalizeCode(p.Code), p.Name, p.ClassifierID); err != nil {
		return fmt.Errorf("insert product failed: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM product_barcodes WHERE product_id = ?`, p.ID); err != nil {
		return fmt.Errorf("reset product barcodes failed: %w", err)
	}
	for _, b := range p.Barcodes {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO product_barcodes (barcode, product_id) VALUES (?, ?)
			 ON CONFLICT(barcode) DO UPDATE SET product_id = excluded.product_id`,
			normalizeCode(b), p.ID)
		if err != nil {
			return fmt.Errorf("insert barcode failed: %w", err)
		}
	}
	return nil
}

// InsertClassifier stores a product classifier
func (r *ProductRepositoryImpl) InsertClassifier(ctx context.Context, c *stock.ProductClassifier) error {
	query := `
		INSERT INTO product_classifiers (id, code, name) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET code = excluded.code, name = excluded.name
	`
	_, err := r.db.ExecContext(ctx, query, c.ID, normalizeCode(c.Code), c.Name)
	if err != nil {
		return fmt.Errorf("insert classifier failed: %w", err)
	}
	return nil
}
