package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/warelabs/taskterm/internal/domain/model/stock"
	"github.com/warelabs/taskterm/internal/domain/repository"
)

// BinRepositoryImpl implements repository.BinLookup with SQLite
type BinRepositoryImpl struct {
	db *sql.DB
}

// NewBinRepository creates a new SQLite-based bin lookup
func NewBinRepository(db *sql.DB) repository.BinLookup {
	return &BinRepositoryImpl{db: db}
}

// ResolveByCode resolves a bin by its exact (normalized) code
func (r *BinRepositoryImpl) ResolveByCode(ctx context.Context, code string) (*stock.Bin, error) {
	query := `SELECT id, code, zone FROM bins WHERE code = ?`

	var b stock.Bin
	err := r.db.QueryRowContext(ctx, query, normalizeCode(code)).Scan(&b.ID, &b.Code, &b.Zone)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve bin failed: %w", err)
	}
	return &b, nil
}

// Search returns bins whose code contains the query, code order
func (r *BinRepositoryImpl) Search(ctx context.Context, query string, limit int) ([]*stock.Bin, error) {
	stmt := `SELECT id, code, zone FROM bins WHERE code LIKE ? ORDER BY code LIMIT ?`

	rows, err := r.db.QueryContext(ctx, stmt, "%"+normalizeCode(query)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search bins failed: %w", err)
	}
	defer rows.Close()

	var bins []*stock.Bin
	for rows.Next() {
		var b stock.Bin
		if err := rows.Scan(&b.ID, &b.Code, &b.Zone); err != nil {
			return nil, fmt.Errorf("scan bin failed: %w", err)
		}
		bins = append(bins, &b)
	}
	return bins, rows.Err()
}

// Insert stores a bin, replacing any existing row with the same id
func (r *BinRepositoryImpl) Insert(ctx context.Context, b *stock.Bin) error {
	query := `
		INSERT INTO bins (id, code, zone) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET code = excluded.code, zone = excluded.zone
	`
	_, err := r.db.ExecContext(ctx, query, b.ID, normalizeCode(b.Code), b.Zone)
	if err != nil {
		return fmt.Errorf("insert bin failed: %w", err)
	}
	return nil
}
