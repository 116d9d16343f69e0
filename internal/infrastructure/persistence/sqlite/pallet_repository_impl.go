package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/warelabs/taskterm/internal/domain/model/stock"
	"github.com/warelabs/taskterm/internal/domain/repository"
)

// PalletRepositoryImpl implements repository.PalletLookup with SQLite
type PalletRepositoryImpl struct {
	db *sql.DB
}

// NewPalletRepository creates a new SQLite-based pallet lookup
func NewPalletRepository(db *sql.DB) repository.PalletLookup {
	return &PalletRepositoryImpl{db: db}
}

// ResolveByCode resolves a pallet by its exact (normalized) label code
func (r *PalletRepositoryImpl) ResolveByCode(ctx context.Context, code string) (*stock.Pallet, error) {
	query := `SELECT id, code FROM pallets WHERE code = ?`

	var p stock.Pallet
	err := r.db.QueryRowContext(ctx, query, normalizeCode(code)).Scan(&p.ID, &p.Code)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve pallet failed: %w", err)
	}
	return &p, nil
}

// Search returns pallets whose code contains the query, code order
func (r *PalletRepositoryImpl) Search(ctx context.Context, query string, limit int) ([]*stock.Pallet, error) {
	stmt := `SELECT id, code FROM pallets WHERE code LIKE ? ORDER BY code LIMIT ?`

	rows, err := r.db.QueryContext(ctx, stmt, "%"+normalizeCode(query)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search pallets failed: %w", err)
	}
	defer rows.Close()

	var pallets []*stock.Pallet
	for rows.Next() {
		var p stock.Pallet
		if err := rows.Scan(&p.ID, &p.Code); err != nil {
			return nil, fmt.Errorf("scan pallet failed: %w", err)
		}
		pallets = append(pallets, &p)
	}
	return pallets, rows.Err()
}

// Insert stores a pallet, replacing any existing row with the same id
func (r *PalletRepositoryImpl) Insert(ctx context.Context, p *stock.Pallet) error {
	query := `
		INSERT INTO pallets (id, code) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET code = excluded.code
	`
	_, err := r.db.ExecContext(ctx, query, p.ID, normalizeCode(p.Code))
	if err != nil {
		return fmt.Errorf("insert pallet failed: %w", err)
	}
	return nil
}
