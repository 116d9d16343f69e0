package sqlite

import (
	"context"
	"database/sql"

	"github.com/warelabs/taskterm/internal/domain/model/stock"
	"github.com/warelabs/taskterm/internal/domain/repository"
)

// Store bundles the reference repositories over one database handle.
// It satisfies both the lookup interfaces (through its repositories) and
// the seed loader's writer surface.
type Store struct {
	db       *sql.DB
	bins     *BinRepositoryImpl
	pallets  *PalletRepositoryImpl
	products *ProductRepositoryImpl
}

// NewStore creates a store over an opened, migrated database
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:       db,
		bins:     &BinRepositoryImpl{db: db},
		pallets:  &PalletRepositoryImpl{db: db},
		products: &ProductRepositoryImpl{db: db},
	}
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Bins returns the bin lookup
func (s *Store) Bins() repository.BinLookup {
	return s.bins
}

// Pallets returns the pallet lookup
func (s *Store) Pallets() repository.PalletLookup {
	return s.pallets
}

// Products returns the product lookup
func (s *Store) Products() repository.ProductLookup {
	return s.products
}

// InsertBin stores a bin
func (s *Store) InsertBin(ctx context.Context, b *stock.Bin) error {
	return s.bins.Insert(ctx, b)
}

// InsertPallet stores a pallet
func (s *Store) InsertPallet(ctx context.Context, p *stock.Pallet) error {
	return s.pallets.Insert(ctx, p)
}

// InsertProduct stores a product with its barcodes
func (s *Store) InsertProduct(ctx context.Context, p *stock.Product) error {
	return s.products.Insert(ctx, p)
}

// InsertClassifier stores a product classifier
func (s *Store) InsertClassifier(ctx context.Context, c *stock.ProductClassifier) error {
	return s.products.InsertClassifier(ctx, c)
}
