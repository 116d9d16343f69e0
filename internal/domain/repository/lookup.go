// Package repository declares the lookup interfaces the engine resolves
// scanned and typed values through. Implementations may be backed by a local
// cache, a database or a remote service; the engine does not care.
package repository

import (
	"context"

	"github.com/warelabs/taskterm/internal/domain/model/stock"
)

// BinLookup resolves storage/placement bins. ResolveByCode returns (nil, nil)
// when no bin carries the code; an error means the lookup itself failed.
type BinLookup interface {
	ResolveByCode(ctx context.Context, code string) (*stock.Bin, error)
	Search(ctx context.Context, query string, limit int) ([]*stock.Bin, error)
}

// PalletLookup resolves pallets by their label code
type PalletLookup interface {
	ResolveByCode(ctx context.Context, code string) (*stock.Pallet, error)
	Search(ctx context.Context, query string, limit int) ([]*stock.Pallet, error)
}

// ProductLookup resolves products. Scanned values are tried as a barcode
// first and as a product code second, matching scanner behavior on the floor.
type ProductLookup interface {
	ResolveByBarcode(ctx context.Context, barcode string) (*stock.Product, error)
	ResolveByCode(ctx context.Context, code string) (*stock.Product, error)
	ResolveClassifier(ctx context.Context, code string) (*stock.ProductClassifier, error)
	Search(ctx context.Context, query string, limit int) ([]*stock.Product, error)
}
