// Package cached wraps the lookup repositories with a TTL cache. Barcode
// resolution runs on every scan; reference data changes rarely enough that a
// short-lived cache removes almost all repeat queries without a staleness
// risk the operator would notice. Negative results are not cached: a code
// unknown one scan ago may have just been seeded.
package cached

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/warelabs/taskterm/internal/domain/model/stock"
	"github.com/warelabs/taskterm/internal/domain/repository"
)

// BinLookup decorates a repository.BinLookup with caching
type BinLookup struct {
	inner repository.BinLookup
	cache *gocache.Cache
}

// NewBinLookup creates a caching bin lookup with the given TTL
func NewBinLookup(inner repository.BinLookup, ttl time.Duration) *BinLookup {
	return &BinLookup{inner: inner, cache: gocache.New(ttl, 2*ttl)}
}

// ResolveByCode resolves a bin, serving repeat scans from the cache
func (l *BinLookup) ResolveByCode(ctx context.Context, code string) (*stock.Bin, error) {
	if v, ok := l.cache.Get(code); ok {
		return v.(*stock.Bin), nil
	}
	b, err := l.inner.ResolveByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if b != nil {
		l.cache.SetDefault(code, b)
	}
	return b, nil
}

// Search passes through; result sets are not worth caching
func (l *BinLookup) Search(ctx context.Context, query string, limit int) ([]*stock.Bin, error) {
	return l.inner.Search(ctx, query, limit)
}

// PalletLookup decorates a repository.PalletLookup with caching
type PalletLookup struct {
	inner repository.PalletLookup
	cache *gocache.Cache
}

// NewPalletLookup creates a caching pallet lookup with the given TTL
func NewPalletLookup(inner repository.PalletLookup, ttl time.Duration) *PalletLookup {
	return &PalletLookup{inner: inner, cache: gocache.New(ttl, 2*ttl)}
}

// ResolveByCode resolves a pallet, serving repeat scans from the cache
func (l *PalletLookup) ResolveByCode(ctx context.Context, code string) (*stock.Pallet, error) {
	if v, ok := l.cache.Get(code); ok {
		return v.(*stock.Pallet), nil
	}
	p, err := l.inner.ResolveByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if p != nil {
		l.cache.SetDefault(code, p)
	}
	return p, nil
}

// Search passes through; result sets are not worth caching
func (l *PalletLookup) Search(ctx context.Context, query string, limit int) ([]*stock.Pallet, error) {
	return l.inner.Search(ctx, query, limit)
}

// ProductLookup decorates a repository.ProductLookup with caching.
// Barcode and code namespaces are kept apart so a value that is both a
// barcode and another product's code cannot collide.
type ProductLookup struct {
	inner repository.ProductLookup
	cache *gocache.Cache
}

// NewProductLookup creates a caching product lookup with the given TTL
func NewProductLookup(inner repository.ProductLookup, ttl time.Duration) *ProductLookup {
	return &ProductLookup{inner: inner, cache: gocache.New(ttl, 2*ttl)}
}

// ResolveByBarcode resolves a product by barcode, cached
func (l *ProductLookup) ResolveByBarcode(ctx context.Context, barcode string) (*stock.Product, error) {
	key := "barcode:" + barcode
	if v, ok := l.cache.Get(key); ok {
		return v.(*stock.Product), nil
	}
	p, err := l.inner.ResolveByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if p != nil {
		l.cache.SetDefault(key, p)
	}
	return p, nil
}

// ResolveByCode resolves a product by code, cached
func (l *ProductLookup) ResolveByCode(ctx context.Context, code string) (*stock.Product, error) {
	key := "code:" + code
	if v, ok := l.cache.Get(key); ok {
		return v.(*stock.Product), nil
	}
	p, err := l.inner.ResolveByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if p != nil {
		l.cache.SetDefault(key, p)
	}
	return p, nil
}

// ResolveClassifier resolves a classifier by code, cached
func (l *ProductLookup) ResolveClassifier(ctx context.Context, code string) (*stock.ProductClassifier, error) {
	key := "classifier:" + code
	if v, ok := l.cache.Get(key); ok {
		return v.(*stock.ProductClassifier), nil
	}
	c, err := l.inner.ResolveClassifier(ctx, code)
	if err != nil {
		return nil, err
	}
	if c != nil {
		l.cache.SetDefault(key, c)
	}
	return c, nil
}

// Search passes through; result sets are not worth caching
func (l *ProductLookup) Search(ctx context.Context, query string, limit int) ([]*stock.Product, error) {
	return l.inner.Search(ctx, query, limit)
}
