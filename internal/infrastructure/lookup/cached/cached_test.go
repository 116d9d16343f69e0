package cached

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warelabs/taskterm/internal/domain/model/stock"
)

type countingBinLookup struct {
	bins  map[string]*stock.Bin
	calls int
}

func (c *countingBinLookup) ResolveByCode(_ context.Context, code string) (*stock.Bin, error) {
	c.calls++
	return c.bins[code], nil
}

func (c *countingBinLookup) Search(context.Context, string, int) ([]*stock.Bin, error) {
	c.calls++
	return nil, nil
}

type countingProductLookup struct {
	byBarcode map[string]*stock.Product
	byCode    map[string]*stock.Product
	calls     int
}

func (c *countingProductLookup) ResolveByBarcode(_ context.Context, barcode string) (*stock.Product, error) {
	c.calls++
	return c.byBarcode[barcode], nil
}

func (c *countingProductLookup) ResolveByCode(_ context.Context, code string) (*stock.Product, error) {
	c.calls++
	return c.byCode[code], nil
}

func (c *countingProductLookup) ResolveClassifier(context.Context, string) (*stock.ProductClassifier, error) {
	c.calls++
	return nil, nil
}

func (c *countingProductLookup) Search(context.Context, string, int) ([]*stock.Product, error) {
	c.calls++
	return nil, nil
}

func TestBinLookup_RepeatScansHitCache(t *testing.T) {
	inner := &countingBinLookup{bins: map[string]*stock.Bin{
		"A-01": {ID: "bin-1", Code: "A-01"},
	}}
	l := NewBinLookup(inner, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		b, err := l.ResolveByCode(ctx, "A-01")
		require.NoError(t, err)
		require.NotNil(t, b)
	}
	assert.Equal(t, 1, inner.calls)
}

func TestBinLookup_NegativeResultsNotCached(t *testing.T) {
	inner := &countingBinLookup{bins: map[string]*stock.Bin{}}
	l := NewBinLookup(inner, time.Minute)
	ctx := context.Background()

	b, err := l.ResolveByCode(ctx, "A-01")
	require.NoError(t, err)
	assert.Nil(t, b)

	// the code gets seeded between scans
	inner.bins["A-01"] = &stock.Bin{ID: "bin-1", Code: "A-01"}
	b, err = l.ResolveByCode(ctx, "A-01")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, 2, inner.calls)
}

func TestBinLookup_SearchPassesThrough(t *testing.T) {
	inner := &countingBinLookup{}
	l := NewBinLookup(inner, time.Minute)

	for i := 0; i < 2; i++ {
		_, err := l.Search(context.Background(), "A", 10)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, inner.calls)
}

func TestProductLookup_BarcodeAndCodeNamespacesAreDistinct(t *testing.T) {
	// "4001" is a barcode of one product and the code of another
	byBarcode := &stock.Product{ID: "prod-1", Code: "W-1", Barcodes: []string{"4001"}}
	byCode := &stock.Product{ID: "prod-2", Code: "4001"}
	inner := &countingProductLookup{
		byBarcode: map[string]*stock.Product{"4001": byBarcode},
		byCode:    map[string]*stock.Product{"4001": byCode},
	}
	l := NewProductLookup(inner, time.Minute)
	ctx := context.Background()

	p, err := l.ResolveByBarcode(ctx, "4001")
	require.NoError(t, err)
	assert.Equal(t, "prod-1", p.ID)

	p, err = l.ResolveByCode(ctx, "4001")
	require.NoError(t, err)
	assert.Equal(t, "prod-2", p.ID)

	// both were cached under their own key
	p, err = l.ResolveByBarcode(ctx, "4001")
	require.NoError(t, err)
	assert.Equal(t, "prod-1", p.ID)
	assert.Equal(t, 2, inner.calls)
}
