package repository

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/warelabs/taskterm/internal/domain/model/stock"
)

// ReferenceWriter is the insert surface of the reference store the seed
// loader fills
type ReferenceWriter interface {
	InsertBin(ctx context.Context, b *stock.Bin) error
	InsertPallet(ctx context.Context, p *stock.Pallet) error
	InsertProduct(ctx context.Context, p *stock.Product) error
	InsertClassifier(ctx context.Context, c *stock.ProductClassifier) error
}

// SeedLoader reads a reference-data seed file and fills the local store
type SeedLoader struct {
	fs afero.Fs
}

// NewSeedLoader creates a seed loader over the given filesystem
func NewSeedLoader(fs afero.Fs) *SeedLoader {
	return &SeedLoader{fs: fs}
}

type seedDoc struct {
	Bins        []binDoc        `yaml:"bins"`
	Pallets     []palletDoc     `yaml:"pallets"`
	Classifiers []classifierDoc `yaml:"classifiers"`
	Products    []productDoc    `yaml:"products"`
}

// Load reads the seed file and writes its entities through the writer.
// Classifiers go first so product rows can reference them.
func (l *SeedLoader) Load(ctx context.Context, path string, w ReferenceWriter) error {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return fmt.Errorf("read seed file failed: %w", err)
	}
	var doc seedDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse seed file failed: %w", err)
	}

	for i := range doc.Classifiers {
		if err := w.InsertClassifier(ctx, doc.Classifiers[i].toDomain()); err != nil {
			return err
		}
	}
	for i := range doc.Bins {
		if err := w.InsertBin(ctx, doc.Bins[i].toDomain()); err != nil {
			return err
		}
	}
	for i := range doc.Pallets {
		if err := w.InsertPallet(ctx, doc.Pallets[i].toDomain()); err != nil {
			return err
		}
	}
	for i := range doc.Products {
		if err := w.InsertProduct(ctx, doc.Products[i].toDomain()); err != nil {
			return err
		}
	}
	return nil
}
