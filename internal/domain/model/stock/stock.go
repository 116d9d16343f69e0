// Package stock holds the reference-data entities the terminal resolves
// scanned codes against: storage bins, pallets, products and product
// classifiers. These are read-only lookup records; the engine never mutates
// them.
package stock

// Entity is the common surface of all resolvable reference entities
type Entity interface {
	// EntityID returns the stable identifier used for plan matching
	EntityID() string

	// DisplayCode returns the human-readable code shown to the operator
	DisplayCode() string
}

// Bin is a storage or placement location in the warehouse
type Bin struct {
	ID   string
	Code string
	Zone string
}

// EntityID returns the stable identifier
func (b *Bin) EntityID() string { return b.ID }

// DisplayCode returns the bin code
func (b *Bin) DisplayCode() string { return b.Code }

// Pallet is a movable carrier identified by its label code
type Pallet struct {
	ID   string
	Code string
}

// EntityID returns the stable identifier
func (p *Pallet) EntityID() string { return p.ID }

// DisplayCode returns the pallet code
func (p *Pallet) DisplayCode() string { return p.Code }

// Product is a stock-keeping unit. A product may carry several barcodes
// (consumer unit, trade unit) besides its primary code.
type Product struct {
	ID           string
	Code         string
	Name         string
	Barcodes     []string
	ClassifierID string
}

// EntityID returns the stable identifier
func (p *Product) EntityID() string { return p.ID }

// DisplayCode returns the product code
func (p *Product) DisplayCode() string { return p.Code }

// HasBarcode reports whether the product carries the given barcode
func (p *Product) HasBarcode(barcode string) bool {
	for _, b := range p.Barcodes {
		if b == barcode {
			return true
		}
	}
	return false
}

// ProductClassifier is a grouping of products (an article group or SKU class)
type ProductClassifier struct {
	ID   string
	Code string
	Name string
}

// EntityID returns the stable identifier
func (c *ProductClassifier) EntityID() string { return c.ID }

// DisplayCode returns the classifier code
func (c *ProductClassifier) DisplayCode() string { return c.Code }
