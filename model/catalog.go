// model/catalog.go
package model

// Catalog is the full in-memory library state: media records partitioned by
// variant, each with its own stock table keyed by identifier.
type Catalog struct {
	Books []*Media
	CDs   []*Media

	BookStock *Stock
	CDStock   *Stock
}

func NewCatalog() *Catalog {
	return &Catalog{BookStock: NewStock(), CDStock: NewStock()}
}

// All returns books followed by CDs, the order the store file uses.
func (c *Catalog) All() []*Media {
	out := make([]*Media, 0, len(c.Books)+len(c.CDs))
	out = append(out, c.Books...)
	out = append(out, c.CDs...)
	return out
}

// StockFor picks the stock table matching the media variant.
func (c *Catalog) StockFor(kind Kind) *Stock {
	if kind == KindCD {
		return c.CDStock
	}
	return c.BookStock
}
