package domain

import "errors"

var (
	ErrInvalidProductRef = errors.New("inventory product id must be greater than zero")
	ErrInvalidStoreRef   = errors.New("inventory store id must be greater than zero")
	ErrNegativeStock     = errors.New("stock level must not be negative")
)

// Inventory is the stock record for a single (product, store) pair.
// At most one row exists per pair; the persistence layer backs this
// with a composite unique index.
type Inventory struct {
	ID         int64
	ProductID  int64
	StoreID    int64
	StockLevel int64
}

// NewInventory validates and constructs an Inventory row.
func NewInventory(id, productID, storeID, stockLevel int64) (*Inventory, error) {
	inv := &Inventory{ID: id, ProductID: productID, StoreID: storeID, StockLevel: stockLevel}
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return inv, nil
}

// Validate enforces invariants on the row.
func (i *Inventory) Validate() error {
	if i.ProductID <= 0 {
		return ErrInvalidProductRef
	}
	if i.StoreID <= 0 {
		return ErrInvalidStoreRef
	}
	if i.StockLevel < 0 {
		return ErrNegativeStock
	}
	return nil
}

// SetStock overwrites the stock level.
func (i *Inventory) SetStock(level int64) error {
	if level < 0 {
		return ErrNegativeStock
	}
	i.StockLevel = level
	return nil
}

// CanFulfill reports whether the row holds at least qty units. Any
// existing row fulfills a non-positive quantity.
func (i *Inventory) CanFulfill(qty int64) bool {
	return i.StockLevel >= qty
}
