package domain

import (
	"errors"
	"sort"
	"strings"
	"time"
)

var (
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrInvalidQuantity   = errors.New("item quantity must be greater than zero")
	ErrInvalidProductRef = errors.New("item product id must be greater than zero")
	ErrInvalidStoreRef   = errors.New("order store id must be greater than zero")
	ErrMissingCustomer   = errors.New("order requires a customer id or customer details")
	ErrEmptyCustomerName = errors.New("customer name must not be empty")
)

// Customer identifies who placed an order or wrote a review.
type Customer struct {
	ID    int64
	Name  string
	Email string
	Phone string
}

// NewCustomer validates and constructs a Customer.
func NewCustomer(id int64, name, email, phone string) (*Customer, error) {
	customer := &Customer{ID: id, Name: name, Email: email, Phone: phone}
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	return customer, nil
}

// Validate enforces invariants on the customer.
func (c *Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCustomerName
	}
	return nil
}

// OrderItem is an immutable order line; UnitPrice is the product price
// snapshotted at placement time.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int64
	UnitPrice float64
}

// Order is the append-only purchase aggregate. Once placed, neither the
// header nor the items change.
type Order struct {
	ID         int64
	StoreID    int64
	CustomerID int64
	TotalPrice float64
	CreatedAt  time.Time
	Items      []OrderItem
}

// Total recomputes the header total from the items.
func (o *Order) Total() float64 {
	var total float64
	for _, item := range o.Items {
		total += float64(item.Quantity) * item.UnitPrice
	}
	return total
}

// Line is a requested (product, quantity) pair in a draft.
type Line struct {
	ProductID int64
	Quantity  int64
}

// CustomerDetails carries a customer-identifying payload for drafts that do
// not name an existing customer id; the customer is upserted by email.
type CustomerDetails struct {
	Name  string
	Email string
	Phone string
}

// Draft is the validated input to order placement.
type Draft struct {
	StoreID    int64
	CustomerID int64
	Customer   CustomerDetails
	Lines      []Line
}

// Normalize validates the draft and returns its lines merged by product
// (duplicate product lines summed) in ascending product-id order. The
// deterministic order keeps concurrent placements from deadlocking on
// overlapping rows.
func (d *Draft) Normalize() ([]Line, error) {
	if d.StoreID <= 0 {
		return nil, ErrInvalidStoreRef
	}
	if d.CustomerID <= 0 && strings.TrimSpace(d.Customer.Email) == "" {
		return nil, ErrMissingCustomer
	}
	if len(d.Lines) == 0 {
		return nil, ErrEmptyOrder
	}
	merged := make(map[int64]int64, len(d.Lines))
	for _, line := range d.Lines {
		if line.ProductID <= 0 {
			return nil, ErrInvalidProductRef
		}
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		merged[line.ProductID] += line.Quantity
	}
	lines := make([]Line, 0, len(merged))
	for productID, quantity := range merged {
		lines = append(lines, Line{ProductID: productID, Quantity: quantity})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines, nil
}
