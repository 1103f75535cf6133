package inventory

import (
	"errors"

	"github.com/shopspring/decimal"
)

// TransactionType enumerates supported inventory movements.
type TransactionType string

const (
	// TransactionTypeIn represents an inbound movement.
	TransactionTypeIn TransactionType = "IN"
	// TransactionTypeOut represents an outbound movement.
	TransactionTypeOut TransactionType = "OUT"
	// TransactionTypeAdjust indicates manual adjustments, signed.
	TransactionTypeAdjust TransactionType = "ADJUST"
)

// Movement is a requested change of stock for one product.
type Movement struct {
	ProductID string
	Type      TransactionType
	Qty       decimal.Decimal
}

// Balance is the on-hand quantity of a product.
type Balance struct {
	ProductID string
	Qty       decimal.Decimal
}

// Requirement is the quantity a document needs of a product.
type Requirement struct {
	ProductID string
	Qty       decimal.Decimal
}

// Levels answers on-hand quantities. Unknown products have zero stock.
type Levels interface {
	OnHand(productID string) decimal.Decimal
}

// Snapshot is an in-memory Levels.
type Snapshot map[string]decimal.Decimal

// OnHand implements Levels.
func (s Snapshot) OnHand(productID string) decimal.Decimal {
	if qty, ok := s[productID]; ok {
		return qty
	}
	return decimal.Zero
}

// ErrInsufficientStock triggered when a movement would take more than is on hand.
var ErrInsufficientStock = errors.New("inventory: insufficient stock")

// ErrInvalidQuantity indicates invalid qty.
var ErrInvalidQuantity = errors.New("inventory: quantity must be non zero")

// ErrInvalidMovement indicates a movement without product or with an unknown type.
var ErrInvalidMovement = errors.New("inventory: invalid movement")
