package inventory

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ServiceConfig toggles stock guards.
type ServiceConfig struct {
	AllowNegativeStock bool
}

// Service validates stock movements against on-hand levels. It never
// persists anything.
type Service struct {
	allowNeg bool
}

// NewService builds the stock checker.
func NewService(cfg ServiceConfig) *Service {
	return &Service{allowNeg: cfg.AllowNegativeStock}
}

// Apply returns the balance after movement.
func (s *Service) Apply(balance Balance, movement Movement) (Balance, error) {
	if movement.ProductID == "" || movement.ProductID != balance.ProductID {
		return Balance{}, fmt.Errorf("%w: product %q against balance %q", ErrInvalidMovement, movement.ProductID, balance.ProductID)
	}
	if movement.Qty.IsZero() {
		return Balance{}, ErrInvalidQuantity
	}
	qtyChange, err := signedQty(movement)
	if err != nil {
		return Balance{}, err
	}
	newQty := balance.Qty.Add(qtyChange)
	if !s.allowNeg && newQty.IsNegative() {
		return Balance{}, insufficient(movement.ProductID, balance.Qty, qtyChange.Neg())
	}
	return Balance{ProductID: balance.ProductID, Qty: newQty}, nil
}

// CheckAvailability sums requirements per product and fails on the first
// product, in id order, whose stock cannot cover them.
func (s *Service) CheckAvailability(levels Levels, reqs []Requirement) error {
	if s.allowNeg {
		return nil
	}
	totals := make(map[string]decimal.Decimal, len(reqs))
	for _, req := range reqs {
		if req.ProductID == "" {
			continue
		}
		if req.Qty.IsNegative() {
			return fmt.Errorf("%w: product %s requires %s", ErrInvalidQuantity, req.ProductID, req.Qty)
		}
		totals[req.ProductID] = totals[req.ProductID].Add(req.Qty)
	}
	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		available := levels.OnHand(id)
		if totals[id].GreaterThan(available) {
			return insufficient(id, available, totals[id])
		}
	}
	return nil
}

func signedQty(movement Movement) (decimal.Decimal, error) {
	switch movement.Type {
	case TransactionTypeIn:
		return movement.Qty.Abs(), nil
	case TransactionTypeOut:
		return movement.Qty.Abs().Neg(), nil
	case TransactionTypeAdjust:
		return movement.Qty, nil
	}
	return decimal.Zero, fmt.Errorf("%w: type %q", ErrInvalidMovement, movement.Type)
}

func insufficient(productID string, available, required decimal.Decimal) error {
	return fmt.Errorf("%w for product %s: available %s, required %s", ErrInsufficientStock, productID, available.String(), required.String())
}
