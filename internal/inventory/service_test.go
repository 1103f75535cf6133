package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestApplyMovements(t *testing.T) {
	svc := NewService(ServiceConfig{})
	bal := Balance{ProductID: "SKU-1"}

	bal, err := svc.Apply(bal, Movement{ProductID: "SKU-1", Type: TransactionTypeIn, Qty: qty("10")})
	require.NoError(t, err)
	require.True(t, bal.Qty.Equal(qty("10")))

	bal, err = svc.Apply(bal, Movement{ProductID: "SKU-1", Type: TransactionTypeOut, Qty: qty("8")})
	require.NoError(t, err)
	require.True(t, bal.Qty.Equal(qty("2")))

	bal, err = svc.Apply(bal, Movement{ProductID: "SKU-1", Type: TransactionTypeAdjust, Qty: qty("-2")})
	require.NoError(t, err)
	require.True(t, bal.Qty.IsZero())
}

func TestNegativeStockGuard(t *testing.T) {
	svc := NewService(ServiceConfig{})
	_, err := svc.Apply(Balance{ProductID: "SKU-1", Qty: qty("1")}, Movement{ProductID: "SKU-1", Type: TransactionTypeOut, Qty: qty("2")})
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Contains(t, err.Error(), "available 1, required 2")

	lenient := NewService(ServiceConfig{AllowNegativeStock: true})
	bal, err := lenient.Apply(Balance{ProductID: "SKU-1", Qty: qty("1")}, Movement{ProductID: "SKU-1", Type: TransactionTypeOut, Qty: qty("2")})
	require.NoError(t, err)
	require.True(t, bal.Qty.Equal(qty("-1")))
}

func TestApplyRejectsInvalidMovement(t *testing.T) {
	svc := NewService(ServiceConfig{})
	_, err := svc.Apply(Balance{ProductID: "SKU-1"}, Movement{ProductID: "SKU-1", Type: TransactionTypeIn})
	require.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = svc.Apply(Balance{ProductID: "SKU-1"}, Movement{ProductID: "SKU-2", Type: TransactionTypeIn, Qty: qty("1")})
	require.ErrorIs(t, err, ErrInvalidMovement)
	_, err = svc.Apply(Balance{ProductID: "SKU-1"}, Movement{ProductID: "SKU-1", Type: "TRANSFER", Qty: qty("1")})
	require.ErrorIs(t, err, ErrInvalidMovement)
}

func TestCheckAvailabilitySumsPerProduct(t *testing.T) {
	svc := NewService(ServiceConfig{})
	levels := Snapshot{"SKU-1": qty("5"), "SKU-2": qty("1")}

	require.NoError(t, svc.CheckAvailability(levels, []Requirement{
		{ProductID: "SKU-1", Qty: qty("2")},
		{ProductID: "SKU-1", Qty: qty("3")},
		{ProductID: "SKU-2", Qty: qty("1")},
		{ProductID: "", Qty: qty("100")},
	}))

	err := svc.CheckAvailability(levels, []Requirement{
		{ProductID: "SKU-1", Qty: qty("4")},
		{ProductID: "SKU-1", Qty: qty("2")},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	err = svc.CheckAvailability(levels, []Requirement{{ProductID: "SKU-9", Qty: qty("1")}})
	require.ErrorIs(t, err, ErrInsufficientStock)

	require.NoError(t, NewService(ServiceConfig{AllowNegativeStock: true}).CheckAvailability(levels, []Requirement{{ProductID: "SKU-9", Qty: qty("1")}}))
}
