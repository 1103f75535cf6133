// Package engine exposes the document operations behind a single service.
// The service is stateless apart from its configuration and performs no I/O.
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/backoffice-engine/internal/documents"
	"github.com/odyssey-erp/backoffice-engine/internal/gate"
	"github.com/odyssey-erp/backoffice-engine/internal/inventory"
	"github.com/odyssey-erp/backoffice-engine/internal/money"
	"github.com/odyssey-erp/backoffice-engine/internal/returns"
	"github.com/odyssey-erp/backoffice-engine/internal/words"
)

// Config collects the settings every operation shares.
type Config struct {
	Currency            string
	Policy              money.Policy
	CashRounding        *money.Increment
	RequireReturnReason bool
	AllowNegativeStock  bool
}

// DefaultConfig rounds half-up to two places in INR and requires return
// reasons.
func DefaultConfig() Config {
	return Config{
		Currency:            "INR",
		Policy:              money.DefaultPolicy(),
		RequireReturnReason: true,
	}
}

// Service runs document operations.
type Service struct {
	cfg   Config
	stock *inventory.Service
}

// NewService builds the service.
func NewService(cfg Config) *Service {
	return &Service{
		cfg:   cfg,
		stock: inventory.NewService(inventory.ServiceConfig{AllowNegativeStock: cfg.AllowNegativeStock}),
	}
}

// Config returns the active configuration.
func (s *Service) Config() Config {
	return s.cfg
}

func (s *Service) calcOptions() documents.CalcOptions {
	return documents.CalcOptions{Policy: s.cfg.Policy, CashRounding: s.cfg.CashRounding}
}

// Recalculate re-derives every line and total of doc.
func (s *Service) Recalculate(doc documents.Document) (documents.Document, error) {
	if doc.Currency == "" {
		doc.Currency = s.cfg.Currency
	}
	return documents.Recalculate(doc, s.calcOptions())
}

// Transition returns doc moved to status to.
func (s *Service) Transition(doc documents.Document, to documents.Status) (documents.Document, error) {
	out := doc.Clone()
	if err := documents.Transition(&out, to); err != nil {
		return documents.Document{}, err
	}
	return out, nil
}

// Decide runs the action gate for doc.
func (s *Service) Decide(action gate.Action, doc documents.Document, caps gate.Capabilities) gate.Decision {
	return gate.Decide(action, doc.Kind, doc.Status, caps)
}

// AllowedActions lists the actions caps may perform on doc.
func (s *Service) AllowedActions(doc documents.Document, caps gate.Capabilities) []gate.Action {
	return gate.AllowedActions(doc.Kind, doc.Status, caps)
}

// DeriveCreditNote builds a credit note draft from a selection on src.
func (s *Service) DeriveCreditNote(src documents.Document, sel returns.Selection) (documents.Document, error) {
	note, err := returns.DeriveCreditNote(src, sel, returns.Options{
		RequireReason: s.cfg.RequireReturnReason,
		Calc:          s.calcOptions(),
	})
	if err != nil {
		return documents.Document{}, err
	}
	if note.Currency == "" {
		note.Currency = s.cfg.Currency
	}
	return note, nil
}

// RecordPayment applies amount to a payable document.
func (s *Service) RecordPayment(doc documents.Document, amount decimal.Decimal) (documents.Document, error) {
	return documents.RecordPayment(doc, amount, s.calcOptions())
}

// CheckStock verifies levels cover the lines of an outbound document.
// Inbound documents always pass.
func (s *Service) CheckStock(doc documents.Document, levels inventory.Levels) error {
	if !doc.Kind.Outbound() {
		return nil
	}
	reqs := make([]inventory.Requirement, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		reqs = append(reqs, inventory.Requirement{ProductID: line.ProductID, Qty: line.Quantity})
	}
	if err := s.stock.CheckAvailability(levels, reqs); err != nil {
		return fmt.Errorf("%s: %w", doc.Kind.Noun(), err)
	}
	return nil
}

// AmountInWords spells the document total.
func (s *Service) AmountInWords(doc documents.Document) string {
	currency := doc.Currency
	if currency == "" {
		currency = s.cfg.Currency
	}
	return words.Spell(doc.Totals.TotalAmount, currency)
}
