package documents

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/backoffice-engine/internal/pricing"
)

// DocumentPayload is the external JSON shape of a document.
type DocumentPayload struct {
	ID                 string           `json:"id" validate:"omitempty,uuid"`
	Kind               string           `json:"kind" validate:"required,oneof=purchase_order grn sales_order sale_invoice credit_note wholesale_order wholesale_bill"`
	Status             string           `json:"status" validate:"omitempty,max=32"`
	Currency           string           `json:"currency" validate:"omitempty,len=3,alpha"`
	Number             string           `json:"number" validate:"omitempty,max=64"`
	SourceDocumentID   string           `json:"sourceDocumentId" validate:"omitempty,uuid"`
	Lines              []LinePayload    `json:"lines" validate:"dive"`
	DocumentDiscount   *decimal.Decimal `json:"documentDiscount"`
	RoundingAdjustment *decimal.Decimal `json:"roundingAdjustment"`
	AmountPaid         *decimal.Decimal `json:"amountPaid"`
}

// LinePayload is the external JSON shape of a line.
type LinePayload struct {
	ID               string           `json:"id" validate:"omitempty,uuid"`
	ProductID        string           `json:"productId" validate:"omitempty,max=64"`
	Description      string           `json:"description" validate:"omitempty,max=255"`
	Quantity         decimal.Decimal  `json:"quantity"`
	UnitAmount       decimal.Decimal  `json:"unitAmount"`
	DiscountRate     *decimal.Decimal `json:"discountRate"`
	DiscountAmount   *decimal.Decimal `json:"discountAmount"`
	TaxRate          decimal.Decimal  `json:"taxRate"`
	TaxAmount        *decimal.Decimal `json:"taxAmount"`
	TaxMode          string           `json:"taxMode" validate:"omitempty,oneof=inclusive exclusive"`
	ReturnedQuantity decimal.Decimal  `json:"returnedQuantity"`
}

// ValidationError lists field level problems of a payload.
type ValidationError struct {
	Details map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Details))
	for field := range e.Details {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e.Details[field])
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode reads a single JSON document, validates its shape and fills the
// initial status and deterministic ids where they are missing.
func Decode(r io.Reader) (Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("documents: read payload: %w", err)
	}
	var payload DocumentPayload
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return Document{}, fmt.Errorf("%w: decode json: %v", ErrValidation, err)
	}
	return FromPayload(payload, raw)
}

// FromPayload converts a validated payload. seed names the document when the
// payload carries no id.
func FromPayload(payload DocumentPayload, seed []byte) (Document, error) {
	if err := validate.Struct(payload); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			details := make(map[string]string, len(fieldErrs))
			for _, fieldErr := range fieldErrs {
				details[fieldErr.Namespace()] = fieldErr.Tag()
			}
			return Document{}, &ValidationError{Details: details}
		}
		return Document{}, err
	}

	kind := Kind(payload.Kind)
	machine, err := MachineFor(kind)
	if err != nil {
		return Document{}, err
	}
	status := Status(strings.ToLower(payload.Status))
	if status == "" {
		status = machine.Initial()
	}
	if !machine.Has(status) {
		return Document{}, fmt.Errorf("%w: %q is not a %s status", ErrUnknownStatus, status, kind.Noun())
	}

	doc := Document{
		Kind:               kind,
		Status:             status,
		Currency:           strings.ToUpper(payload.Currency),
		Number:             payload.Number,
		RoundingAdjustment: payload.RoundingAdjustment,
		Lines:              make([]LineItem, 0, len(payload.Lines)),
	}
	if payload.ID != "" {
		doc.ID = uuid.MustParse(payload.ID)
	} else {
		doc.ID = uuid.NewSHA1(uuid.NameSpaceOID, seed)
	}
	if payload.SourceDocumentID != "" {
		src := uuid.MustParse(payload.SourceDocumentID)
		doc.SourceDocumentID = &src
	}
	if payload.DocumentDiscount != nil {
		doc.DocumentDiscount = *payload.DocumentDiscount
	}
	if payload.AmountPaid != nil {
		if payload.AmountPaid.IsNegative() {
			return Document{}, fmt.Errorf("%w: amount paid %s is negative", ErrInvalidPayment, payload.AmountPaid)
		}
		doc.AmountPaid = *payload.AmountPaid
	}
	for i, line := range payload.Lines {
		item := LineItem{
			ProductID:        line.ProductID,
			Description:      line.Description,
			Quantity:         line.Quantity,
			UnitAmount:       line.UnitAmount,
			DiscountRate:     line.DiscountRate,
			DiscountAmount:   line.DiscountAmount,
			TaxRate:          line.TaxRate,
			TaxAmount:        line.TaxAmount,
			TaxMode:          pricing.TaxMode(line.TaxMode),
			ReturnedQuantity: line.ReturnedQuantity,
		}
		if item.TaxMode == "" {
			item.TaxMode = pricing.TaxExclusive
		}
		if err := item.CheckReturned(); err != nil {
			return Document{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		if line.ID != "" {
			item.ID = uuid.MustParse(line.ID)
		} else {
			item.ID = uuid.NewSHA1(doc.ID, []byte(fmt.Sprintf("line:%d", i+1)))
		}
		doc.Lines = append(doc.Lines, item)
	}
	return doc, nil
}
