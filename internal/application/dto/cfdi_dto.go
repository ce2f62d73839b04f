package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cfdi-api/internal/domain/cfdi"
	"github.com/jhoicas/cfdi-api/internal/domain/entity"
	"github.com/jhoicas/cfdi-api/pkg/sat"
)

// ValidateSnapshotRequest body para POST /api/cfdi/validate y archivos de cfdi-check.
// Los importes viajan como texto para no perder precisión.
type ValidateSnapshotRequest struct {
	Invoice  *InvoiceSnapshot `json:"invoice" yaml:"invoice" validate:"required"`
	Company  IssuerSnapshot   `json:"company" yaml:"company"`
	Customer ReceiverSnapshot `json:"customer" yaml:"customer"`
	Items    []ItemSnapshot   `json:"items" yaml:"items" validate:"dive"`
}

// InvoiceSnapshot cabecera de la factura a validar.
type InvoiceSnapshot struct {
	ID            string `json:"id,omitempty" yaml:"id"`
	Series        string `json:"series,omitempty" yaml:"series"`
	Folio         string `json:"folio,omitempty" yaml:"folio"`
	Status        string `json:"status,omitempty" yaml:"status"` // vacío = pending
	PaymentMethod string `json:"paymentMethod" yaml:"paymentMethod"`
	PaymentForm   string `json:"paymentForm" yaml:"paymentForm"`
	CfdiUse       string `json:"cfdiUse" yaml:"cfdiUse"`
	Currency      string `json:"currency,omitempty" yaml:"currency"`
	Subtotal      string `json:"subtotal" yaml:"subtotal" validate:"omitempty,numeric"`
	Tax           string `json:"tax" yaml:"tax" validate:"omitempty,numeric"`
	Total         string `json:"total" yaml:"total" validate:"omitempty,numeric"`
}

// IssuerSnapshot datos del emisor.
type IssuerSnapshot struct {
	Name       string `json:"name" yaml:"name"`
	RFC        string `json:"rfc" yaml:"rfc"`
	TaxRegime  string `json:"taxRegime" yaml:"taxRegime"`
	PostalCode string `json:"postalCode" yaml:"postalCode"`
	HasCSD     bool   `json:"hasCsd" yaml:"hasCsd"`
}

// ReceiverSnapshot datos del receptor.
type ReceiverSnapshot struct {
	Name       string `json:"name" yaml:"name"`
	RFC        string `json:"rfc" yaml:"rfc"`
	TaxRegime  string `json:"taxRegime" yaml:"taxRegime"`
	PostalCode string `json:"postalCode" yaml:"postalCode"`
}

// ItemSnapshot concepto de la factura.
type ItemSnapshot struct {
	Description   string `json:"description" yaml:"description"`
	Quantity      string `json:"quantity" yaml:"quantity" validate:"omitempty,numeric"`
	UnitPrice     string `json:"unitPrice" yaml:"unitPrice" validate:"omitempty,numeric"`
	Total         string `json:"total" yaml:"total" validate:"omitempty,numeric"`
	SATProductKey string `json:"satProductKey" yaml:"satProductKey"`
	SATUnitKey    string `json:"satUnitKey" yaml:"satUnitKey"`
	Unit          string `json:"unit,omitempty" yaml:"unit"`
}

// ToInvoiceData convierte el snapshot a la entrada del validador.
// Un importe vacío se toma como cero.
func (r ValidateSnapshotRequest) ToInvoiceData() (cfdi.InvoiceData, error) {
	if r.Invoice == nil {
		return cfdi.InvoiceData{}, nil
	}
	in := r.Invoice
	inv := &entity.Invoice{
		ID:            in.ID,
		Series:        in.Series,
		Folio:         in.Folio,
		Status:        in.Status,
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		PaymentForm:   strings.TrimSpace(in.PaymentForm),
		CfdiUse:       strings.TrimSpace(in.CfdiUse),
		Currency:      in.Currency,
	}
	if inv.Status == "" {
		inv.Status = entity.InvoiceStatusPending
	}
	if inv.Currency == "" {
		inv.Currency = "MXN"
	}
	var err error
	if inv.Subtotal, err = parseAmount("invoice.subtotal", in.Subtotal); err != nil {
		return cfdi.InvoiceData{}, err
	}
	if inv.Tax, err = parseAmount("invoice.tax", in.Tax); err != nil {
		return cfdi.InvoiceData{}, err
	}
	if inv.Total, err = parseAmount("invoice.total", in.Total); err != nil {
		return cfdi.InvoiceData{}, err
	}

	company := &entity.Company{
		Name:       r.Company.Name,
		RFC:        r.Company.RFC,
		TaxRegime:  r.Company.TaxRegime,
		PostalCode: r.Company.PostalCode,
	}
	if r.Company.HasCSD {
		// El snapshot no trae los archivos del CSD; basta con marcarlos como presentes.
		company.CSDCertificate, company.CSDPrivateKey = "snapshot", "snapshot"
	}
	customer := &entity.Customer{
		Name:       r.Customer.Name,
		RFC:        r.Customer.RFC,
		TaxRegime:  r.Customer.TaxRegime,
		PostalCode: r.Customer.PostalCode,
	}

	items := make([]*entity.InvoiceItem, 0, len(r.Items))
	for i, it := range r.Items {
		item := &entity.InvoiceItem{
			Description:   it.Description,
			SATProductKey: it.SATProductKey,
			SATUnitKey:    it.SATUnitKey,
			Unit:          it.Unit,
		}
		if item.Quantity, err = parseAmount(fmt.Sprintf("items[%d].quantity", i), it.Quantity); err != nil {
			return cfdi.InvoiceData{}, err
		}
		if item.UnitPrice, err = parseAmount(fmt.Sprintf("items[%d].unitPrice", i), it.UnitPrice); err != nil {
			return cfdi.InvoiceData{}, err
		}
		if item.Total, err = parseAmount(fmt.Sprintf("items[%d].total", i), it.Total); err != nil {
			return cfdi.InvoiceData{}, err
		}
		items = append(items, item)
	}

	return cfdi.InvoiceData{Invoice: inv, Company: company, Customer: customer, Items: items}, nil
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: importe inválido %q", field, s)
	}
	return d, nil
}

// ValidationResponse resultado de validar una factura.
type ValidationResponse struct {
	InvoiceID  string                 `json:"invoiceId,omitempty" yaml:"invoiceId,omitempty"`
	IsValid    bool                   `json:"isValid" yaml:"isValid"`
	CanStamp   bool                   `json:"canStamp" yaml:"canStamp"`
	CanPreview bool                   `json:"canPreview" yaml:"canPreview"`
	Errors     []cfdi.ValidationError `json:"errors" yaml:"errors"`
	Warnings   []cfdi.ValidationError `json:"warnings" yaml:"warnings"`
}

// NewValidationResponse arma la respuesta a partir del resultado del validador.
func NewValidationResponse(invoiceID string, res cfdi.ValidationResult) *ValidationResponse {
	return &ValidationResponse{
		InvoiceID:  invoiceID,
		IsValid:    res.IsValid,
		CanStamp:   res.CanStamp,
		CanPreview: res.CanPreview,
		Errors:     res.Errors,
		Warnings:   res.Warnings,
	}
}

// StampResponse respuesta de POST /api/invoices/:id/stamp.
type StampResponse struct {
	InvoiceID  string                 `json:"invoiceId"`
	Status     string                 `json:"status"`
	FiscalUUID string                 `json:"fiscalUuid"`
	StampedAt  time.Time              `json:"stampedAt"`
	Warnings   []cfdi.ValidationError `json:"warnings"`
}

// RFCInfo respuesta de GET /api/cfdi/rfc/:rfc.
type RFCInfo struct {
	RFC              string       `json:"rfc"`
	Type             sat.RFCType  `json:"type"`
	IsGeneric        bool         `json:"isGeneric"`
	IsForeign        bool         `json:"isForeign"`
	BirthDate        string       `json:"birthDate,omitempty"` // YYYY-MM-DD
	DefaultTaxRegime string       `json:"defaultTaxRegime"`
	DefaultCfdiUse   string       `json:"defaultCfdiUse"`
	TaxRegimes       []sat.Option `json:"taxRegimes"`
}

// CataloguesResponse catálogos del SAT para los formularios de captura.
type CataloguesResponse struct {
	PaymentMethods []sat.Option       `json:"paymentMethods"`
	PaymentForms   []sat.Option       `json:"paymentForms"`
	CfdiUses       []sat.Option       `json:"cfdiUses"`
	TaxRegimes     []sat.Option       `json:"taxRegimes"`
	Defaults       *CatalogueDefaults `json:"defaults,omitempty"`
}

// CatalogueDefaults valores sugeridos para el RFC consultado.
type CatalogueDefaults struct {
	RFCType       sat.RFCType `json:"rfcType"`
	TaxRegime     string      `json:"taxRegime"`
	CfdiUse       string      `json:"cfdiUse"`
	PaymentMethod string      `json:"paymentMethod"`
	PaymentForm   string      `json:"paymentForm"`
}
