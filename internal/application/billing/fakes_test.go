package billing_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cfdi-api/internal/application/billing"
	"github.com/jhoicas/cfdi-api/internal/domain"
	"github.com/jhoicas/cfdi-api/internal/domain/cfdi"
	"github.com/jhoicas/cfdi-api/internal/domain/entity"
)

// ── Repositorios en memoria ──────────────────────────────────────────────────

type memInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[string]*entity.Invoice
	items    map[string][]*entity.InvoiceItem
	getErr   error
}

func (r *memInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *memInvoiceRepo) GetItems(invoiceID string) ([]*entity.InvoiceItem, error) {
	return r.items[invoiceID], nil
}

func (r *memInvoiceRepo) MarkStamped(id, fiscalUUID string, stampedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok || inv.Status != entity.InvoiceStatusPending {
		return domain.ErrConflict
	}
	inv.Status = entity.InvoiceStatusStamped
	inv.FiscalUUID = fiscalUUID
	inv.StampedAt = &stampedAt
	return nil
}

type memCompanyRepo map[string]*entity.Company

func (r memCompanyRepo) GetByID(id string) (*entity.Company, error) { return r[id], nil }

type memCustomerRepo map[string]*entity.Customer

func (r memCustomerRepo) GetByID(id string) (*entity.Customer, error) { return r[id], nil }

// ── Puertos de infraestructura ───────────────────────────────────────────────

type stubBuilder struct {
	mu    sync.Mutex
	calls int
}

func (b *stubBuilder) Build(data cfdi.InvoiceData) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	return []byte(`<cfdi:Comprobante Folio="` + data.Invoice.Folio + `"/>`), nil
}

type stubStamper struct {
	mu    sync.Mutex
	err   error
	calls int
	xml   []byte
}

var errPACDown = errors.New("pac: servicio no disponible")

func (s *stubStamper) Stamp(_ context.Context, _ string, xml []byte) (*billing.StampResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.xml = xml
	if s.err != nil {
		return nil, s.err
	}
	return &billing.StampResult{
		FiscalUUID: "5FB2822E-396D-4725-8521-CDC4BDD20CCF",
		StampedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}, nil
}

// ── Fixture ──────────────────────────────────────────────────────────────────

const (
	companyID = "co-1"
	invoiceID = "inv-1"
)

type fixture struct {
	invoices  *memInvoiceRepo
	companies memCompanyRepo
	customers memCustomerRepo
	builder   *stubBuilder
	stamper   *stubStamper
}

func newFixture() *fixture {
	d := decimal.RequireFromString
	return &fixture{
		invoices: &memInvoiceRepo{
			invoices: map[string]*entity.Invoice{
				invoiceID: {
					ID: invoiceID, CompanyID: companyID, CustomerID: "cu-1",
					Series: "A", Folio: "100",
					Status:        entity.InvoiceStatusPending,
					PaymentMethod: "PUE", PaymentForm: "03", CfdiUse: "G03", Currency: "MXN",
					Subtotal: d("200"), Tax: d("32"), Total: d("232"),
				},
				"inv-otra": {ID: "inv-otra", CompanyID: "co-2", CustomerID: "cu-1", Status: entity.InvoiceStatusPending},
			},
			items: map[string][]*entity.InvoiceItem{
				invoiceID: {{
					ID: "it-1", InvoiceID: invoiceID, Description: "Servicio de consultoría",
					Quantity: d("2"), UnitPrice: d("100"), Total: d("200"),
					SATProductKey: "80101500", SATUnitKey: "E48",
				}},
			},
		},
		companies: memCompanyRepo{companyID: {
			ID: companyID, Name: "COMERCIALIZADORA DEL NORTE", RFC: "ABCD850101AB1",
			TaxRegime: "601", PostalCode: "06600", CSDCertificate: "cer", CSDPrivateKey: "key",
		}},
		customers: memCustomerRepo{"cu-1": {
			ID: "cu-1", CompanyID: companyID, Name: "JUAN PEREZ LOPEZ", RFC: "PEL850101AB1",
			TaxRegime: "612", PostalCode: "44100",
		}},
		builder: &stubBuilder{},
		stamper: &stubStamper{},
	}
}

func (f *fixture) validateUC() *billing.ValidateInvoiceUseCase {
	return billing.NewValidateInvoiceUseCase(f.invoices, f.companies, f.customers, nil, nil)
}

func (f *fixture) previewUC() *billing.PreviewInvoiceUseCase {
	return billing.NewPreviewInvoiceUseCase(f.invoices, f.companies, f.customers, nil, f.builder, nil)
}

func (f *fixture) stampUC() *billing.StampInvoiceUseCase {
	return billing.NewStampInvoiceUseCase(f.invoices, f.companies, f.customers, nil, f.builder, f.stamper, nil)
}
