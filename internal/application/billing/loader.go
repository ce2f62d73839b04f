package billing

import (
	"fmt"

	"github.com/jhoicas/cfdi-api/internal/domain"
	"github.com/jhoicas/cfdi-api/internal/domain/cfdi"
	"github.com/jhoicas/cfdi-api/internal/domain/repository"
)

// invoiceLoader arma la fotografía de solo lectura que consume el validador.
type invoiceLoader struct {
	invoiceRepo  repository.InvoiceRepository
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository
}

// load verifica que la factura exista y pertenezca a la empresa del token.
// Emisor o receptor inexistentes se dejan en nil: el validador los reporta como campos faltantes.
func (l invoiceLoader) load(companyID, invoiceID string) (cfdi.InvoiceData, error) {
	inv, err := l.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return cfdi.InvoiceData{}, fmt.Errorf("cargar factura: %w", err)
	}
	if inv == nil {
		return cfdi.InvoiceData{}, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return cfdi.InvoiceData{}, domain.ErrForbidden
	}

	company, err := l.companyRepo.GetByID(inv.CompanyID)
	if err != nil {
		return cfdi.InvoiceData{}, fmt.Errorf("cargar emisor: %w", err)
	}
	customer, err := l.customerRepo.GetByID(inv.CustomerID)
	if err != nil {
		return cfdi.InvoiceData{}, fmt.Errorf("cargar receptor: %w", err)
	}
	if customer != nil && customer.CompanyID != "" && customer.CompanyID != companyID {
		customer = nil
	}
	items, err := l.invoiceRepo.GetItems(inv.ID)
	if err != nil {
		return cfdi.InvoiceData{}, fmt.Errorf("cargar conceptos: %w", err)
	}
	return cfdi.InvoiceData{Invoice: inv, Company: company, Customer: customer, Items: items}, nil
}
