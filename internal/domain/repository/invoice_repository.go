package repository

import (
	"time"

	"github.com/jhoicas/cfdi-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus conceptos.
type InvoiceRepository interface {
	GetByID(id string) (*entity.Invoice, error)
	GetItems(invoiceID string) ([]*entity.InvoiceItem, error)
	// MarkStamped pasa la factura a stamped y guarda el folio fiscal.
	// Devuelve domain.ErrConflict si la factura ya no estaba pendiente.
	MarkStamped(id, fiscalUUID string, stampedAt time.Time) error
}
