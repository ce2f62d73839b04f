package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/cfdi-api/internal/domain"
	"github.com/jhoicas/cfdi-api/internal/domain/entity"
	"github.com/jhoicas/cfdi-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// GetByID obtiene la cabecera de la factura por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `
		SELECT id, company_id, customer_id, COALESCE(series, ''), COALESCE(folio, ''), date, status,
		       COALESCE(payment_method, ''), COALESCE(payment_form, ''), COALESCE(cfdi_use, ''), currency,
		       subtotal, tax, total, fiscal_uuid, stamped_at,
		       created_at, updated_at
		FROM invoices WHERE id = $1`
	var inv entity.Invoice
	var fiscalUUID *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&inv.ID, &inv.CompanyID, &inv.CustomerID, &inv.Series, &inv.Folio, &inv.Date, &inv.Status,
		&inv.PaymentMethod, &inv.PaymentForm, &inv.CfdiUse, &inv.Currency,
		&inv.Subtotal, &inv.Tax, &inv.Total, &fiscalUUID, &inv.StampedAt,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	inv.FiscalUUID = derefStr(fiscalUUID)
	return &inv, nil
}

// GetItems obtiene los conceptos de una factura en orden de captura.
// La clave SAT de producto/unidad del concepto tiene prioridad sobre la del catálogo de productos.
func (r *InvoiceRepo) GetItems(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT i.id, i.invoice_id, COALESCE(i.product_id::text, ''), COALESCE(i.description, p.name, ''),
		       i.quantity, i.unit_price, i.total,
		       COALESCE(NULLIF(i.sat_product_key, ''), p.sat_product_key, ''),
		       COALESCE(NULLIF(i.sat_unit_key, ''), p.sat_unit_key, ''),
		       COALESCE(i.unit, p.unit, '')
		FROM invoice_items i
		LEFT JOIN products p ON p.id = i.product_id
		WHERE i.invoice_id = $1
		ORDER BY i.position, i.id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.Total,
			&it.SATProductKey, &it.SATUnitKey, &it.Unit); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// MarkStamped registra el timbrado. Solo actualiza facturas pendientes: si otra
// petición ya la timbró, devuelve domain.ErrConflict.
func (r *InvoiceRepo) MarkStamped(id, fiscalUUID string, stampedAt time.Time) error {
	query := `
		UPDATE invoices
		SET status      = $2,
		    fiscal_uuid = $3,
		    stamped_at  = $4,
		    updated_at  = $4
		WHERE id = $1 AND status = $5`
	tag, err := r.q.Exec(context.Background(), query,
		id, entity.InvoiceStatusStamped, fiscalUUID, stampedAt, entity.InvoiceStatusPending)
	if err != nil {
		return fmt.Errorf("mark invoice stamped: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("factura %s no está pendiente: %w", id, domain.ErrConflict)
	}
	return nil
}
