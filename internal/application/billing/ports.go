package billing

import (
	"context"
	"time"

	"github.com/jhoicas/cfdi-api/internal/domain/cfdi"
)

// StampResult respuesta del PAC al timbrar.
type StampResult struct {
	FiscalUUID string    // Folio fiscal (UUID del TimbreFiscalDigital)
	StampedAt  time.Time // FechaTimbrado
}

// Stamper envía el comprobante al PAC y devuelve el timbre.
// La implementación vive en infrastructure/pac.
type Stamper interface {
	Stamp(ctx context.Context, invoiceID string, xml []byte) (*StampResult, error)
}

// PreviewBuilder genera el XML CFDI 4.0 sin sellar a partir de la fotografía validada.
type PreviewBuilder interface {
	Build(data cfdi.InvoiceData) ([]byte, error)
}
