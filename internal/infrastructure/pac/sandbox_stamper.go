// Package pac contiene los adaptadores hacia el proveedor autorizado de certificación.
package pac

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/jhoicas/cfdi-api/internal/application/billing"
	"github.com/jhoicas/cfdi-api/pkg/config"
	"github.com/jhoicas/cfdi-api/pkg/logger"
)

// ErrInvalidDocument el XML recibido no es un cfdi:Comprobante 4.0.
var ErrInvalidDocument = errors.New("pac: documento CFDI inválido")

var _ billing.Stamper = (*SandboxStamper)(nil)

// SandboxStamper simula el timbrado sin red: revisa que el XML sea un comprobante
// 4.0 y devuelve un folio fiscal aleatorio con la hora actual.
type SandboxStamper struct {
	now     func() time.Time
	newUUID func() uuid.UUID
	log     *logger.Logger
}

// NewSandboxStamper crea el PAC simulado.
func NewSandboxStamper(log *logger.Logger) *SandboxStamper {
	if log == nil {
		log = logger.Nop()
	}
	return &SandboxStamper{
		now:     time.Now,
		newUUID: uuid.New,
		log:     log.Component("pac.sandbox"),
	}
}

// NewStamper elige el adaptador según PAC_MODE.
func NewStamper(cfg config.PACConfig, log *logger.Logger) (billing.Stamper, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Mode)) {
	case "", config.PACModeSandbox:
		return NewSandboxStamper(log), nil
	default:
		return nil, fmt.Errorf("pac: modo %q no soportado", cfg.Mode)
	}
}

// Stamp devuelve el timbre simulado. El UUID va en mayúsculas como lo emite el SAT.
func (s *SandboxStamper) Stamp(ctx context.Context, invoiceID string, xml []byte) (*billing.StampResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkComprobante(xml); err != nil {
		return nil, err
	}
	res := &billing.StampResult{
		FiscalUUID: strings.ToUpper(s.newUUID().String()),
		StampedAt:  s.now().UTC().Truncate(time.Second),
	}
	s.log.Info().Str("invoice_id", invoiceID).Str("fiscal_uuid", res.FiscalUUID).Msg("timbrado simulado (sandbox)")
	return res, nil
}

func checkComprobante(xml []byte) error {
	if len(xml) == 0 {
		return fmt.Errorf("%w: documento vacío", ErrInvalidDocument)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xml); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "Comprobante" {
		return fmt.Errorf("%w: la raíz debe ser cfdi:Comprobante", ErrInvalidDocument)
	}
	if v := root.SelectAttrValue("Version", ""); v != "4.0" {
		return fmt.Errorf("%w: versión %q, se esperaba 4.0", ErrInvalidDocument, v)
	}
	return nil
}
