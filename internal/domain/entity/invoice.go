package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la factura frente al SAT.
const (
	InvoiceStatusPending   = "pending"   // Capturada, lista para validar y timbrar
	InvoiceStatusStamped   = "stamped"   // Timbrada por el PAC (tiene UUID fiscal)
	InvoiceStatusCancelled = "cancelled" // Cancelada ante el SAT
)

// Invoice representa la cabecera de un CFDI de ingreso.
type Invoice struct {
	ID            string
	CompanyID     string
	CustomerID    string
	Series        string
	Folio         string
	Date          time.Time
	Status        string
	PaymentMethod string // c_MetodoPago: PUE, PPD
	PaymentForm   string // c_FormaPago: 01, 03, 99, ...
	CfdiUse       string // c_UsoCFDI del receptor
	Currency      string
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal // IVA trasladado
	Total         decimal.Decimal
	FiscalUUID    string     // Folio fiscal asignado por el PAC
	StampedAt     *time.Time // nil mientras no se timbre
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
