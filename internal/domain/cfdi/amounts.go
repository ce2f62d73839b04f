package cfdi

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cfdi-api/internal/domain/entity"
)

var (
	// DefaultTaxRate IVA general (16 %).
	DefaultTaxRate = decimal.RequireFromString("0.16")
	// DefaultTolerance diferencia máxima aceptada entre montos guardados y calculados.
	DefaultTolerance = decimal.RequireFromString("0.01")
)

// Totals montos calculados a partir de los conceptos.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Round2 redondea a 2 decimales (mitad hacia arriba), como exige el SAT para importes en MXN.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineAmount calcula el importe de un concepto: cantidad * valor unitario, redondeado.
func LineAmount(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return Round2(quantity.Mul(unitPrice))
}

// ComputeTotals suma los importes por concepto y aplica la tasa de IVA sobre el subtotal.
func ComputeTotals(items []*entity.InvoiceItem, taxRate decimal.Decimal) Totals {
	var subtotal decimal.Decimal
	for _, it := range items {
		if it == nil {
			continue
		}
		subtotal = subtotal.Add(LineAmount(it.Quantity, it.UnitPrice))
	}
	subtotal = Round2(subtotal)
	tax := Round2(subtotal.Mul(taxRate))
	return Totals{Subtotal: subtotal, Tax: tax, Total: subtotal.Add(tax)}
}

// withinTolerance es verdadero si |a-b| <= tol.
func withinTolerance(a, b, tol decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}
