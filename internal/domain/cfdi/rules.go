package cfdi

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cfdi-api/internal/domain/entity"
	"github.com/jhoicas/cfdi-api/pkg/sat"
)

// Policy parámetros fiscales que las reglas consultan.
type Policy struct {
	TaxRate   decimal.Decimal
	Tolerance decimal.Decimal
}

// Rule es un predicado puro sobre la factura: devuelve cero o más hallazgos.
// Las reglas son independientes entre sí; ninguna depende del resultado de otra.
type Rule func(data *InvoiceData, p Policy) []ValidationError

// DefaultRules devuelve las reglas en el orden fijo de evaluación.
func DefaultRules() []Rule {
	return []Rule{
		CheckStatus,
		CheckIssuer,
		CheckCSD,
		CheckReceiver,
		CheckItems,
		CheckPaymentMethod,
		CheckPaymentForm,
		CheckAmounts,
		CheckCfdiUse,
	}
}

// CheckStatus solo se timbran facturas en estado pending.
func CheckStatus(d *InvoiceData, _ Policy) []ValidationError {
	if d.Invoice.Status != entity.InvoiceStatusPending {
		return []ValidationError{newError("invoice.status", CodeInvalidStatus,
			fmt.Sprintf("la factura está en estado %q; solo se pueden timbrar facturas pendientes", d.Invoice.Status))}
	}
	return nil
}

// CheckIssuer datos fiscales del emisor (empresa).
func CheckIssuer(d *InvoiceData, _ Policy) []ValidationError {
	var out []ValidationError
	c := d.Company

	rfc, hasRFC := d.issuerRFC()
	switch {
	case isBlank(c.RFC):
		out = append(out, newError("company.rfc", CodeMissingIssuerRFC, "el RFC del emisor es obligatorio"))
	case !hasRFC:
		out = append(out, newError("company.rfc", CodeInvalidIssuerRFC,
			fmt.Sprintf("el RFC del emisor %q no tiene un formato válido", c.RFC)))
	case rfc.IsPlaceholder():
		out = append(out, newError("company.rfc", CodeGenericIssuerRFC,
			"el emisor no puede usar un RFC genérico"))
	}

	if isBlank(c.Name) {
		out = append(out, newError("company.name", CodeMissingIssuerName, "la razón social del emisor es obligatoria"))
	}

	switch {
	case isBlank(c.TaxRegime):
		out = append(out, newError("company.taxRegime", CodeMissingIssuerRegime, "el régimen fiscal del emisor es obligatorio"))
	case !sat.IsValidTaxRegime(c.TaxRegime):
		out = append(out, newError("company.taxRegime", CodeInvalidIssuerRegime,
			fmt.Sprintf("el régimen fiscal %q no existe en el catálogo c_RegimenFiscal", c.TaxRegime)))
	case hasRFC && !rfc.IsPlaceholder() && !sat.RegimeAppliesTo(c.TaxRegime, rfc.Type()):
		out = append(out, newWarning("company.taxRegime", CodeIssuerRegimeMismatch,
			fmt.Sprintf("el régimen %s no corresponde a una persona %s", c.TaxRegime, strings.ToLower(string(rfc.Type())))))
	}

	switch {
	case isBlank(c.PostalCode):
		out = append(out, newError("company.postalCode", CodeMissingIssuerPostalCode,
			"el código postal del lugar de expedición es obligatorio"))
	case !sat.IsValidPostalCode(c.PostalCode):
		out = append(out, newError("company.postalCode", CodeInvalidIssuerPostalCode,
			fmt.Sprintf("el código postal %q debe tener 5 dígitos", c.PostalCode)))
	}
	return out
}

// CheckCSD la falta de CSD solo advierte: el PAC puede tener los sellos cargados.
func CheckCSD(d *InvoiceData, _ Policy) []ValidationError {
	if !d.Company.HasCSD() {
		return []ValidationError{newWarning("company.csd", CodeMissingCSD,
			"la empresa no tiene certificado y llave del CSD registrados")}
	}
	return nil
}

// CheckReceiver datos fiscales del receptor (cliente).
func CheckReceiver(d *InvoiceData, _ Policy) []ValidationError {
	var out []ValidationError
	c := d.Customer

	if isBlank(c.RFC) {
		return []ValidationError{newError("customer.rfc", CodeMissingReceiverRFC, "el RFC del receptor es obligatorio")}
	}

	if sat.NormalizeRFC(c.RFC) == sat.RFCGenerico {
		if !isBlank(c.TaxRegime) && c.TaxRegime != sat.TaxRegimeSinObligaciones {
			out = append(out, newWarning("customer.taxRegime", CodeGenericReceiverRegime,
				"para público en general el régimen del receptor debe ser 616"))
		}
		return out
	}

	rfc, err := sat.ParseRFC(c.RFC)
	if err != nil {
		out = append(out, newError("customer.rfc", CodeInvalidReceiverRFC,
			fmt.Sprintf("el RFC del receptor %q no tiene un formato válido", c.RFC)))
	} else if issuer, ok := d.issuerRFC(); ok && !issuer.CanIssueTo(rfc) {
		out = append(out, newError("customer.rfc", CodeSameIssuerReceiver,
			"el emisor y el receptor no pueden tener el mismo RFC"))
	}

	if isBlank(c.Name) {
		out = append(out, newWarning("customer.name", CodeMissingReceiverName,
			"se recomienda capturar el nombre del receptor tal como aparece en su constancia"))
	}
	switch {
	case isBlank(c.TaxRegime):
		out = append(out, newWarning("customer.taxRegime", CodeMissingReceiverRegime,
			"se recomienda capturar el régimen fiscal del receptor"))
	case !sat.IsValidTaxRegime(c.TaxRegime):
		out = append(out, newWarning("customer.taxRegime", CodeInvalidReceiverRegime,
			fmt.Sprintf("el régimen fiscal %q del receptor no existe en el catálogo", c.TaxRegime)))
	}
	switch {
	case isBlank(c.PostalCode):
		out = append(out, newWarning("customer.postalCode", CodeMissingReceiverPostalCode,
			"se recomienda capturar el código postal del domicilio fiscal del receptor"))
	case !sat.IsValidPostalCode(c.PostalCode):
		out = append(out, newWarning("customer.postalCode", CodeInvalidReceiverPostalCode,
			fmt.Sprintf("el código postal %q del receptor debe tener 5 dígitos", c.PostalCode)))
	}
	return out
}

// CheckItems cada concepto debe tener cantidad, precio, importe y descripción válidos.
func CheckItems(d *InvoiceData, p Policy) []ValidationError {
	if len(d.Items) == 0 {
		return []ValidationError{newError("items", CodeNoItems, "la factura debe tener al menos un concepto")}
	}
	var out []ValidationError
	for i, it := range d.Items {
		if it == nil {
			it = &entity.InvoiceItem{}
		}
		field := func(name string) string { return fmt.Sprintf("items[%d].%s", i, name) }

		qtyOK := it.Quantity.GreaterThan(decimal.Zero)
		priceOK := !it.UnitPrice.IsNegative()
		totalOK := !it.Total.IsNegative()

		if !qtyOK {
			out = append(out, newError(field("quantity"), CodeInvalidItemQuantity,
				fmt.Sprintf("la cantidad debe ser mayor a cero (recibido %s)", it.Quantity.String())))
		}
		if !priceOK {
			out = append(out, newError(field("unitPrice"), CodeInvalidItemPrice, "el valor unitario no puede ser negativo"))
		}
		if !totalOK {
			out = append(out, newError(field("total"), CodeInvalidItemTotal, "el importe no puede ser negativo"))
		}
		if isBlank(it.Description) {
			out = append(out, newError(field("description"), CodeMissingItemDescription, "la descripción del concepto es obligatoria"))
		}
		if isBlank(it.SATProductKey) {
			out = append(out, newWarning(field("satProductKey"), CodeMissingProductKey,
				"se recomienda la clave de producto o servicio del SAT (c_ClaveProdServ)"))
		}
		if isBlank(it.SATUnitKey) {
			out = append(out, newWarning(field("satUnitKey"), CodeMissingUnitKey,
				"se recomienda la clave de unidad del SAT (c_ClaveUnidad)"))
		}
		if qtyOK && priceOK && totalOK {
			expected := LineAmount(it.Quantity, it.UnitPrice)
			if !withinTolerance(it.Total, expected, p.Tolerance) {
				out = append(out, newWarning(field("total"), CodeItemTotalMismatch,
					fmt.Sprintf("el importe %s no coincide con cantidad × valor unitario (%s)", it.Total.StringFixed(2), expected.StringFixed(2))))
			}
		}
	}
	return out
}

// CheckPaymentMethod c_MetodoPago: PUE o PPD.
func CheckPaymentMethod(d *InvoiceData, _ Policy) []ValidationError {
	if !sat.IsValidPaymentMethod(d.Invoice.PaymentMethod) {
		return []ValidationError{newError("invoice.paymentMethod", CodeInvalidPaymentMethod,
			fmt.Sprintf("el método de pago %q no es válido; use PUE o PPD", d.Invoice.PaymentMethod))}
	}
	return nil
}

// CheckPaymentForm c_FormaPago; con PPD la forma debe ser 99.
func CheckPaymentForm(d *InvoiceData, _ Policy) []ValidationError {
	inv := d.Invoice
	if !sat.IsValidPaymentForm(inv.PaymentForm) {
		return []ValidationError{newError("invoice.paymentForm", CodeInvalidPaymentForm,
			fmt.Sprintf("la forma de pago %q no existe en el catálogo c_FormaPago", inv.PaymentForm))}
	}
	if inv.PaymentMethod == sat.PaymentMethodPPD && inv.PaymentForm != sat.PaymentFormPorDefinir {
		return []ValidationError{newWarning("invoice.paymentForm", CodePPDPaymentForm,
			"con método PPD la forma de pago debe ser 99 (Por definir)")}
	}
	return nil
}

// CheckAmounts compara subtotal, IVA y total guardados contra los calculados.
func CheckAmounts(d *InvoiceData, p Policy) []ValidationError {
	if len(d.Items) == 0 {
		return nil
	}
	inv := d.Invoice
	calc := ComputeTotals(d.Items, p.TaxRate)

	var out []ValidationError
	if !withinTolerance(inv.Subtotal, calc.Subtotal, p.Tolerance) {
		out = append(out, newWarning("invoice.subtotal", CodeSubtotalMismatch,
			fmt.Sprintf("el subtotal %s no coincide con la suma de conceptos (%s)", inv.Subtotal.StringFixed(2), calc.Subtotal.StringFixed(2))))
	}
	if !withinTolerance(inv.Tax, calc.Tax, p.Tolerance) {
		out = append(out, newWarning("invoice.tax", CodeTaxMismatch,
			fmt.Sprintf("el IVA %s no coincide con el calculado al %s%% (%s)", inv.Tax.StringFixed(2), p.TaxRate.Shift(2).String(), calc.Tax.StringFixed(2))))
	}
	if !withinTolerance(inv.Total, calc.Total, p.Tolerance) {
		out = append(out, newWarning("invoice.total", CodeTotalMismatch,
			fmt.Sprintf("el total %s no coincide con subtotal + IVA (%s)", inv.Total.StringFixed(2), calc.Total.StringFixed(2))))
	}
	return out
}

// CheckCfdiUse c_UsoCFDI y su compatibilidad con el régimen del receptor.
func CheckCfdiUse(d *InvoiceData, _ Policy) []ValidationError {
	use := d.Invoice.CfdiUse
	if !sat.IsValidCfdiUse(use) {
		return []ValidationError{newError("invoice.cfdiUse", CodeInvalidCfdiUse,
			fmt.Sprintf("el uso de CFDI %q no existe en el catálogo c_UsoCFDI", use))}
	}
	regime := d.Customer.TaxRegime
	if isBlank(regime) && sat.NormalizeRFC(d.Customer.RFC) == sat.RFCGenerico {
		regime = sat.TaxRegimeSinObligaciones
	}
	if sat.IsValidTaxRegime(regime) && !sat.CfdiUseAllowedForRegime(use, regime) {
		return []ValidationError{newWarning("invoice.cfdiUse", CodeCfdiUseRegimeMismatch,
			fmt.Sprintf("el uso %s no aplica al régimen %s del receptor", use, regime))}
	}
	return nil
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
