package cfdi

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cfdi-api/internal/domain/entity"
	"github.com/jhoicas/cfdi-api/pkg/sat"
)

// InvoiceData fotografía de solo lectura que recibe el validador.
// Los punteros nil se tratan como registros vacíos.
type InvoiceData struct {
	Invoice  *entity.Invoice
	Company  *entity.Company  // Emisor
	Customer *entity.Customer // Receptor
	Items    []*entity.InvoiceItem

	issuer    sat.RFC
	issuerErr error
}

func (d *InvoiceData) issuerRFC() (sat.RFC, bool) {
	return d.issuer, d.issuerErr == nil
}

// Option configura el Validator.
type Option func(*Validator)

// WithTaxRate cambia la tasa de IVA usada para recalcular el impuesto.
func WithTaxRate(rate decimal.Decimal) Option {
	return func(v *Validator) { v.policy.TaxRate = rate }
}

// WithTolerance cambia la diferencia máxima aceptada entre montos.
func WithTolerance(tol decimal.Decimal) Option {
	return func(v *Validator) { v.policy.Tolerance = tol }
}

// WithRules agrega reglas después de las predeterminadas.
func WithRules(rules ...Rule) Option {
	return func(v *Validator) { v.rules = append(v.rules, rules...) }
}

// Validator evalúa la lista de reglas sobre una factura. Es inmutable y seguro para uso concurrente.
type Validator struct {
	policy Policy
	rules  []Rule
}

// NewValidator crea un validador con IVA 16 % y tolerancia 0.01 salvo que se indique otra cosa.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		policy: Policy{TaxRate: DefaultTaxRate, Tolerance: DefaultTolerance},
		rules:  DefaultRules(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Policy devuelve los parámetros fiscales vigentes.
func (v *Validator) Policy() Policy { return v.policy }

// Validate ejecuta todas las reglas en una sola pasada, sin efectos secundarios.
func (v *Validator) Validate(data InvoiceData) ValidationResult {
	if data.Invoice == nil {
		return newResult([]ValidationError{newError("invoice", CodeMissingInvoice, "no se recibió la factura")})
	}
	d := data
	if d.Company == nil {
		d.Company = &entity.Company{}
	}
	if d.Customer == nil {
		d.Customer = &entity.Customer{}
	}
	d.issuer, d.issuerErr = sat.ParseRFC(d.Company.RFC)

	var findings []ValidationError
	for _, rule := range v.rules {
		findings = append(findings, rule(&d, v.policy)...)
	}
	return newResult(findings)
}

var defaultValidator = NewValidator()

// Validate valida con la configuración predeterminada.
func Validate(data InvoiceData) ValidationResult {
	return defaultValidator.Validate(data)
}
