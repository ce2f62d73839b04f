// Package cfdi contiene las reglas de dominio que deciden si una factura CFDI 4.0
// está bien formada antes de enviarla al PAC para su timbrado.
// Los hallazgos se representan como datos (ValidationError), no como errores Go.
package cfdi

import (
	"errors"
	"fmt"
)

// Severity distingue hallazgos que bloquean el timbrado de los que solo advierten.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Códigos de hallazgo. Son estables: el frontend y los reportes dependen de ellos.
const (
	CodeMissingInvoice = "MISSING_INVOICE"
	CodeInvalidStatus  = "INVALID_STATUS"

	CodeMissingIssuerRFC        = "MISSING_ISSUER_RFC"
	CodeInvalidIssuerRFC        = "INVALID_ISSUER_RFC"
	CodeGenericIssuerRFC        = "GENERIC_ISSUER_RFC"
	CodeMissingIssuerName       = "MISSING_ISSUER_NAME"
	CodeMissingIssuerRegime     = "MISSING_ISSUER_REGIME"
	CodeInvalidIssuerRegime     = "INVALID_ISSUER_REGIME"
	CodeIssuerRegimeMismatch    = "ISSUER_REGIME_MISMATCH"
	CodeMissingIssuerPostalCode = "MISSING_ISSUER_POSTAL_CODE"
	CodeInvalidIssuerPostalCode = "INVALID_ISSUER_POSTAL_CODE"
	CodeMissingCSD              = "MISSING_CSD"

	CodeMissingReceiverRFC        = "MISSING_RECEIVER_RFC"
	CodeInvalidReceiverRFC        = "INVALID_RECEIVER_RFC"
	CodeSameIssuerReceiver        = "SAME_ISSUER_RECEIVER"
	CodeMissingReceiverName       = "MISSING_RECEIVER_NAME"
	CodeMissingReceiverRegime     = "MISSING_RECEIVER_REGIME"
	CodeInvalidReceiverRegime     = "INVALID_RECEIVER_REGIME"
	CodeGenericReceiverRegime     = "GENERIC_RECEIVER_REGIME"
	CodeMissingReceiverPostalCode = "MISSING_RECEIVER_POSTAL_CODE"
	CodeInvalidReceiverPostalCode = "INVALID_RECEIVER_POSTAL_CODE"

	CodeNoItems                = "NO_ITEMS"
	CodeInvalidItemQuantity    = "INVALID_ITEM_QUANTITY"
	CodeInvalidItemPrice       = "INVALID_ITEM_PRICE"
	CodeInvalidItemTotal       = "INVALID_ITEM_TOTAL"
	CodeMissingItemDescription = "MISSING_ITEM_DESCRIPTION"
	CodeMissingProductKey      = "MISSING_PRODUCT_KEY"
	CodeMissingUnitKey         = "MISSING_UNIT_KEY"
	CodeItemTotalMismatch      = "ITEM_TOTAL_MISMATCH"

	CodeInvalidPaymentMethod = "INVALID_PAYMENT_METHOD"
	CodeInvalidPaymentForm   = "INVALID_PAYMENT_FORM"
	CodePPDPaymentForm       = "PPD_PAYMENT_FORM"

	CodeSubtotalMismatch = "SUBTOTAL_MISMATCH"
	CodeTaxMismatch      = "TAX_MISMATCH"
	CodeTotalMismatch    = "TOTAL_MISMATCH"

	CodeInvalidCfdiUse        = "INVALID_CFDI_USE"
	CodeCfdiUseRegimeMismatch = "CFDI_USE_REGIME_MISMATCH"
)

// ErrNotStampable encabeza el error devuelto por ValidationResult.Err.
var ErrNotStampable = errors.New("cfdi: la factura no puede timbrarse")

// ValidationError es un hallazgo plano; no se persiste.
type ValidationError struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Field, e.Code, e.Message)
}

func newError(field, code, msg string) ValidationError {
	return ValidationError{Field: field, Code: code, Message: msg, Severity: SeverityError}
}

func newWarning(field, code, msg string) ValidationError {
	return ValidationError{Field: field, Code: code, Message: msg, Severity: SeverityWarning}
}

// ValidationResult agrega los hallazgos de una validación.
// Se construye en cada llamada a Validate y no tiene identidad.
type ValidationResult struct {
	Errors     []ValidationError `json:"errors"`
	Warnings   []ValidationError `json:"warnings"`
	IsValid    bool              `json:"isValid"`
	CanStamp   bool              `json:"canStamp"`
	CanPreview bool              `json:"canPreview"`
}

func newResult(findings []ValidationError) ValidationResult {
	res := ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}
	for _, f := range findings {
		if f.Severity == SeverityError {
			res.Errors = append(res.Errors, f)
		} else {
			res.Warnings = append(res.Warnings, f)
		}
	}
	res.CanStamp = len(res.Errors) == 0
	res.IsValid = res.CanStamp
	res.CanPreview = true
	for _, e := range res.Errors {
		if e.Code != CodeInvalidStatus {
			res.CanPreview = false
			break
		}
	}
	return res
}

// HasCode indica si algún hallazgo (error o advertencia) tiene ese código.
func (r ValidationResult) HasCode(code string) bool {
	for _, f := range r.Findings() {
		if f.Code == code {
			return true
		}
	}
	return false
}

// Findings devuelve errores seguidos de advertencias.
func (r ValidationResult) Findings() []ValidationError {
	out := make([]ValidationError, 0, len(r.Errors)+len(r.Warnings))
	out = append(out, r.Errors...)
	return append(out, r.Warnings...)
}

// Err devuelve nil si la factura puede timbrarse; si no, ErrNotStampable unido a cada error.
func (r ValidationResult) Err() error {
	if r.CanStamp {
		return nil
	}
	errs := make([]error, 0, len(r.Errors)+1)
	errs = append(errs, ErrNotStampable)
	for _, e := range r.Errors {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}
