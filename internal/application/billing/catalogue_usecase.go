package billing

import (
	"strings"

	"github.com/jhoicas/cfdi-api/internal/application/dto"
	"github.com/jhoicas/cfdi-api/pkg/sat"
)

// CatalogueUseCase expone los catálogos del SAT y los valores sugeridos por RFC.
type CatalogueUseCase struct{}

// NewCatalogueUseCase construye el caso de uso.
func NewCatalogueUseCase() *CatalogueUseCase {
	return &CatalogueUseCase{}
}

// Catalogues devuelve las listas de opciones. Con rfc no vacío filtra los regímenes
// aplicables y agrega los valores sugeridos; un RFC inválido devuelve sat.ErrInvalidRFC.
func (uc *CatalogueUseCase) Catalogues(rfc string) (*dto.CataloguesResponse, error) {
	out := &dto.CataloguesResponse{
		PaymentMethods: sat.PaymentMethodOptions(),
		PaymentForms:   sat.PaymentFormOptions(),
		CfdiUses:       sat.CfdiUseOptions(),
		TaxRegimes:     sat.TaxRegimeOptions(),
	}
	if strings.TrimSpace(rfc) == "" {
		return out, nil
	}
	parsed, err := sat.ParseRFC(rfc)
	if err != nil {
		return nil, err
	}
	regime := sat.DefaultTaxRegime(parsed)
	out.TaxRegimes = sat.TaxRegimeOptionsFor(parsed.Type())
	out.Defaults = &dto.CatalogueDefaults{
		RFCType:       parsed.Type(),
		TaxRegime:     regime,
		CfdiUse:       sat.DefaultCfdiUse(parsed, regime),
		PaymentMethod: sat.PaymentMethodPUE,
		PaymentForm:   sat.DefaultPaymentForm(sat.PaymentMethodPUE),
	}
	return out, nil
}

// LookupRFC valida y clasifica un RFC.
func (uc *CatalogueUseCase) LookupRFC(value string) (*dto.RFCInfo, error) {
	rfc, err := sat.ParseRFC(value)
	if err != nil {
		return nil, err
	}
	regime := sat.DefaultTaxRegime(rfc)
	info := &dto.RFCInfo{
		RFC:              rfc.Value(),
		Type:             rfc.Type(),
		IsGeneric:        rfc.IsGeneric(),
		IsForeign:        rfc.IsForeign(),
		DefaultTaxRegime: regime,
		DefaultCfdiUse:   sat.DefaultCfdiUse(rfc, regime),
		TaxRegimes:       sat.TaxRegimeOptionsFor(rfc.Type()),
	}
	if !rfc.IsPlaceholder() {
		if d, err := rfc.BirthDate(); err == nil {
			info.BirthDate = d.Format("2006-01-02")
		}
	}
	return info, nil
}
