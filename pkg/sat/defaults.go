package sat

// DefaultTaxRegime sugiere el régimen fiscal para un RFC.
func DefaultTaxRegime(rfc RFC) string {
	switch rfc.Type() {
	case RFCTypeGenerico, RFCTypeExtranjero:
		return TaxRegimeSinObligaciones
	case RFCTypeMoral:
		return TaxRegimeGeneralMorales
	case RFCTypeFisica:
		return TaxRegimeActividadesEmpres
	}
	return ""
}

// DefaultCfdiUse sugiere el uso de CFDI para un receptor.
// Público en general y extranjeros: S01. Resto: G03 si el régimen lo admite.
func DefaultCfdiUse(rfc RFC, regime string) string {
	if rfc.IsPlaceholder() {
		return CfdiUseSinEfectosFiscales
	}
	if regime == "" {
		regime = DefaultTaxRegime(rfc)
	}
	if CfdiUseAllowedForRegime(CfdiUseGastosGeneral, regime) {
		return CfdiUseGastosGeneral
	}
	return CfdiUseSinEfectosFiscales
}

// DefaultPaymentForm sugiere la forma de pago según el método.
// PPD exige 99 (Por definir); PUE se propone como transferencia.
func DefaultPaymentForm(method string) string {
	if method == PaymentMethodPPD {
		return PaymentFormPorDefinir
	}
	return PaymentFormTransferencia
}
