package sat_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/cfdi-api/pkg/sat"
)

func TestDescripciones(t *testing.T) {
	d, ok := sat.PaymentFormDescription("03")
	assert.True(t, ok)
	assert.Equal(t, "Transferencia electrónica de fondos", d)

	d, ok = sat.PaymentMethodDescription(sat.PaymentMethodPPD)
	assert.True(t, ok)
	assert.Equal(t, "Pago en parcialidades o diferido", d)

	d, ok = sat.CfdiUseDescription("G03")
	assert.True(t, ok)
	assert.Equal(t, "Gastos en general", d)

	d, ok = sat.TaxRegimeDescription("601")
	assert.True(t, ok)
	assert.Equal(t, "General de Ley Personas Morales", d)

	_, ok = sat.PaymentFormDescription("07")
	assert.False(t, ok, "07 no existe en c_FormaPago")
	_, ok = sat.CfdiUseDescription("P01")
	assert.False(t, ok, "P01 fue eliminado en CFDI 4.0")
	_, ok = sat.TaxRegimeDescription("999")
	assert.False(t, ok)
}

func TestValidadoresDeCatalogo(t *testing.T) {
	assert.True(t, sat.IsValidPaymentMethod("PUE"))
	assert.False(t, sat.IsValidPaymentMethod("pue"))
	assert.True(t, sat.IsValidPaymentForm("99"))
	assert.False(t, sat.IsValidPaymentForm("1"))
	assert.True(t, sat.IsValidCfdiUse("CP01"))
	assert.True(t, sat.IsValidTaxRegime("626"))
	assert.True(t, sat.IsValidPostalCode("06600"))
	assert.False(t, sat.IsValidPostalCode("6600"))
	assert.False(t, sat.IsValidPostalCode("0660A"))
}

func TestRegimeAppliesTo(t *testing.T) {
	tests := []struct {
		regime string
		typ    sat.RFCType
		want   bool
	}{
		{"601", sat.RFCTypeMoral, true},
		{"601", sat.RFCTypeFisica, false},
		{"612", sat.RFCTypeFisica, true},
		{"612", sat.RFCTypeMoral, false},
		{"626", sat.RFCTypeMoral, true},
		{"626", sat.RFCTypeFisica, true},
		{"616", sat.RFCTypeGenerico, true},
		{"601", sat.RFCTypeGenerico, false},
		{"610", sat.RFCTypeExtranjero, true},
		{"999", sat.RFCTypeMoral, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sat.RegimeAppliesTo(tt.regime, tt.typ), "%s/%s", tt.regime, tt.typ)
	}
}

func TestCfdiUseAllowedForRegime(t *testing.T) {
	assert.True(t, sat.CfdiUseAllowedForRegime("G03", "601"))
	assert.False(t, sat.CfdiUseAllowedForRegime("G03", "605"), "asalariados no deducen gastos en general")
	assert.True(t, sat.CfdiUseAllowedForRegime("D01", "605"))
	assert.False(t, sat.CfdiUseAllowedForRegime("D01", "601"))
	assert.True(t, sat.CfdiUseAllowedForRegime("S01", "616"))
	assert.True(t, sat.CfdiUseAllowedForRegime("CN01", "605"))
	assert.False(t, sat.CfdiUseAllowedForRegime("XX1", "601"))
}

func TestDefaults(t *testing.T) {
	moral := sat.MustParseRFC(testRFCMoral)
	fisica := sat.MustParseRFC(testRFCFisica)
	gen := sat.MustParseRFC(sat.RFCGenerico)

	assert.Equal(t, "601", sat.DefaultTaxRegime(moral))
	assert.Equal(t, "612", sat.DefaultTaxRegime(fisica))
	assert.Equal(t, "616", sat.DefaultTaxRegime(gen))
	assert.Equal(t, "", sat.DefaultTaxRegime(sat.RFC{}))

	assert.Equal(t, "S01", sat.DefaultCfdiUse(gen, ""))
	assert.Equal(t, "G03", sat.DefaultCfdiUse(moral, ""))
	assert.Equal(t, "G03", sat.DefaultCfdiUse(fisica, "612"))
	assert.Equal(t, "S01", sat.DefaultCfdiUse(fisica, "605"))

	assert.Equal(t, "99", sat.DefaultPaymentForm(sat.PaymentMethodPPD))
	assert.Equal(t, "03", sat.DefaultPaymentForm(sat.PaymentMethodPUE))
}

func TestOptions_OrdenadasPorCodigo(t *testing.T) {
	for name, opts := range map[string][]sat.Option{
		"formas":    sat.PaymentFormOptions(),
		"metodos":   sat.PaymentMethodOptions(),
		"usos":      sat.CfdiUseOptions(),
		"regimenes": sat.TaxRegimeOptions(),
	} {
		assert.NotEmpty(t, opts, name)
		assert.True(t, sort.SliceIsSorted(opts, func(i, j int) bool { return opts[i].Code < opts[j].Code }), name)
	}
	assert.Len(t, sat.PaymentMethodOptions(), 2)

	for _, o := range sat.TaxRegimeOptionsFor(sat.RFCTypeMoral) {
		assert.True(t, sat.RegimeAppliesTo(o.Code, sat.RFCTypeMoral), o.Code)
	}
	assert.Equal(t, []sat.Option{{Code: "616", Description: "Sin obligaciones fiscales"}}, sat.TaxRegimeOptionsFor(sat.RFCTypeGenerico))
}
