package cfdixml_test

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cfdi-api/internal/domain/cfdi"
	"github.com/jhoicas/cfdi-api/internal/domain/entity"
	"github.com/jhoicas/cfdi-api/internal/infrastructure/cfdixml"
)

func sampleData() cfdi.InvoiceData {
	d := decimal.RequireFromString
	return cfdi.InvoiceData{
		Invoice: &entity.Invoice{
			Series: "A", Folio: "100",
			Date:          time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
			Status:        entity.InvoiceStatusPending,
			PaymentMethod: "PUE", PaymentForm: "03", CfdiUse: "G03", Currency: "MXN",
		},
		Company: &entity.Company{
			Name: "Comercializadora del Norte", RFC: "ABCD850101AB1", TaxRegime: "601", PostalCode: "06600",
		},
		Customer: &entity.Customer{
			Name: "Juan Pérez López", RFC: "pel850101ab1", TaxRegime: "612", PostalCode: "44100",
		},
		Items: []*entity.InvoiceItem{
			{Description: "Servicio", Quantity: d("2"), UnitPrice: d("100"), SATProductKey: "80101500", SATUnitKey: "E48"},
			{Description: "Licencia", Quantity: d("1"), UnitPrice: d("50.50"), SATProductKey: "43231500", SATUnitKey: "H87", Unit: "Pieza"},
		},
	}
}

func parse(t *testing.T, b []byte) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(b))
	require.NotNil(t, doc.Root())
	return doc.Root()
}

func TestBuild_Comprobante(t *testing.T) {
	b := cfdixml.NewPreviewBuilder(cfdi.DefaultTaxRate)
	out, err := b.Build(sampleData())
	require.NoError(t, err)

	root := parse(t, out)
	assert.Equal(t, "cfdi:Comprobante", root.FullTag())
	assert.Equal(t, cfdixml.NsCfdi, root.SelectAttrValue("xmlns:cfdi", ""))
	assert.Equal(t, "4.0", root.SelectAttrValue("Version", ""))
	assert.Equal(t, "2026-03-01T12:30:00", root.SelectAttrValue("Fecha", ""))
	assert.Equal(t, "250.50", root.SelectAttrValue("SubTotal", ""))
	assert.Equal(t, "290.58", root.SelectAttrValue("Total", ""))
	assert.Equal(t, "06600", root.SelectAttrValue("LugarExpedicion", ""))
	assert.Equal(t, "I", root.SelectAttrValue("TipoDeComprobante", ""))

	receptor := root.FindElement("cfdi:Receptor")
	require.NotNil(t, receptor)
	assert.Equal(t, "PEL850101AB1", receptor.SelectAttrValue("Rfc", ""))
	assert.Equal(t, "JUAN PÉREZ LÓPEZ", receptor.SelectAttrValue("Nombre", ""))
	assert.Equal(t, "G03", receptor.SelectAttrValue("UsoCFDI", ""))

	conceptos := root.FindElements("cfdi:Conceptos/cfdi:Concepto")
	require.Len(t, conceptos, 2)
	assert.Equal(t, "02", conceptos[0].SelectAttrValue("ObjetoImp", ""))
	assert.Equal(t, "200.00", conceptos[0].SelectAttrValue("Importe", ""))
	tr := conceptos[0].FindElement("cfdi:Impuestos/cfdi:Traslados/cfdi:Traslado")
	require.NotNil(t, tr)
	assert.Equal(t, "002", tr.SelectAttrValue("Impuesto", ""))
	assert.Equal(t, "0.160000", tr.SelectAttrValue("TasaOCuota", ""))
	assert.Equal(t, "32.00", tr.SelectAttrValue("Importe", ""))
	assert.Equal(t, "Pieza", conceptos[1].SelectAttrValue("Unidad", ""))

	imp := root.SelectElement("cfdi:Impuestos")
	require.NotNil(t, imp)
	assert.Equal(t, "40.08", imp.SelectAttrValue("TotalImpuestosTrasladados", ""))
}

func TestBuild_PublicoEnGeneral(t *testing.T) {
	data := sampleData()
	data.Customer = &entity.Customer{RFC: "XAXX010101000"}
	data.Invoice.CfdiUse = "S01"

	out, err := cfdixml.NewPreviewBuilder(cfdi.DefaultTaxRate).Build(data)
	require.NoError(t, err)
	receptor := parse(t, out).FindElement("cfdi:Receptor")
	assert.Equal(t, "PUBLICO EN GENERAL", receptor.SelectAttrValue("Nombre", ""))
	assert.Equal(t, "06600", receptor.SelectAttrValue("DomicilioFiscalReceptor", ""))
	assert.Equal(t, "616", receptor.SelectAttrValue("RegimenFiscalReceptor", ""))
}

func TestBuild_Determinista(t *testing.T) {
	b := cfdixml.NewPreviewBuilder(cfdi.DefaultTaxRate)
	a, err := b.Build(sampleData())
	require.NoError(t, err)
	c, err := b.Build(sampleData())
	require.NoError(t, err)
	assert.Equal(t, string(a), string(c))
}

func TestBuild_SinFactura(t *testing.T) {
	_, err := cfdixml.NewPreviewBuilder(cfdi.DefaultTaxRate).Build(cfdi.InvoiceData{})
	assert.Error(t, err)
}

func TestBuild_TotalesCuadranConElValidador(t *testing.T) {
	// Diez conceptos de 0.03: el IVA por línea redondea a 0.00, sobre el subtotal da 0.05.
	data := sampleData()
	data.Items = nil
	for i := 0; i < 10; i++ {
		data.Items = append(data.Items, &entity.InvoiceItem{
			Description: "Tornillo", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("0.03"),
			Total: decimal.RequireFromString("0.03"), SATProductKey: "31161500", SATUnitKey: "H87",
		})
	}
	totals := cfdi.ComputeTotals(data.Items, cfdi.DefaultTaxRate)
	data.Invoice.Subtotal, data.Invoice.Tax, data.Invoice.Total = totals.Subtotal, totals.Tax, totals.Total
	data.Company.CSDCertificate, data.Company.CSDPrivateKey = "cert", "key"

	res := cfdi.Validate(data)
	require.True(t, res.CanStamp)
	require.Empty(t, res.Warnings)

	out, err := cfdixml.NewPreviewBuilder(cfdi.DefaultTaxRate).Build(data)
	require.NoError(t, err)
	root := parse(t, out)

	assert.Equal(t, data.Invoice.Subtotal.StringFixed(2), root.SelectAttrValue("SubTotal", ""))
	assert.Equal(t, data.Invoice.Total.StringFixed(2), root.SelectAttrValue("Total", ""))
	assert.Equal(t, "0.35", root.SelectAttrValue("Total", ""))
	imp := root.SelectElement("cfdi:Impuestos")
	require.NotNil(t, imp)
	assert.Equal(t, "0.05", imp.SelectAttrValue("TotalImpuestosTrasladados", ""))
	tr := imp.FindElement("cfdi:Traslados/cfdi:Traslado")
	require.NotNil(t, tr)
	assert.Equal(t, "0.30", tr.SelectAttrValue("Base", ""))
	assert.Equal(t, "0.05", tr.SelectAttrValue("Importe", ""))
}

func TestBuild_ValorUnitarioConSeisDecimales(t *testing.T) {
	data := sampleData()
	data.Items = []*entity.InvoiceItem{
		{Description: "Kilowatt", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.RequireFromString("0.333333"), SATProductKey: "26101500", SATUnitKey: "KWH"},
		{Description: "Servicio", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("100.5"), SATProductKey: "80101500", SATUnitKey: "E48"},
	}

	out, err := cfdixml.NewPreviewBuilder(cfdi.DefaultTaxRate).Build(data)
	require.NoError(t, err)
	conceptos := parse(t, out).FindElements("cfdi:Conceptos/cfdi:Concepto")
	require.Len(t, conceptos, 2)
	assert.Equal(t, "0.333333", conceptos[0].SelectAttrValue("ValorUnitario", ""))
	assert.Equal(t, "1.00", conceptos[0].SelectAttrValue("Importe", ""))
	assert.Equal(t, "100.50", conceptos[1].SelectAttrValue("ValorUnitario", ""))
}
