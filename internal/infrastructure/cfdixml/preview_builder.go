// Package cfdixml genera el XML CFDI 4.0 sin sellar que se muestra como vista
// previa y que se entrega al PAC para su timbrado.
package cfdixml

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/cfdi-api/internal/application/billing"
	"github.com/jhoicas/cfdi-api/internal/domain/cfdi"
	"github.com/jhoicas/cfdi-api/internal/domain/entity"
	"github.com/jhoicas/cfdi-api/pkg/sat"
)

// Namespaces del Anexo 20 versión 4.0.
const (
	NsCfdi         = "http://www.sat.gob.mx/cfd/4"
	nsXsi          = "http://www.w3.org/2001/XMLSchema-instance"
	schemaLocation = "http://www.sat.gob.mx/cfd/4 http://www.sat.gob.mx/sitio_internet/cfd/4/cfdv40.xsd"

	cfdiVersion         = "4.0"
	tipoIngreso         = "I"
	exportacionNoAplica = "01"
	objetoImpSi         = "02"
	impuestoIVA         = "002"
	tipoFactorTasa      = "Tasa"
	fechaLayout         = "2006-01-02T15:04:05"
	nombrePublico       = "PUBLICO EN GENERAL"
)

var _ billing.PreviewBuilder = (*PreviewBuilder)(nil)

// PreviewBuilder construye el cfdi:Comprobante con etree. Salida determinista para la misma entrada.
type PreviewBuilder struct {
	taxRate decimal.Decimal
}

// NewPreviewBuilder crea el builder con la tasa de IVA que se trasladará en cada concepto.
func NewPreviewBuilder(taxRate decimal.Decimal) *PreviewBuilder {
	return &PreviewBuilder{taxRate: taxRate}
}

// Build genera el XML. Los importes se recalculan desde los conceptos para que el documento cuadre.
func (b *PreviewBuilder) Build(data cfdi.InvoiceData) ([]byte, error) {
	if data.Invoice == nil {
		return nil, fmt.Errorf("cfdixml: falta la factura")
	}
	inv := data.Invoice
	company := data.Company
	if company == nil {
		company = &entity.Company{}
	}
	customer := data.Customer
	if customer == nil {
		customer = &entity.Customer{}
	}

	// cases.Caser guarda estado y no se comparte entre goroutines.
	upper := cases.Upper(language.Spanish)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("cfdi:Comprobante")
	root.CreateAttr("xmlns:cfdi", NsCfdi)
	root.CreateAttr("xmlns:xsi", nsXsi)
	root.CreateAttr("xsi:schemaLocation", schemaLocation)
	root.CreateAttr("Version", cfdiVersion)
	setAttr(root, "Serie", inv.Series)
	setAttr(root, "Folio", inv.Folio)
	if !inv.Date.IsZero() {
		root.CreateAttr("Fecha", inv.Date.Format(fechaLayout))
	}
	setAttr(root, "FormaPago", inv.PaymentForm)

	// Los totales del comprobante usan el mismo redondeo que el validador.
	totals := cfdi.ComputeTotals(data.Items, b.taxRate)

	conceptos := etree.NewElement("cfdi:Conceptos")
	for _, it := range data.Items {
		if it == nil {
			continue
		}
		importe := cfdi.LineAmount(it.Quantity, it.UnitPrice)

		c := conceptos.CreateElement("cfdi:Concepto")
		c.CreateAttr("ClaveProdServ", it.SATProductKey)
		c.CreateAttr("Cantidad", it.Quantity.String())
		c.CreateAttr("ClaveUnidad", it.SATUnitKey)
		setAttr(c, "Unidad", it.Unit)
		c.CreateAttr("Descripcion", strings.TrimSpace(it.Description))
		c.CreateAttr("ValorUnitario", unitPrice(it.UnitPrice))
		c.CreateAttr("Importe", importe.StringFixed(2))
		c.CreateAttr("ObjetoImp", objetoImpSi)
		b.addTraslado(c.CreateElement("cfdi:Impuestos").CreateElement("cfdi:Traslados"),
			importe, cfdi.Round2(importe.Mul(b.taxRate)))
	}

	root.CreateAttr("SubTotal", totals.Subtotal.StringFixed(2))
	root.CreateAttr("Moneda", defaultString(inv.Currency, "MXN"))
	root.CreateAttr("Total", totals.Total.StringFixed(2))
	root.CreateAttr("TipoDeComprobante", tipoIngreso)
	root.CreateAttr("Exportacion", exportacionNoAplica)
	setAttr(root, "MetodoPago", inv.PaymentMethod)
	root.CreateAttr("LugarExpedicion", company.PostalCode)

	// ---- Emisor
	emisor := root.CreateElement("cfdi:Emisor")
	emisor.CreateAttr("Rfc", sat.NormalizeRFC(company.RFC))
	emisor.CreateAttr("Nombre", upper.String(strings.TrimSpace(company.Name)))
	emisor.CreateAttr("RegimenFiscal", company.TaxRegime)

	// ---- Receptor
	receptor := root.CreateElement("cfdi:Receptor")
	fillReceptor(receptor, upper, customer, company, inv)

	root.AddChild(conceptos)

	// ---- Impuestos del comprobante
	if len(conceptos.ChildElements()) > 0 {
		imp := root.CreateElement("cfdi:Impuestos")
		imp.CreateAttr("TotalImpuestosTrasladados", totals.Tax.StringFixed(2))
		b.addTraslado(imp.CreateElement("cfdi:Traslados"), totals.Subtotal, totals.Tax)
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func fillReceptor(el *etree.Element, upper cases.Caser, c *entity.Customer, issuer *entity.Company, inv *entity.Invoice) {
	rfc := sat.NormalizeRFC(c.RFC)
	name := upper.String(strings.TrimSpace(c.Name))
	regime := c.TaxRegime
	postal := c.PostalCode

	// Público en general: nombre fijo, domicilio = lugar de expedición, régimen 616.
	if rfc == sat.RFCGenerico {
		name = nombrePublico
		postal = issuer.PostalCode
		regime = sat.TaxRegimeSinObligaciones
	}

	el.CreateAttr("Rfc", rfc)
	el.CreateAttr("Nombre", name)
	el.CreateAttr("DomicilioFiscalReceptor", postal)
	el.CreateAttr("RegimenFiscalReceptor", regime)
	el.CreateAttr("UsoCFDI", inv.CfdiUse)
}

func (b *PreviewBuilder) addTraslado(traslados *etree.Element, base, importe decimal.Decimal) {
	t := traslados.CreateElement("cfdi:Traslado")
	t.CreateAttr("Base", base.StringFixed(2))
	t.CreateAttr("Impuesto", impuestoIVA)
	t.CreateAttr("TipoFactor", tipoFactorTasa)
	t.CreateAttr("TasaOCuota", b.taxRate.StringFixed(6))
	t.CreateAttr("Importe", importe.StringFixed(2))
}

// unitPrice escribe el valor unitario con 2 a 6 decimales, como lo guarda NUMERIC(18,6).
func unitPrice(d decimal.Decimal) string {
	s := d.Round(6).String()
	if i := strings.IndexByte(s, '.'); i < 0 || len(s)-i-1 < 2 {
		return d.StringFixed(2)
	}
	return s
}

// setAttr omite atributos opcionales vacíos.
func setAttr(el *etree.Element, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		el.CreateAttr(key, value)
	}
}

func defaultString(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
