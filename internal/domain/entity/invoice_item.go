package entity

import "github.com/shopspring/decimal"

// InvoiceItem representa un concepto de la factura.
type InvoiceItem struct {
	ID            string
	InvoiceID     string
	ProductID     string
	Description   string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	Total         decimal.Decimal // Importe = cantidad * valor unitario
	SATProductKey string          // c_ClaveProdServ (8 dígitos)
	SATUnitKey    string          // c_ClaveUnidad (H87, E48, ...)
	Unit          string          // Unidad en texto libre
}
