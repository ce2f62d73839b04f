package entity

import "time"

// Customer representa un cliente de la empresa (receptor del CFDI).
type Customer struct {
	ID         string
	CompanyID  string
	Name       string
	RFC        string
	TaxRegime  string // c_RegimenFiscal del receptor
	PostalCode string // Domicilio fiscal del receptor
	CfdiUse    string // Uso de CFDI habitual
	Email      string
	Phone      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
