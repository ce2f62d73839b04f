package entity

import "time"

// Company representa una organización/tenant del sistema y emisor de los CFDI.
type Company struct {
	ID             string
	Name           string // Razón social tal como aparece en la constancia de situación fiscal
	RFC            string
	TaxRegime      string // c_RegimenFiscal
	PostalCode     string // Lugar de expedición
	Address        string
	Phone          string
	Email          string
	CSDCertificate string // Certificado de sello digital (.cer en base64)
	CSDPrivateKey  string // Llave privada del CSD (.key en base64)
	Status         string // active, suspended, inactive
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasCSD indica si la empresa cargó certificado y llave del CSD.
func (c *Company) HasCSD() bool {
	return c.CSDCertificate != "" && c.CSDPrivateKey != ""
}
