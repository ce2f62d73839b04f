package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/cfdi-api/internal/domain/entity"
	"github.com/jhoicas/cfdi-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// GetByID obtiene el emisor por ID, incluyendo régimen, CP de expedición y CSD.
func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	query := `
		SELECT id, name, COALESCE(rfc, ''), COALESCE(tax_regime, ''), COALESCE(postal_code, ''),
		       address, phone, email, csd_certificate, csd_private_key, status,
		       created_at, updated_at
		FROM companies WHERE id = $1`
	var c entity.Company
	var address, phone, email, cer, key *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.Name, &c.RFC, &c.TaxRegime, &c.PostalCode,
		&address, &phone, &email, &cer, &key, &c.Status,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	c.Address = derefStr(address)
	c.Phone = derefStr(phone)
	c.Email = derefStr(email)
	c.CSDCertificate = derefStr(cer)
	c.CSDPrivateKey = derefStr(key)
	return &c, nil
}
