package repository

import "github.com/jhoicas/cfdi-api/internal/domain/entity"

// CompanyRepository define el puerto de lectura del emisor (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	GetByID(id string) (*entity.Company, error)
}
