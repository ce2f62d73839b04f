package repository

import "github.com/jhoicas/cfdi-api/internal/domain/entity"

// CustomerRepository define el puerto de lectura del receptor.
type CustomerRepository interface {
	GetByID(id string) (*entity.Customer, error)
}
