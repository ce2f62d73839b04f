package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/cfdi-api/internal/application/dto"
	"github.com/jhoicas/cfdi-api/internal/domain"
	"github.com/jhoicas/cfdi-api/internal/domain/cfdi"
	"github.com/jhoicas/cfdi-api/internal/domain/repository"
	"github.com/jhoicas/cfdi-api/pkg/logger"
)

// ValidateInvoiceUseCase valida facturas guardadas o fotografías enviadas por el cliente.
type ValidateInvoiceUseCase struct {
	loader    invoiceLoader
	validator *cfdi.Validator
	log       *logger.Logger
}

// NewValidateInvoiceUseCase construye el caso de uso. validator nil usa la configuración predeterminada.
func NewValidateInvoiceUseCase(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	validator *cfdi.Validator,
	log *logger.Logger,
) *ValidateInvoiceUseCase {
	if validator == nil {
		validator = cfdi.NewValidator()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ValidateInvoiceUseCase{
		loader:    invoiceLoader{invoiceRepo: invoiceRepo, companyRepo: companyRepo, customerRepo: customerRepo},
		validator: validator,
		log:       log.Component("cfdi.validate"),
	}
}

// Validate carga la factura de la empresa y ejecuta todas las reglas.
func (uc *ValidateInvoiceUseCase) Validate(ctx context.Context, companyID, invoiceID string) (*dto.ValidationResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := uc.loader.load(companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	res := uc.validator.Validate(data)
	logResult(uc.log, invoiceID, res)
	return dto.NewValidationResponse(invoiceID, res), nil
}

// ValidateSnapshot valida una factura que aún no está guardada. No persiste nada.
func (uc *ValidateInvoiceUseCase) ValidateSnapshot(ctx context.Context, in dto.ValidateSnapshotRequest) (*dto.ValidationResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := in.ToInvoiceData()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	res := uc.validator.Validate(data)
	id := ""
	if in.Invoice != nil {
		id = in.Invoice.ID
	}
	logResult(uc.log, id, res)
	return dto.NewValidationResponse(id, res), nil
}

func logResult(log *logger.Logger, invoiceID string, res cfdi.ValidationResult) {
	ev := log.Info()
	if !res.CanStamp {
		ev = log.Warn()
	}
	ev.Str("invoice_id", invoiceID).
		Int("errors", len(res.Errors)).
		Int("warnings", len(res.Warnings)).
		Bool("can_stamp", res.CanStamp).
		Msg("factura validada")
}
