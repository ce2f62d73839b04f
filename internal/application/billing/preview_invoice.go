package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/cfdi-api/internal/application/dto"
	"github.com/jhoicas/cfdi-api/internal/domain/cfdi"
	"github.com/jhoicas/cfdi-api/internal/domain/repository"
	"github.com/jhoicas/cfdi-api/pkg/logger"
)

// ErrCannotPreview la factura tiene errores de contenido y no se puede representar.
var ErrCannotPreview = errors.New("la factura no tiene datos suficientes para la vista previa")

// CannotPreviewError acompaña ErrCannotPreview con el resultado de la validación.
type CannotPreviewError struct {
	Validation *dto.ValidationResponse
}

func (e *CannotPreviewError) Error() string {
	return fmt.Sprintf("%s (%d errores)", ErrCannotPreview.Error(), len(e.Validation.Errors))
}

// Is permite errors.Is(err, ErrCannotPreview).
func (e *CannotPreviewError) Is(target error) bool { return target == ErrCannotPreview }

// PreviewResult XML sin sellar y la validación que lo acompaña.
type PreviewResult struct {
	XML        []byte
	Validation *dto.ValidationResponse
}

// PreviewInvoiceUseCase genera la vista previa XML de una factura.
type PreviewInvoiceUseCase struct {
	loader    invoiceLoader
	validator *cfdi.Validator
	builder   PreviewBuilder
	log       *logger.Logger
}

// NewPreviewInvoiceUseCase construye el caso de uso.
func NewPreviewInvoiceUseCase(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	validator *cfdi.Validator,
	builder PreviewBuilder,
	log *logger.Logger,
) *PreviewInvoiceUseCase {
	if validator == nil {
		validator = cfdi.NewValidator()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PreviewInvoiceUseCase{
		loader:    invoiceLoader{invoiceRepo: invoiceRepo, companyRepo: companyRepo, customerRepo: customerRepo},
		validator: validator,
		builder:   builder,
		log:       log.Component("cfdi.preview"),
	}
}

// Preview valida y, si CanPreview, devuelve el XML. Una factura ya timbrada se puede previsualizar.
func (uc *PreviewInvoiceUseCase) Preview(ctx context.Context, companyID, invoiceID string) (*PreviewResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := uc.loader.load(companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	res := uc.validator.Validate(data)
	validation := dto.NewValidationResponse(invoiceID, res)
	if !res.CanPreview {
		uc.log.Info().Str("invoice_id", invoiceID).Int("errors", len(res.Errors)).Msg("vista previa rechazada")
		return nil, &CannotPreviewError{Validation: validation}
	}
	xml, err := uc.builder.Build(data)
	if err != nil {
		return nil, fmt.Errorf("generar XML de vista previa: %w", err)
	}
	return &PreviewResult{XML: xml, Validation: validation}, nil
}
