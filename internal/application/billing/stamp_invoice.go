package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/cfdi-api/internal/application/dto"
	"github.com/jhoicas/cfdi-api/internal/domain/cfdi"
	"github.com/jhoicas/cfdi-api/internal/domain/entity"
	"github.com/jhoicas/cfdi-api/internal/domain/repository"
	"github.com/jhoicas/cfdi-api/pkg/logger"
)

// NotStampableError la validación encontró errores; no se llamó al PAC.
type NotStampableError struct {
	Validation *dto.ValidationResponse
}

func (e *NotStampableError) Error() string {
	return fmt.Sprintf("%s (%d errores)", cfdi.ErrNotStampable.Error(), len(e.Validation.Errors))
}

// Is permite errors.Is(err, cfdi.ErrNotStampable).
func (e *NotStampableError) Is(target error) bool { return target == cfdi.ErrNotStampable }

// StampInvoiceUseCase valida y timbra una factura pendiente.
//
//	Cargar → Validar → XML → PAC → MarkStamped
//
// Si el PAC falla la factura sigue en pending y se puede reintentar.
type StampInvoiceUseCase struct {
	loader      invoiceLoader
	invoiceRepo repository.InvoiceRepository
	validator   *cfdi.Validator
	builder     PreviewBuilder
	stamper     Stamper
	log         *logger.Logger
}

// NewStampInvoiceUseCase construye el caso de uso con todas sus dependencias.
func NewStampInvoiceUseCase(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	validator *cfdi.Validator,
	builder PreviewBuilder,
	stamper Stamper,
	log *logger.Logger,
) *StampInvoiceUseCase {
	if validator == nil {
		validator = cfdi.NewValidator()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &StampInvoiceUseCase{
		loader:      invoiceLoader{invoiceRepo: invoiceRepo, companyRepo: companyRepo, customerRepo: customerRepo},
		invoiceRepo: invoiceRepo,
		validator:   validator,
		builder:     builder,
		stamper:     stamper,
		log:         log.Component("cfdi.stamp"),
	}
}

// Stamp timbra la factura si CanStamp. Devuelve *NotStampableError si la validación lo impide.
func (uc *StampInvoiceUseCase) Stamp(ctx context.Context, companyID, invoiceID string) (*dto.StampResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := uc.loader.load(companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	res := uc.validator.Validate(data)
	if !res.CanStamp {
		uc.log.Warn().Str("invoice_id", invoiceID).Int("errors", len(res.Errors)).Msg("timbrado rechazado por validación")
		return nil, &NotStampableError{Validation: dto.NewValidationResponse(invoiceID, res)}
	}

	xml, err := uc.builder.Build(data)
	if err != nil {
		return nil, fmt.Errorf("generar XML: %w", err)
	}

	stamp, err := uc.stamper.Stamp(ctx, invoiceID, xml)
	if err != nil {
		uc.log.Error().Err(err).Str("invoice_id", invoiceID).Msg("el PAC rechazó el timbrado")
		return nil, fmt.Errorf("timbrar factura %s: %w", invoiceID, err)
	}

	if err := uc.invoiceRepo.MarkStamped(invoiceID, stamp.FiscalUUID, stamp.StampedAt); err != nil {
		uc.log.Error().Err(err).Str("invoice_id", invoiceID).Str("fiscal_uuid", stamp.FiscalUUID).
			Msg("timbre obtenido pero no se pudo guardar")
		return nil, fmt.Errorf("guardar timbre: %w", err)
	}

	uc.log.Info().Str("invoice_id", invoiceID).Str("fiscal_uuid", stamp.FiscalUUID).
		Int("warnings", len(res.Warnings)).Msg("factura timbrada")

	return &dto.StampResponse{
		InvoiceID:  invoiceID,
		Status:     entity.InvoiceStatusStamped,
		FiscalUUID: stamp.FiscalUUID,
		StampedAt:  stamp.StampedAt,
		Warnings:   res.Warnings,
	}, nil
}
