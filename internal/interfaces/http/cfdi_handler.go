package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cfdi-api/internal/application/billing"
	"github.com/jhoicas/cfdi-api/internal/application/dto"
	"github.com/jhoicas/cfdi-api/internal/domain"
)

// CFDIHandler maneja validación, vista previa, timbrado y catálogos (protegido).
type CFDIHandler struct {
	validateUC  *billing.ValidateInvoiceUseCase
	previewUC   *billing.PreviewInvoiceUseCase
	stampUC     *billing.StampInvoiceUseCase
	catalogueUC *billing.CatalogueUseCase
	validate    *validator.Validate
}

// NewCFDIHandler construye el handler.
func NewCFDIHandler(
	validateUC *billing.ValidateInvoiceUseCase,
	previewUC *billing.PreviewInvoiceUseCase,
	stampUC *billing.StampInvoiceUseCase,
	catalogueUC *billing.CatalogueUseCase,
) *CFDIHandler {
	return &CFDIHandler{
		validateUC:  validateUC,
		previewUC:   previewUC,
		stampUC:     stampUC,
		catalogueUC: catalogueUC,
		validate:    newRequestValidator(),
	}
}

// ValidateSnapshot valida una factura enviada en el cuerpo, sin guardarla.
// POST /api/cfdi/validate
func (h *CFDIHandler) ValidateSnapshot(c *fiber.Ctx) error {
	var in dto.ValidateSnapshotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "la petición tiene campos con formato inválido",
			Details: fieldDetails(err),
		})
	}
	res, err := h.validateUC.ValidateSnapshot(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// ValidateInvoice valida una factura guardada.
// GET /api/invoices/:id/validation
func (h *CFDIHandler) ValidateInvoice(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return writeError(c, domain.ErrUnauthorized)
	}
	res, err := h.validateUC.Validate(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Preview devuelve el XML CFDI 4.0 sin sellar.
// GET /api/invoices/:id/preview
func (h *CFDIHandler) Preview(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return writeError(c, domain.ErrUnauthorized)
	}
	out, err := h.previewUC.Preview(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		var cpe *billing.CannotPreviewError
		if errors.As(err, &cpe) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(cpe.Validation)
		}
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.Send(out.XML)
}

// Stamp valida y timbra la factura.
// POST /api/invoices/:id/stamp
func (h *CFDIHandler) Stamp(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return writeError(c, domain.ErrUnauthorized)
	}
	res, err := h.stampUC.Stamp(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		var nse *billing.NotStampableError
		if errors.As(err, &nse) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(nse.Validation)
		}
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Catalogues devuelve los catálogos del SAT; con ?rfc= agrega valores sugeridos.
// GET /api/cfdi/catalogues
func (h *CFDIHandler) Catalogues(c *fiber.Ctx) error {
	res, err := h.catalogueUC.Catalogues(c.Query("rfc"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// LookupRFC valida y clasifica un RFC.
// GET /api/cfdi/rfc/:rfc
func (h *CFDIHandler) LookupRFC(c *fiber.Ctx) error {
	res, err := h.catalogueUC.LookupRFC(c.Params("rfc"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}
