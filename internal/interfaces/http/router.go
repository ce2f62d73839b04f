package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cfdi-api/internal/application/billing"
	"github.com/jhoicas/cfdi-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ValidateInvoice *billing.ValidateInvoiceUseCase
	PreviewInvoice  *billing.PreviewInvoiceUseCase
	StampInvoice    *billing.StampInvoiceUseCase
	Catalogues      *billing.CatalogueUseCase
	JWTSecret       string
	JWTIssuer       string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	h := NewCFDIHandler(deps.ValidateInvoice, deps.PreviewInvoice, deps.StampInvoice, deps.Catalogues)

	// CFDI: validación ad hoc y catálogos del SAT
	cfdiGroup := protected.Group("/cfdi")
	cfdiGroup.Post("/validate", h.ValidateSnapshot)
	cfdiGroup.Get("/catalogues", h.Catalogues)
	cfdiGroup.Get("/rfc/:rfc", h.LookupRFC)

	// Facturas guardadas
	invoices := protected.Group("/invoices")
	invoices.Get("/:id/validation", h.ValidateInvoice)
	invoices.Get("/:id/preview", h.Preview)
	invoices.Post("/:id/stamp", RequireRole(jwt.RoleAdmin, jwt.RoleFacturista), h.Stamp)
}
