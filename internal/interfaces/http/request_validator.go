package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/cfdi-api/internal/application/dto"
)

// newRequestValidator configura go-playground/validator para reportar los nombres JSON de los campos.
func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldDetails traduce los errores del validador a detalles por campo.
func fieldDetails(err error) []dto.FieldDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]dto.FieldDetail, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, dto.FieldDetail{Field: fieldPath(e.Namespace()), Message: validationMessage(e)})
	}
	return out
}

// fieldPath quita el nombre del struct raíz: "ValidateSnapshotRequest.items[0].quantity" -> "items[0].quantity".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "campo obligatorio"
	case "numeric":
		return "debe ser numérico"
	case "max":
		return "máximo " + e.Param()
	case "min":
		return "mínimo " + e.Param()
	case "oneof":
		return "debe ser uno de: " + e.Param()
	default:
		return "valor inválido"
	}
}
