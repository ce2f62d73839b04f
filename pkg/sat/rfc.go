// Package sat contiene el RFC (Registro Federal de Contribuyentes) y los catálogos
// del SAT usados en la emisión de CFDI 4.0 (México).
package sat

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RFCType clasifica el RFC según su formato.
type RFCType string

const (
	RFCTypeMoral      RFCType = "MORAL"
	RFCTypeFisica     RFCType = "FISICA"
	RFCTypeGenerico   RFCType = "GENERICO"
	RFCTypeExtranjero RFCType = "EXTRANJERO"
)

// RFC genéricos publicados por el SAT.
const (
	RFCGenerico   = "XAXX010101000" // Público en general
	RFCExtranjero = "XEXX010101000" // Residente en el extranjero
)

// ErrInvalidRFC permite comparar con errors.Is cualquier *InvalidRFCError.
var ErrInvalidRFC = errors.New("sat: RFC inválido")

// InvalidRFCError describe un RFC que no cumple ningún formato del SAT.
type InvalidRFCError struct {
	Value  string
	Reason string
}

func (e *InvalidRFCError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("sat: RFC inválido: %s", e.Reason)
	}
	return fmt.Sprintf("sat: RFC inválido %q: %s", e.Value, e.Reason)
}

// Is hace que errors.Is(err, ErrInvalidRFC) sea verdadero.
func (e *InvalidRFCError) Is(target error) bool { return target == ErrInvalidRFC }

var (
	// 4 letras + fecha AAMMDD + homoclave (13 caracteres).
	rfcMoralPattern = regexp.MustCompile(`^[A-ZÑ&]{4}[0-9]{6}[A-Z0-9]{3}$`)
	// 3 letras + fecha AAMMDD + homoclave (12 caracteres).
	rfcFisicaPattern = regexp.MustCompile(`^[A-ZÑ&]{3}[0-9]{6}[A-Z0-9]{3}$`)
)

// RFC es un value object inmutable: el tipo se deriva una sola vez en ParseRFC.
type RFC struct {
	value   string
	rfcType RFCType
}

// ParseRFC normaliza (trim + mayúsculas) y clasifica el RFC.
// Devuelve *InvalidRFCError si el valor no coincide con ningún patrón
// o si el segmento AAMMDD no es una fecha real.
func ParseRFC(value string) (RFC, error) {
	v := NormalizeRFC(value)
	if v == "" {
		return RFC{}, &InvalidRFCError{Reason: "valor vacío"}
	}
	switch {
	case v == RFCGenerico:
		return RFC{value: v, rfcType: RFCTypeGenerico}, nil
	case v == RFCExtranjero:
		return RFC{value: v, rfcType: RFCTypeExtranjero}, nil
	}

	r := RFC{value: v}
	switch {
	case rfcMoralPattern.MatchString(v):
		r.rfcType = RFCTypeMoral
	case rfcFisicaPattern.MatchString(v):
		r.rfcType = RFCTypeFisica
	default:
		return RFC{}, &InvalidRFCError{Value: v, Reason: "no coincide con el formato de persona moral, física o genérico"}
	}
	if _, err := r.BirthDate(); err != nil {
		return RFC{}, err
	}
	return r, nil
}

// MustParseRFC es ParseRFC que hace panic; solo para constantes y tests.
func MustParseRFC(value string) RFC {
	r, err := ParseRFC(value)
	if err != nil {
		panic(err)
	}
	return r
}

// IsValidRFC indica si el valor es un RFC con formato válido.
func IsValidRFC(value string) bool {
	_, err := ParseRFC(value)
	return err == nil
}

// NormalizeRFC quita espacios de los extremos y pasa a mayúsculas.
// Guiones o espacios internos se conservan y hacen fallar ParseRFC.
func NormalizeRFC(value string) string {
	// cases.Caser guarda estado: uno por llamada.
	return cases.Upper(language.Spanish).String(strings.TrimSpace(value))
}

func (r RFC) Value() string   { return r.value }
func (r RFC) String() string  { return r.value }
func (r RFC) Type() RFCType   { return r.rfcType }
func (r RFC) IsZero() bool    { return r.value == "" }
func (r RFC) IsGeneric() bool { return r.rfcType == RFCTypeGenerico }
func (r RFC) IsForeign() bool { return r.rfcType == RFCTypeExtranjero }
func (r RFC) IsMoral() bool   { return r.rfcType == RFCTypeMoral }
func (r RFC) IsFisica() bool  { return r.rfcType == RFCTypeFisica }

// IsPlaceholder es verdadero para los dos RFC genéricos del SAT.
func (r RFC) IsPlaceholder() bool { return r.IsGeneric() || r.IsForeign() }

// Equal compara por valor normalizado.
func (r RFC) Equal(other RFC) bool { return r.value == other.value }

// CanIssueTo indica si r (emisor) puede facturar a other (receptor).
// Con RFC genéricos siempre se permite; en otro caso emisor y receptor deben ser distintos.
func (r RFC) CanIssueTo(other RFC) bool {
	if r.IsPlaceholder() || other.IsPlaceholder() {
		return true
	}
	return r.value != other.value
}

// BirthDate decodifica el segmento AAMMDD (fecha de nacimiento o constitución).
// El siglo se elige de forma que la fecha no quede en el futuro.
func (r RFC) BirthDate() (time.Time, error) {
	if r.IsZero() {
		return time.Time{}, &InvalidRFCError{Reason: "valor vacío"}
	}
	runes := []rune(r.value)
	prefix := 4
	if r.rfcType == RFCTypeFisica {
		prefix = 3
	}
	seg := string(runes[prefix : prefix+6])
	var yy, mm, dd int
	if _, err := fmt.Sscanf(seg, "%2d%2d%2d", &yy, &mm, &dd); err != nil {
		return time.Time{}, &InvalidRFCError{Value: r.value, Reason: "fecha ilegible"}
	}
	year := 2000 + yy
	if year > time.Now().Year() {
		year -= 100
	}
	d := time.Date(year, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || int(d.Month()) != mm || d.Day() != dd {
		return time.Time{}, &InvalidRFCError{Value: r.value, Reason: fmt.Sprintf("fecha %s inexistente", seg)}
	}
	return d, nil
}
