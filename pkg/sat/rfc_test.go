package sat_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cfdi-api/pkg/sat"
)

const (
	testRFCMoral  = "ABCD850101AB1" // 13 caracteres
	testRFCFisica = "ABC850101AB1"  // 12 caracteres
)

func TestParseRFC_Clasificacion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  sat.RFCType
		value string
	}{
		{"moral 13 caracteres", testRFCMoral, sat.RFCTypeMoral, testRFCMoral},
		{"fisica 12 caracteres", testRFCFisica, sat.RFCTypeFisica, testRFCFisica},
		{"generico nacional", sat.RFCGenerico, sat.RFCTypeGenerico, sat.RFCGenerico},
		{"generico extranjero", sat.RFCExtranjero, sat.RFCTypeExtranjero, sat.RFCExtranjero},
		{"normaliza minusculas y espacios", "  abcd850101ab1 ", sat.RFCTypeMoral, testRFCMoral},
		{"generico en minusculas", "xaxx010101000", sat.RFCTypeGenerico, sat.RFCGenerico},
		{"acepta enie", "ñand850101ab1", sat.RFCTypeMoral, "ÑAND850101AB1"},
		{"acepta ampersand", "A&C850101AB1", sat.RFCTypeFisica, "A&C850101AB1"},
		{"29 de febrero en año bisiesto", "ABC000229AB1", sat.RFCTypeFisica, "ABC000229AB1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := sat.ParseRFC(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Type())
			assert.Equal(t, tt.value, r.Value())
			assert.Equal(t, tt.value, r.String())
		})
	}
}

func TestParseRFC_Invalidos(t *testing.T) {
	for _, in := range []string{"", "   ", "123", "ABCD85010AB1", "ABCD850101AB", "ABCDE850101AB1", "AB1850101AB1", "ABCD850101AB1X",
		"ABCD851301AB1", // mes 13
		"ABCD859999AB1", // mes 99, día 99
		"ABC850230AB1",  // 30 de febrero
		"ABC010229AB1",  // 29 de febrero en año no bisiesto
		"ABC-850101-AB1", "ABC 850101AB1",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := sat.ParseRFC(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, sat.ErrInvalidRFC), "debe poder compararse con ErrInvalidRFC")

			var rfcErr *sat.InvalidRFCError
			assert.True(t, errors.As(err, &rfcErr))
			assert.False(t, sat.IsValidRFC(in))
		})
	}
}

func TestRFC_PredicadosGenericos(t *testing.T) {
	gen := sat.MustParseRFC(sat.RFCGenerico)
	assert.True(t, gen.IsGeneric())
	assert.False(t, gen.IsForeign())
	assert.True(t, gen.IsPlaceholder())

	ext := sat.MustParseRFC(sat.RFCExtranjero)
	assert.True(t, ext.IsForeign())
	assert.False(t, ext.IsGeneric())
	assert.True(t, ext.IsPlaceholder())

	moral := sat.MustParseRFC(testRFCMoral)
	assert.False(t, moral.IsGeneric())
	assert.False(t, moral.IsForeign())
	assert.True(t, moral.IsMoral())
	assert.False(t, moral.IsFisica())
}

func TestRFC_CanIssueTo(t *testing.T) {
	moral := sat.MustParseRFC(testRFCMoral)
	fisica := sat.MustParseRFC(testRFCFisica)
	gen := sat.MustParseRFC(sat.RFCGenerico)
	ext := sat.MustParseRFC(sat.RFCExtranjero)

	assert.False(t, moral.CanIssueTo(sat.MustParseRFC("abcd850101ab1")), "mismo RFC no genérico no puede facturarse a sí mismo")
	assert.False(t, fisica.CanIssueTo(fisica))
	assert.True(t, moral.CanIssueTo(fisica))
	assert.True(t, fisica.CanIssueTo(moral))
	assert.True(t, moral.CanIssueTo(gen))
	assert.True(t, gen.CanIssueTo(gen))
	assert.True(t, ext.CanIssueTo(ext))
	assert.True(t, moral.CanIssueTo(ext))
}

func TestRFC_BirthDate(t *testing.T) {
	d, err := sat.MustParseRFC(testRFCMoral).BirthDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(1985, time.January, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = sat.MustParseRFC("ABC991231XY9").BirthDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(1999, time.December, 31, 0, 0, 0, 0, time.UTC), d)

	d, err = sat.MustParseRFC(sat.RFCGenerico).BirthDate()
	require.NoError(t, err)
	assert.Equal(t, 2001, d.Year())

	_, err = sat.RFC{}.BirthDate()
	assert.Error(t, err)
}

func TestMustParseRFC_PanicSiInvalido(t *testing.T) {
	assert.Panics(t, func() { sat.MustParseRFC("no-es-rfc") })
}
