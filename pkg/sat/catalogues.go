package sat

import (
	"regexp"
	"sort"
)

// =============================================================================
// c_MetodoPago - Método de pago
// =============================================================================

const (
	PaymentMethodPUE = "PUE" // Pago en una sola exhibición
	PaymentMethodPPD = "PPD" // Pago en parcialidades o diferido
)

var paymentMethods = map[string]string{
	PaymentMethodPUE: "Pago en una sola exhibición",
	PaymentMethodPPD: "Pago en parcialidades o diferido",
}

// =============================================================================
// c_FormaPago - Forma de pago
// =============================================================================

const (
	PaymentFormEfectivo      = "01"
	PaymentFormCheque        = "02"
	PaymentFormTransferencia = "03"
	PaymentFormTarjetaCred   = "04"
	PaymentFormTarjetaDeb    = "28"
	PaymentFormPorDefinir    = "99"
)

var paymentForms = map[string]string{
	"01": "Efectivo",
	"02": "Cheque nominativo",
	"03": "Transferencia electrónica de fondos",
	"04": "Tarjeta de crédito",
	"05": "Monedero electrónico",
	"06": "Dinero electrónico",
	"08": "Vales de despensa",
	"12": "Dación en pago",
	"13": "Pago por subrogación",
	"14": "Pago por consignación",
	"15": "Condonación",
	"17": "Compensación",
	"23": "Novación",
	"24": "Confusión",
	"25": "Remisión de deuda",
	"26": "Prescripción o caducidad",
	"27": "A satisfacción del acreedor",
	"28": "Tarjeta de débito",
	"29": "Tarjeta de servicios",
	"30": "Aplicación de anticipos",
	"31": "Intermediario pagos",
	"99": "Por definir",
}

// =============================================================================
// c_RegimenFiscal - Régimen fiscal
// =============================================================================

const (
	TaxRegimeGeneralMorales     = "601"
	TaxRegimeSinFinesLucro      = "603"
	TaxRegimeSueldos            = "605"
	TaxRegimeArrendamiento      = "606"
	TaxRegimeResidentesExtranj  = "610"
	TaxRegimeActividadesEmpres  = "612"
	TaxRegimeSinObligaciones    = "616"
	TaxRegimeSimplificadoConfia = "626"
)

type regimeInfo struct {
	description string
	fisica      bool
	moral       bool
}

var taxRegimes = map[string]regimeInfo{
	"601": {"General de Ley Personas Morales", false, true},
	"603": {"Personas Morales con Fines no Lucrativos", false, true},
	"605": {"Sueldos y Salarios e Ingresos Asimilados a Salarios", true, false},
	"606": {"Arrendamiento", true, false},
	"607": {"Régimen de Enajenación o Adquisición de Bienes", true, false},
	"608": {"Demás ingresos", true, false},
	"610": {"Residentes en el Extranjero sin Establecimiento Permanente en México", true, true},
	"611": {"Ingresos por Dividendos (socios y accionistas)", true, false},
	"612": {"Personas Físicas con Actividades Empresariales y Profesionales", true, false},
	"614": {"Ingresos por intereses", true, false},
	"615": {"Régimen de los ingresos por obtención de premios", true, false},
	"616": {"Sin obligaciones fiscales", true, false},
	"620": {"Sociedades Cooperativas de Producción que optan por diferir sus ingresos", false, true},
	"621": {"Incorporación Fiscal", true, false},
	"622": {"Actividades Agrícolas, Ganaderas, Silvícolas y Pesqueras", true, true},
	"623": {"Opcional para Grupos de Sociedades", false, true},
	"624": {"Coordinados", false, true},
	"625": {"Régimen de las Actividades Empresariales con ingresos a través de Plataformas Tecnológicas", true, false},
	"626": {"Régimen Simplificado de Confianza", true, true},
}

// =============================================================================
// c_UsoCFDI - Uso del CFDI y regímenes del receptor a los que aplica
// =============================================================================

const (
	CfdiUseAdquisicionMercancias = "G01"
	CfdiUseDevoluciones          = "G02"
	CfdiUseGastosGeneral         = "G03"
	CfdiUseSinEfectosFiscales    = "S01"
	CfdiUsePagos                 = "CP01"
	CfdiUseNomina                = "CN01"
)

type cfdiUseInfo struct {
	description string
	regimes     []string // nil = aplica a todos
}

var (
	regimesEmpresariales = []string{"601", "603", "606", "612", "620", "621", "622", "623", "624", "625", "626"}
	regimesDeducciones   = []string{"605", "606", "607", "608", "611", "612", "614", "615", "625"}
)

var cfdiUses = map[string]cfdiUseInfo{
	"G01":  {"Adquisición de mercancías", regimesEmpresariales},
	"G02":  {"Devoluciones, descuentos o bonificaciones", regimesEmpresariales},
	"G03":  {"Gastos en general", regimesEmpresariales},
	"I01":  {"Construcciones", regimesEmpresariales},
	"I02":  {"Mobiliario y equipo de oficina por inversiones", regimesEmpresariales},
	"I03":  {"Equipo de transporte", regimesEmpresariales},
	"I04":  {"Equipo de cómputo y accesorios", regimesEmpresariales},
	"I05":  {"Dados, troqueles, moldes, matrices y herramental", regimesEmpresariales},
	"I06":  {"Comunicaciones telefónicas", regimesEmpresariales},
	"I07":  {"Comunicaciones satelitales", regimesEmpresariales},
	"I08":  {"Otra maquinaria y equipo", regimesEmpresariales},
	"D01":  {"Honorarios médicos, dentales y gastos hospitalarios", regimesDeducciones},
	"D02":  {"Gastos médicos por incapacidad o discapacidad", regimesDeducciones},
	"D03":  {"Gastos funerales", regimesDeducciones},
	"D04":  {"Donativos", regimesDeducciones},
	"D05":  {"Intereses reales efectivamente pagados por créditos hipotecarios (casa habitación)", regimesDeducciones},
	"D06":  {"Aportaciones voluntarias al SAR", regimesDeducciones},
	"D07":  {"Primas por seguros de gastos médicos", regimesDeducciones},
	"D08":  {"Gastos de transportación escolar obligatoria", regimesDeducciones},
	"D09":  {"Depósitos en cuentas para el ahorro, primas que tengan como base planes de pensiones", regimesDeducciones},
	"D10":  {"Pagos por servicios educativos (colegiaturas)", regimesDeducciones},
	"S01":  {"Sin efectos fiscales", nil},
	"CP01": {"Pagos", nil},
	"CN01": {"Nómina", []string{"605"}},
}

var postalCodePattern = regexp.MustCompile(`^[0-9]{5}$`)

// Option par código/descripción para selects de UI.
type Option struct {
	Code        string `json:"code" yaml:"code"`
	Description string `json:"description" yaml:"description"`
}

// PaymentMethodDescription devuelve la descripción del método de pago.
func PaymentMethodDescription(code string) (string, bool) {
	d, ok := paymentMethods[code]
	return d, ok
}

// PaymentFormDescription devuelve la descripción de la forma de pago.
func PaymentFormDescription(code string) (string, bool) {
	d, ok := paymentForms[code]
	return d, ok
}

// CfdiUseDescription devuelve la descripción del uso de CFDI.
func CfdiUseDescription(code string) (string, bool) {
	u, ok := cfdiUses[code]
	return u.description, ok
}

// TaxRegimeDescription devuelve la descripción del régimen fiscal.
func TaxRegimeDescription(code string) (string, bool) {
	r, ok := taxRegimes[code]
	return r.description, ok
}

func IsValidPaymentMethod(code string) bool { _, ok := paymentMethods[code]; return ok }
func IsValidPaymentForm(code string) bool   { _, ok := paymentForms[code]; return ok }
func IsValidCfdiUse(code string) bool       { _, ok := cfdiUses[code]; return ok }
func IsValidTaxRegime(code string) bool     { _, ok := taxRegimes[code]; return ok }

// IsValidPostalCode valida el formato del código postal (5 dígitos).
func IsValidPostalCode(cp string) bool { return postalCodePattern.MatchString(cp) }

// RegimeAppliesTo indica si el régimen puede usarse con ese tipo de RFC.
// Los RFC genéricos solo admiten 616; el extranjero admite 616 y 610.
func RegimeAppliesTo(regime string, t RFCType) bool {
	info, ok := taxRegimes[regime]
	if !ok {
		return false
	}
	switch t {
	case RFCTypeFisica:
		return info.fisica
	case RFCTypeMoral:
		return info.moral
	case RFCTypeGenerico:
		return regime == TaxRegimeSinObligaciones
	case RFCTypeExtranjero:
		return regime == TaxRegimeSinObligaciones || regime == TaxRegimeResidentesExtranj
	}
	return false
}

// CfdiUseAllowedForRegime indica si el uso de CFDI es compatible con el régimen del receptor.
func CfdiUseAllowedForRegime(use, regime string) bool {
	info, ok := cfdiUses[use]
	if !ok {
		return false
	}
	if info.regimes == nil {
		return true
	}
	for _, r := range info.regimes {
		if r == regime {
			return true
		}
	}
	return false
}

func PaymentMethodOptions() []Option { return toOptions(paymentMethods) }
func PaymentFormOptions() []Option   { return toOptions(paymentForms) }

func CfdiUseOptions() []Option {
	m := make(map[string]string, len(cfdiUses))
	for k, v := range cfdiUses {
		m[k] = v.description
	}
	return toOptions(m)
}

func TaxRegimeOptions() []Option {
	m := make(map[string]string, len(taxRegimes))
	for k, v := range taxRegimes {
		m[k] = v.description
	}
	return toOptions(m)
}

// TaxRegimeOptionsFor filtra los regímenes aplicables al tipo de RFC.
func TaxRegimeOptionsFor(t RFCType) []Option {
	m := make(map[string]string)
	for k, v := range taxRegimes {
		if RegimeAppliesTo(k, t) {
			m[k] = v.description
		}
	}
	return toOptions(m)
}

func toOptions(m map[string]string) []Option {
	out := make([]Option, 0, len(m))
	for code, desc := range m {
		out = append(out, Option{Code: code, Description: desc})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
