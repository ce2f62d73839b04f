package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/cfdi-api/internal/application/dto"
	"github.com/jhoicas/cfdi-api/internal/domain/cfdi"
	"github.com/jhoicas/cfdi-api/pkg/sat"
)

// errNotStampable se devuelve cuando al menos un archivo tiene errores bloqueantes.
var errNotStampable = errors.New("hay facturas que no pueden timbrarse")

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type validateOptions struct {
	taxRate   string
	tolerance string
	format    string
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cfdi-check",
		Short:         "Valida facturas CFDI 4.0 antes de timbrarlas",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newValidateCmd(), newRFCCmd())
	return root
}

func newValidateCmd() *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate [archivo...]",
		Short: "Valida facturas en JSON o YAML",
		Long: `Lee cada archivo como el cuerpo de POST /api/cfdi/validate y muestra
los errores y advertencias. Los archivos .yaml y .yml se leen como YAML.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.taxRate, "tax-rate", cfdi.DefaultTaxRate.String(), "Tasa de IVA")
	cmd.Flags().StringVar(&opts.tolerance, "tolerance", cfdi.DefaultTolerance.String(), "Diferencia máxima aceptada entre montos")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "Formato de salida: text, json o yaml")
	return cmd
}

func newRFCCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rfc [rfc...]",
		Short: "Muestra el tipo de cada RFC",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRFC(cmd.OutOrStdout(), args)
		},
	}
}

func (o *validateOptions) validator() (*cfdi.Validator, error) {
	rate, err := decimal.NewFromString(o.taxRate)
	if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("--tax-rate inválido: %q", o.taxRate)
	}
	tol, err := decimal.NewFromString(o.tolerance)
	if err != nil || tol.IsNegative() {
		return nil, fmt.Errorf("--tolerance inválido: %q", o.tolerance)
	}
	return cfdi.NewValidator(cfdi.WithTaxRate(rate), cfdi.WithTolerance(tol)), nil
}

func runValidate(out io.Writer, opts *validateOptions, paths []string) error {
	switch opts.format {
	case formatText, formatJSON, formatYAML:
	default:
		return fmt.Errorf("formato no soportado: %q", opts.format)
	}
	v, err := opts.validator()
	if err != nil {
		return err
	}
	structs := validator.New()

	failed := false
	for _, path := range paths {
		req, err := readRequest(path)
		if err == nil {
			err = structs.Struct(req)
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", path, err)
			failed = true
			continue
		}
		data, err := req.ToInvoiceData()
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", path, err)
			failed = true
			continue
		}
		res := v.Validate(data)
		if !res.CanStamp {
			failed = true
		}
		if err := printResult(out, opts.format, path, res); err != nil {
			return err
		}
	}
	if failed {
		return errNotStampable
	}
	return nil
}

func readRequest(path string) (*dto.ValidateSnapshotRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var req dto.ValidateSnapshotRequest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &req)
	default:
		err = json.Unmarshal(raw, &req)
	}
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", filepath.Base(path), err)
	}
	return &req, nil
}

func printResult(out io.Writer, format, path string, res cfdi.ValidationResult) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(dto.NewValidationResponse(path, res))
	case formatYAML:
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(dto.NewValidationResponse(path, res))
	}

	status := "OK"
	switch {
	case !res.CanStamp && res.CanPreview:
		status = "NO TIMBRABLE (vista previa disponible)"
	case !res.CanStamp:
		status = "NO TIMBRABLE"
	}
	fmt.Fprintf(out, "%s: %s\n", path, status)
	for _, f := range res.Findings() {
		fmt.Fprintf(out, "  %-7s %-28s %s: %s\n", f.Severity, f.Code, f.Field, f.Message)
	}
	return nil
}

func runRFC(out io.Writer, values []string) error {
	failed := false
	for _, value := range values {
		rfc, err := sat.ParseRFC(value)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", value, err)
			failed = true
			continue
		}
		line := fmt.Sprintf("%s: %s", rfc, rfc.Type())
		if !rfc.IsPlaceholder() {
			if born, err := rfc.BirthDate(); err == nil {
				line += " " + born.Format("2006-01-02")
			}
		}
		fmt.Fprintln(out, line)
	}
	if failed {
		return sat.ErrInvalidRFC
	}
	return nil
}
