// Command cfdi-check valida facturas CFDI 4.0 guardadas en archivos JSON o YAML
// sin levantar la API ni la base de datos. Sale con código 1 si alguna no es timbrable.
//
// Uso:
//
//	cfdi-check validate factura.json otra.yaml
//	cfdi-check rfc ABCD850101AB1 XAXX010101000
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
