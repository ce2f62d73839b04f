// Package migrations empaqueta los scripts SQL para golang-migrate.
// Formato de nombre: NNNNNN_descripcion.{up,down}.sql
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
