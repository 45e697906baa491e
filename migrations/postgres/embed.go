// Package migrations embebe los archivos SQL de migración.
package migrations

import "embed"

// FS contiene las migraciones del schema postgres.
//
//go:embed schema/*.sql
var FS embed.FS

// Dir es el directorio dentro de FS con las migraciones.
const Dir = "schema"
