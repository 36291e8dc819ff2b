// migrations содержит SQL-схему PostgreSQL.
// Файлы N_name.up.sql применяются по возрастанию N.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
