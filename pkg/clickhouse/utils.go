package clickhouse

import (
	"strings"

	"github.com/pseudomuto/rowbinary/pkg/utils"
)

// systemDatabases are skipped when listing tables across all databases.
var systemDatabases = []string{
	"system",
	"information_schema",
	"INFORMATION_SCHEMA",
}

// buildSystemDatabaseExclusion creates a parameterized "NOT IN" condition excluding the system
// databases from columnName.
func buildSystemDatabaseExclusion(columnName string) (string, []any) {
	placeholders := make([]string, len(systemDatabases))
	params := make([]any, len(systemDatabases))

	for i, db := range systemDatabases {
		placeholders[i] = "?"
		params[i] = db
	}

	condition := columnName + " NOT IN (" + strings.Join(placeholders, ", ") + ")"
	return condition, params
}

// splitTableName splits "db.table" into its unquoted parts. Dots inside backticks do not
// separate. An unqualified name returns an empty database.
func splitTableName(name string) (string, string) {
	name = strings.TrimSpace(name)

	inQuote := false
	for i := 0; i < len(name); i++ {
		switch name[i] {
		case '\\':
			if inQuote {
				i++
			}
		case '`':
			inQuote = !inQuote
		case '.':
			if !inQuote {
				return utils.UnquoteIdentifier(name[:i]), utils.UnquoteIdentifier(name[i+1:])
			}
		}
	}

	return "", utils.UnquoteIdentifier(name)
}
