package sqlstore

import (
	"fmt"
)

// dialect holds the statements of one SQL flavour. All templates take the
// already validated table name as their only format argument. Keys are stored
// as raw bytes in both dialects.
type dialect struct {
	name        string
	createTable string
	upsert      string
	get         string
	delete      string
}

var (
	postgresDialect = dialect{
		name: "postgres",
		createTable: `CREATE TABLE IF NOT EXISTS "%s" (` +
			`id BIGSERIAL PRIMARY KEY, ` +
			`k BYTEA NOT NULL UNIQUE, ` +
			`v BYTEA NOT NULL, ` +
			`created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP, ` +
			`updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
		upsert: `INSERT INTO "%s" (k, v) VALUES ($1, $2) ` +
			`ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v, updated_at = CURRENT_TIMESTAMP`,
		get:    `SELECT v FROM "%s" WHERE k = $1 LIMIT 1`,
		delete: `DELETE FROM "%s" WHERE k = $1`,
	}

	mysqlDialect = dialect{
		name: "mysql",
		createTable: "CREATE TABLE IF NOT EXISTS `%s` (" +
			"id BIGINT AUTO_INCREMENT PRIMARY KEY, " +
			"k VARBINARY(3072) NOT NULL, " +
			"v LONGBLOB NOT NULL, " +
			"created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP, " +
			"updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP, " +
			"UNIQUE KEY uk_k (k))",
		upsert: "INSERT INTO `%s` (k, v) VALUES (?, ?) " +
			"ON DUPLICATE KEY UPDATE v = VALUES(v)",
		get:    "SELECT v FROM `%s` WHERE k = ? LIMIT 1",
		delete: "DELETE FROM `%s` WHERE k = ?",
	}
)

func dialectFor(name string) (dialect, error) {
	switch name {
	case "postgres", "postgresql", "pgx":
		return postgresDialect, nil
	case "mysql":
		return mysqlDialect, nil
	default:
		return dialect{}, fmt.Errorf("unsupported sql dialect %q (postgres, mysql)", name)
	}
}

// statement renders a template for table.
func statement(tmpl, table string) string {
	return fmt.Sprintf(tmpl, table)
}
