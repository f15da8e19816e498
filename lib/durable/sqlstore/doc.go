// Package sqlstore implements durable.IDurableStore on database/sql.
//
// Two dialects are supported. PostgreSQL connects through the pgx stdlib adapter
// and upserts with ON CONFLICT (k) DO UPDATE. MySQL connects through
// go-sql-driver/mysql and upserts with ON DUPLICATE KEY UPDATE.
//
// Each collection is a table (id, k unique, v, created_at, updated_at) created
// with CREATE TABLE IF NOT EXISTS. Collection names are validated before they are
// interpolated into statements; keys and values are always bound parameters.
package sqlstore
