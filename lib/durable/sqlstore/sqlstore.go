package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ValentinKolb/rKV/lib/durable"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// Config configures the SQL backend.
type Config struct {
	Dialect         string // postgres or mysql
	DSN             string // driver specific connection string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// SQLStore implements durable.IDurableStore on database/sql. Every method is a
// single auto-committed statement.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

// NewSQLStore opens a connection pool and pings the database. A failure is a
// configuration failure and should abort startup.
func NewSQLStore(ctx context.Context, config Config) (*SQLStore, error) {
	d, err := dialectFor(config.Dialect)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	switch d.name {
	case "postgres":
		connConfig, err := pgx.ParseConfig(config.DSN)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: invalid postgres dsn: %w", err)
		}
		db = stdlib.OpenDB(*connConfig)
	case "mysql":
		mysqlConfig, err := mysql.ParseDSN(config.DSN)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: invalid mysql dsn: %w", err)
		}
		mysqlConfig.ParseTime = true
		connector, err := mysql.NewConnector(mysqlConfig)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: %w", err)
		}
		db = sql.OpenDB(connector)
	}

	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(config.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: cannot reach %s database: %w", d.name, err)
	}

	durable.Logger.Infof("sqlstore: connected to %s database", d.name)
	return &SQLStore{db: db, dialect: d}, nil
}

// NewWithDB wraps an existing pool. The caller keeps ownership of the driver setup.
func NewWithDB(db *sql.DB, dialectName string) (*SQLStore, error) {
	d, err := dialectFor(dialectName)
	if err != nil {
		return nil, err
	}
	return &SQLStore{db: db, dialect: d}, nil
}

func (s *SQLStore) Init(ctx context.Context, collection string) error {
	if err := durable.ValidateCollection(collection); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, statement(s.dialect.createTable, collection)); err != nil {
		return fmt.Errorf("sqlstore: create table %s: %w", collection, err)
	}
	return nil
}

func (s *SQLStore) Put(ctx context.Context, collection, key string, value []byte) error {
	if err := durable.ValidateCollection(collection); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}
	if _, err := s.db.ExecContext(ctx, statement(s.dialect.upsert, collection), []byte(key), value); err != nil {
		return fmt.Errorf("sqlstore: upsert %q: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, collection, key string) ([]byte, bool, error) {
	if err := durable.ValidateCollection(collection); err != nil {
		return nil, false, err
	}
	var value []byte
	err := s.db.QueryRowContext(ctx, statement(s.dialect.get, collection), []byte(key)).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("sqlstore: get %q: %w", key, err)
	}
	if value == nil {
		value = []byte{}
	}
	return value, true, nil
}

func (s *SQLStore) Delete(ctx context.Context, collection, key string) (bool, error) {
	if err := durable.ValidateCollection(collection); err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, statement(s.dialect.delete, collection), []byte(key))
	if err != nil {
		return false, fmt.Errorf("sqlstore: delete %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlstore: delete %q: %w", key, err)
	}
	return n > 0, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

var _ durable.IDurableStore = (*SQLStore)(nil)
