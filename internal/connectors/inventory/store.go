package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"go-inventory-dashboard/internal/config"
)

// Dialect identifies the SQL flavour behind a Store.
type Dialect string

const (
	DialectMySQL  Dialect = "mysql"
	DialectSQLite Dialect = "sqlite"
)

// Store reads inventory aggregates for the dashboard charts.
type Store struct {
	db           *sql.DB
	dialect      Dialect
	queryTimeout time.Duration
}

// Filter narrows chart queries to one vendor or supplier. Zero values mean unscoped.
type Filter struct {
	VendorID   int64
	SupplierID int64
}

// Open returns a Store for the configured driver.
func Open(cfg config.Config) (*Store, error) {
	switch Dialect(cfg.DBDriver) {
	case DialectMySQL, "":
		return NewStore(cfg)
	case DialectSQLite:
		return NewSQLiteStore(cfg.SQLitePath, cfg.DBQueryTimeout)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// NewStore connects to an existing MySQL inventory schema.
func NewStore(cfg config.Config) (*Store, error) {
	db, err := sql.Open("mysql", cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}

	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DBConnTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dialect: DialectMySQL, queryTimeout: orDefault(cfg.DBQueryTimeout)}, nil
}

// NewSQLiteStore opens (and creates if needed) an app-owned SQLite inventory database.
func NewSQLiteStore(path string, queryTimeout time.Duration) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite path required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("bootstrap sqlite schema: %w", err)
		}
	}

	return &Store{db: db, dialect: DialectSQLite, queryTimeout: orDefault(queryTimeout)}, nil
}

var sqliteSchema = []string{
	`PRAGMA foreign_keys = ON;`,
	`
CREATE TABLE IF NOT EXISTS suppliers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  contact_email TEXT,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);`,
	`
CREATE TABLE IF NOT EXISTS vendors (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);`,
	`
CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  supplier_id INTEGER REFERENCES suppliers(id) ON DELETE SET NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);`,
	`
CREATE TABLE IF NOT EXISTS sales (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  vendor_id INTEGER REFERENCES vendors(id) ON DELETE SET NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  total_price REAL NOT NULL,
  platform TEXT NOT NULL DEFAULT 'loja_fisica',
  sale_date TEXT NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_products_supplier ON products(supplier_id);`,
	`CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(sale_date);`,
	`CREATE INDEX IF NOT EXISTS idx_sales_vendor ON sales(vendor_id);`,
}

func orDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return 10 * time.Second
	}
	return d
}

// Close releases DB resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Dialect returns the SQL flavour of the store.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// DB exposes the underlying handle for seeding and maintenance tools.
func (s *Store) DB() *sql.DB {
	return s.db
}

// dayBucket formats a timestamp column as YYYY-MM-DD.
func (s *Store) dayBucket(column string) string {
	if s.dialect == DialectSQLite {
		return fmt.Sprintf("strftime('%%Y-%%m-%%d', %s)", column)
	}
	return fmt.Sprintf("DATE_FORMAT(%s, '%%Y-%%m-%%d')", column)
}

// timeArg formats t the way both dialects compare against stored timestamps.
func timeArg(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}
