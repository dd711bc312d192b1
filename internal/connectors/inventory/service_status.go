package inventory

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Counts are the dashboard card totals.
type Counts struct {
	Products  int64 `json:"products"`
	Suppliers int64 `json:"suppliers"`
	Vendors   int64 `json:"vendors"`
}

// ServiceStats contains lightweight DB health and volume counters.
type ServiceStats struct {
	Dialect  Dialect `json:"dialect"`
	PingMS   int64   `json:"ping_ms"`
	Products int64   `json:"products"`
	Sales    int64   `json:"sales"`
	Sales24h int64   `json:"sales_24h"`
}

// Counts returns product, supplier and vendor totals.
func (s *Store) Counts(ctx context.Context) (*Counts, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	out := &Counts{}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products;`).Scan(&out.Products); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM suppliers;`).Scan(&out.Suppliers); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vendors;`).Scan(&out.Vendors); err != nil {
		return nil, err
	}
	return out, nil
}

// VendorName returns the vendor's name or sql.ErrNoRows.
func (s *Store) VendorName(ctx context.Context, id int64) (string, error) {
	return s.nameByID(ctx, `SELECT name FROM vendors WHERE id = ?;`, id)
}

// SupplierName returns the supplier's name or sql.ErrNoRows.
func (s *Store) SupplierName(ctx context.Context, id int64) (string, error) {
	return s.nameByID(ctx, `SELECT name FROM suppliers WHERE id = ?;`, id)
}

func (s *Store) nameByID(ctx context.Context, query string, id int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var name string
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&name); err != nil {
		return "", err
	}
	return name, nil
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// ServiceStats returns database health and high-level volume counters.
func (s *Store) ServiceStats(ctx context.Context) (*ServiceStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	start := time.Now()
	if err := s.db.PingContext(ctx); err != nil {
		return nil, err
	}
	out := &ServiceStats{
		Dialect: s.dialect,
		PingMS:  time.Since(start).Milliseconds(),
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products;`).Scan(&out.Products); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales;`).Scan(&out.Sales); err != nil {
		return nil, err
	}
	since := timeArg(time.Now().Add(-24 * time.Hour))
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales WHERE sale_date >= ?;`, since).Scan(&out.Sales24h); err != nil {
		return nil, err
	}
	return out, nil
}
