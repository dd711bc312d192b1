package inventory

import (
	"context"
	"database/sql"
	"fmt"
)

// ProductSummary is one row of the dashboard product lists.
type ProductSummary struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Supplier string `json:"supplier"`
	Stock    int64  `json:"stock"`
}

// ProductLists are the product tables shown next to the dashboard charts.
type ProductLists struct {
	Recent      []ProductSummary `json:"recent"`
	LowStock    []ProductSummary `json:"low_stock"`
	MostActive  []ProductSummary `json:"most_active"`
	LeastActive []ProductSummary `json:"least_active"`
}

// RecentProducts returns the newest products by creation time.
func (s *Store) RecentProducts(ctx context.Context, limit int) ([]ProductSummary, error) {
	return s.listProducts(ctx, "", "p.created_at DESC, p.id DESC", clampLimit(limit))
}

// LowStockProducts returns products with stock below threshold, lowest first.
func (s *Store) LowStockProducts(ctx context.Context, threshold, limit int) ([]ProductSummary, error) {
	return s.listProducts(ctx, "WHERE p.stock < ?", "p.stock ASC, p.id ASC", threshold, clampLimit(limit))
}

// MostActiveProducts returns the most recently updated products.
func (s *Store) MostActiveProducts(ctx context.Context, limit int) ([]ProductSummary, error) {
	return s.listProducts(ctx, "", "p.updated_at DESC, p.id DESC", clampLimit(limit))
}

// LeastActiveProducts returns the products updated longest ago.
func (s *Store) LeastActiveProducts(ctx context.Context, limit int) ([]ProductSummary, error) {
	return s.listProducts(ctx, "", "p.updated_at ASC, p.id ASC", clampLimit(limit))
}

// listProducts runs a product query; the last arg is always the LIMIT.
func (s *Store) listProducts(ctx context.Context, where, orderBy string, args ...any) ([]ProductSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	query := fmt.Sprintf(`
SELECT p.id, p.product_code, p.name, COALESCE(sp.name, ?), p.stock
FROM products p
LEFT JOIN suppliers sp
  ON sp.id = p.supplier_id
%s
ORDER BY %s
LIMIT ?;
`, where, orderBy)
	args = append([]any{noSupplierLabel}, args...)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ProductSummary{}
	for rows.Next() {
		var (
			p        ProductSummary
			supplier sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &supplier, &p.Stock); err != nil {
			return nil, err
		}
		p.Supplier = supplier.String
		out = append(out, p)
	}
	return out, rows.Err()
}
