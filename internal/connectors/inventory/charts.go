package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go-inventory-dashboard/internal/dashboard"
)

const (
	noSupplierLabel = "Sem Fornecedor"
	noVendorLabel   = "Sem Vendedor"
)

// SupplierProductCounts returns product counts per supplier, largest first.
// Products without a supplier are grouped under "Sem Fornecedor".
func (s *Store) SupplierProductCounts(ctx context.Context, f Filter) (dashboard.ChartDataSet, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	where, args := productFilter(f, "p")
	query := fmt.Sprintf(`
SELECT
  COALESCE(sp.name, ?) AS supplier_name,
  COUNT(p.id) AS product_count
FROM products p
LEFT JOIN suppliers sp
  ON sp.id = p.supplier_id
%s
GROUP BY supplier_name
ORDER BY product_count DESC, supplier_name ASC;
`, where)
	args = append([]any{noSupplierLabel}, args...)
	return s.queryLabelValues(ctx, query, args...)
}

// TopStock returns the products with the most stock on hand.
func (s *Store) TopStock(ctx context.Context, f Filter, limit int) (dashboard.ChartDataSet, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	where, args := productFilter(f, "p")
	query := fmt.Sprintf(`
SELECT p.name, p.stock
FROM products p
%s
ORDER BY p.stock DESC, p.name ASC
LIMIT ?;
`, where)
	return s.queryLabelValues(ctx, query, append(args, clampLimit(limit))...)
}

// LowStock returns products with stock below threshold, lowest first.
func (s *Store) LowStock(ctx context.Context, f Filter, threshold, limit int) (dashboard.ChartDataSet, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	where, args := productFilter(f, "p")
	if where == "" {
		where = "WHERE p.stock < ?"
	} else {
		where += " AND p.stock < ?"
	}
	query := fmt.Sprintf(`
SELECT p.name, p.stock
FROM products p
%s
ORDER BY p.stock ASC, p.name ASC
LIMIT ?;
`, where)
	args = append(args, threshold, clampLimit(limit))
	return s.queryLabelValues(ctx, query, args...)
}

// SalesByDay returns total sale value per day since the given time, oldest first.
func (s *Store) SalesByDay(ctx context.Context, f Filter, since time.Time) (dashboard.ChartDataSet, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	clauses := []string{"sl.sale_date >= ?"}
	args := []any{timeArg(since)}
	if f.VendorID > 0 {
		clauses = append(clauses, "sl.vendor_id = ?")
		args = append(args, f.VendorID)
	}
	if f.SupplierID > 0 {
		clauses = append(clauses, "p.supplier_id = ?")
		args = append(args, f.SupplierID)
	}
	day := s.dayBucket("sl.sale_date")
	query := fmt.Sprintf(`
SELECT %s AS sale_day, COALESCE(SUM(sl.total_price), 0) AS total
FROM sales sl
JOIN products p
  ON p.id = sl.product_id
WHERE %s
GROUP BY %s
ORDER BY sale_day ASC;
`, day, strings.Join(clauses, " AND "), day)
	return s.queryLabelValues(ctx, query, args...)
}

// VendorSales returns total sale value per vendor since the given time, largest first.
func (s *Store) VendorSales(ctx context.Context, since time.Time, limit int) (dashboard.ChartDataSet, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	query := `
SELECT COALESCE(v.name, ?) AS vendor_name, COALESCE(SUM(sl.total_price), 0) AS total
FROM sales sl
LEFT JOIN vendors v
  ON v.id = sl.vendor_id
WHERE sl.sale_date >= ?
GROUP BY vendor_name
ORDER BY total DESC, vendor_name ASC
LIMIT ?;
`
	return s.queryLabelValues(ctx, query, noVendorLabel, timeArg(since), clampLimit(limit))
}

// TopProducts returns the best selling products by quantity.
func (s *Store) TopProducts(ctx context.Context, f Filter, limit int) (dashboard.ChartDataSet, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	clauses := []string{}
	args := []any{}
	if f.VendorID > 0 {
		clauses = append(clauses, "sl.vendor_id = ?")
		args = append(args, f.VendorID)
	}
	if f.SupplierID > 0 {
		clauses = append(clauses, "p.supplier_id = ?")
		args = append(args, f.SupplierID)
	}
	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}
	query := fmt.Sprintf(`
SELECT p.name, SUM(sl.quantity) AS sold
FROM sales sl
JOIN products p
  ON p.id = sl.product_id
%s
GROUP BY p.id, p.name
ORDER BY sold DESC, p.name ASC
LIMIT ?;
`, where)
	return s.queryLabelValues(ctx, query, append(args, clampLimit(limit))...)
}

func (s *Store) queryLabelValues(ctx context.Context, query string, args ...any) (dashboard.ChartDataSet, error) {
	out := dashboard.ChartDataSet{Labels: []string{}, Data: []float64{}}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return out, err
	}
	defer rows.Close()

	for rows.Next() {
		var label sql.NullString
		var value sql.NullFloat64
		if err := rows.Scan(&label, &value); err != nil {
			return out, err
		}
		out.Labels = append(out.Labels, label.String)
		out.Data = append(out.Data, value.Float64)
	}
	return out, rows.Err()
}

func productFilter(f Filter, alias string) (string, []any) {
	if f.SupplierID > 0 {
		return fmt.Sprintf("WHERE %s.supplier_id = ?", alias), []any{f.SupplierID}
	}
	return "", nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 5
	}
	if limit > 100 {
		return 100
	}
	return limit
}
