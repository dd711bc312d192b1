package inventory

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"go-inventory-dashboard/internal/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "inventory.db"), 5*time.Second)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	stmts := []string{
		`INSERT INTO suppliers (id, name) VALUES (1, 'Acme'), (2, 'Globex');`,
		`INSERT INTO vendors (id, name) VALUES (1, 'Ana'), (2, 'Bruno');`,
		`INSERT INTO products (id, product_code, name, supplier_id, stock) VALUES
		  (1, 'P1', 'Anel', 1, 50),
		  (2, 'P2', 'Brinco', 1, 2),
		  (3, 'P3', 'Colar', 2, 30),
		  (4, 'P4', 'Pulseira', NULL, 1),
		  (5, 'P5', 'Relogio', 1, 12);`,
		`INSERT INTO sales (product_id, vendor_id, quantity, total_price, sale_date) VALUES
		  (1, 1, 2, 100.0, '2026-10-01 10:00:00'),
		  (1, 2, 1, 50.0,  '2026-10-01 15:30:00'),
		  (3, 1, 5, 250.5, '2026-10-02 09:00:00'),
		  (2, NULL, 1, 20.0, '2026-10-03 11:00:00'),
		  (5, 2, 1, 80.0,  '2025-01-01 11:00:00');`,
	}
	for _, stmt := range stmts {
		if _, err := s.DB().Exec(stmt); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return s
}

var salesSince = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func TestSupplierProductCounts(t *testing.T) {
	s := newTestStore(t)
	got, err := s.SupplierProductCounts(context.Background(), Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Labels, []string{"Acme", "Globex", "Sem Fornecedor"}) {
		t.Fatalf("unexpected labels %v", got.Labels)
	}
	if !reflect.DeepEqual(got.Data, []float64{3, 1, 1}) {
		t.Fatalf("unexpected data %v", got.Data)
	}
}

func TestTopStock(t *testing.T) {
	s := newTestStore(t)
	got, err := s.TopStock(context.Background(), Filter{}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Labels, []string{"Anel", "Colar"}) || !reflect.DeepEqual(got.Data, []float64{50, 30}) {
		t.Fatalf("unexpected top stock %+v", got)
	}

	scoped, err := s.TopStock(context.Background(), Filter{SupplierID: 2}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(scoped.Labels, []string{"Colar"}) {
		t.Fatalf("unexpected supplier scoped top stock %+v", scoped)
	}
}

func TestLowStock(t *testing.T) {
	s := newTestStore(t)
	got, err := s.LowStock(context.Background(), Filter{}, 5, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Labels, []string{"Pulseira", "Brinco"}) || !reflect.DeepEqual(got.Data, []float64{1, 2}) {
		t.Fatalf("unexpected low stock %+v", got)
	}

	scoped, err := s.LowStock(context.Background(), Filter{SupplierID: 1}, 5, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(scoped.Labels, []string{"Brinco"}) {
		t.Fatalf("unexpected scoped low stock %+v", scoped)
	}
}

func TestSalesByDay(t *testing.T) {
	s := newTestStore(t)
	got, err := s.SalesByDay(context.Background(), Filter{}, salesSince)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Labels, []string{"2026-10-01", "2026-10-02", "2026-10-03"}) {
		t.Fatalf("unexpected days %v", got.Labels)
	}
	if !reflect.DeepEqual(got.Data, []float64{150, 250.5, 20}) {
		t.Fatalf("unexpected totals %v", got.Data)
	}

	vendor, err := s.SalesByDay(context.Background(), Filter{VendorID: 2}, salesSince)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(vendor.Labels, []string{"2026-10-01"}) || !reflect.DeepEqual(vendor.Data, []float64{50}) {
		t.Fatalf("unexpected vendor sales %+v", vendor)
	}
}

func TestVendorSales(t *testing.T) {
	s := newTestStore(t)
	got, err := s.VendorSales(context.Background(), salesSince, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Labels, []string{"Ana", "Bruno", "Sem Vendedor"}) {
		t.Fatalf("unexpected vendors %v", got.Labels)
	}
	if !reflect.DeepEqual(got.Data, []float64{350.5, 50, 20}) {
		t.Fatalf("unexpected totals %v", got.Data)
	}
}

func TestTopProducts(t *testing.T) {
	s := newTestStore(t)
	got, err := s.TopProducts(context.Background(), Filter{VendorID: 1}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Labels, []string{"Colar", "Anel"}) || !reflect.DeepEqual(got.Data, []float64{5, 2}) {
		t.Fatalf("unexpected top products %+v", got)
	}
}

func TestEmptyResultIsDefined(t *testing.T) {
	s := newTestStore(t)
	got, err := s.TopProducts(context.Background(), Filter{VendorID: 99}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if got.Labels == nil || got.Data == nil || len(got.Labels) != 0 {
		t.Fatalf("expected empty, non-nil data set, got %+v", got)
	}
}

func TestCountsAndNames(t *testing.T) {
	s := newTestStore(t)
	counts, err := s.Counts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if *counts != (Counts{Products: 5, Suppliers: 2, Vendors: 2}) {
		t.Fatalf("unexpected counts %+v", counts)
	}

	name, err := s.VendorName(context.Background(), 2)
	if err != nil || name != "Bruno" {
		t.Fatalf("unexpected vendor name %q err=%v", name, err)
	}
	if _, err := s.SupplierName(context.Background(), 42); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceStats(t *testing.T) {
	s := newTestStore(t)
	stats, err := s.ServiceStats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Dialect != DialectSQLite || stats.Products != 5 || stats.Sales != 5 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(config.Config{DBDriver: "oracle"}); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestNewSQLiteStore_RequiresPath(t *testing.T) {
	if _, err := NewSQLiteStore("  ", time.Second); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
