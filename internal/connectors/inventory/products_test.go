package inventory

import (
	"context"
	"reflect"
	"testing"
)

func productNames(ps []ProductSummary) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func stampProducts(t *testing.T, s *Store) {
	t.Helper()
	stmts := []string{
		`UPDATE products SET created_at = '2026-01-01 00:00:00', updated_at = '2026-06-01 00:00:00' WHERE id = 1;`,
		`UPDATE products SET created_at = '2026-02-01 00:00:00', updated_at = '2026-03-01 00:00:00' WHERE id = 2;`,
		`UPDATE products SET created_at = '2026-03-01 00:00:00', updated_at = '2026-09-01 00:00:00' WHERE id = 3;`,
		`UPDATE products SET created_at = '2026-04-01 00:00:00', updated_at = '2026-04-01 00:00:00' WHERE id = 4;`,
		`UPDATE products SET created_at = '2026-05-01 00:00:00', updated_at = '2026-05-01 00:00:00' WHERE id = 5;`,
	}
	for _, stmt := range stmts {
		if _, err := s.DB().Exec(stmt); err != nil {
			t.Fatalf("stamp: %v", err)
		}
	}
}

func TestRecentProducts(t *testing.T) {
	s := newTestStore(t)
	stampProducts(t, s)

	got, err := s.RecentProducts(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(productNames(got), []string{"Relogio", "Pulseira", "Colar"}) {
		t.Fatalf("unexpected recent products %v", productNames(got))
	}
	if got[1].Supplier != "Sem Fornecedor" || got[0].Supplier != "Acme" || got[0].Code != "P5" || got[0].Stock != 12 {
		t.Fatalf("unexpected product rows %+v", got)
	}
}

func TestLowStockProducts(t *testing.T) {
	s := newTestStore(t)
	got, err := s.LowStockProducts(context.Background(), 5, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(productNames(got), []string{"Pulseira", "Brinco"}) {
		t.Fatalf("unexpected low stock products %v", productNames(got))
	}
}

func TestProductActivity(t *testing.T) {
	s := newTestStore(t)
	stampProducts(t, s)

	most, err := s.MostActiveProducts(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(productNames(most), []string{"Colar", "Anel"}) {
		t.Fatalf("unexpected most active %v", productNames(most))
	}

	least, err := s.LeastActiveProducts(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(productNames(least), []string{"Brinco", "Pulseira"}) {
		t.Fatalf("unexpected least active %v", productNames(least))
	}
}

func TestProductLists_EmptyStore(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.DB().Exec(`DELETE FROM products;`); err != nil {
		t.Fatal(err)
	}
	got, err := s.RecentProducts(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
}
