package http

import (
	"context"
	"time"

	"go.uber.org/zap"

	"go-inventory-dashboard/internal/config"
	"go-inventory-dashboard/internal/connectors/inventory"
	"go-inventory-dashboard/internal/dashboard"
)

type chartLimits struct {
	topStock          int
	lowStockThreshold int
	lowStock          int
	topProducts       int
	vendorSales       int
	productList       int
	salesWindow       time.Duration
}

func limitsFromConfig(cfg config.Config) chartLimits {
	return chartLimits{
		topStock:          cfg.TopStockLimit,
		lowStockThreshold: cfg.LowStockThreshold,
		lowStock:          cfg.LowStockLimit,
		topProducts:       cfg.TopProductsLimit,
		vendorSales:       cfg.VendorSalesLimit,
		productList:       cfg.ProductListLimit,
		salesWindow:       cfg.SalesWindow(),
	}
}

// dataLoader fills the page data globals from the inventory store.
// A nil store or a failed query leaves the global undefined.
type dataLoader struct {
	store  *inventory.Store
	limits chartLimits
	logger *zap.Logger
	now    func() time.Time
}

type datasetQuery func(ctx context.Context, s *inventory.Store, f inventory.Filter) (dashboard.ChartDataSet, error)

type datasetSource struct {
	op  string
	run datasetQuery
}

// queries maps each data global to the store call that produces it.
func (l *dataLoader) queries() map[string]datasetSource {
	since := l.now().Add(-l.limits.salesWindow)
	lim := l.limits
	return map[string]datasetSource{
		dashboard.SupplierPieData: {"SupplierProductCounts", func(ctx context.Context, s *inventory.Store, f inventory.Filter) (dashboard.ChartDataSet, error) {
			return s.SupplierProductCounts(ctx, f)
		}},
		dashboard.StockBarData: {"TopStock", func(ctx context.Context, s *inventory.Store, f inventory.Filter) (dashboard.ChartDataSet, error) {
			return s.TopStock(ctx, f, lim.topStock)
		}},
		dashboard.SalesLineData: {"SalesByDay", func(ctx context.Context, s *inventory.Store, f inventory.Filter) (dashboard.ChartDataSet, error) {
			return s.SalesByDay(ctx, f, since)
		}},
		dashboard.VendorSalesBarData: {"VendorSales", func(ctx context.Context, s *inventory.Store, _ inventory.Filter) (dashboard.ChartDataSet, error) {
			return s.VendorSales(ctx, since, lim.vendorSales)
		}},
		dashboard.TopProductsData: {"TopProducts", func(ctx context.Context, s *inventory.Store, f inventory.Filter) (dashboard.ChartDataSet, error) {
			return s.TopProducts(ctx, f, lim.topProducts)
		}},
		dashboard.LowStockBarData: {"LowStock", func(ctx context.Context, s *inventory.Store, f inventory.Filter) (dashboard.ChartDataSet, error) {
			return s.LowStock(ctx, f, lim.lowStockThreshold, lim.lowStock)
		}},
	}
}

// load queries the data globals for the slots rendered by layout.
func (l *dataLoader) load(ctx context.Context, layout dashboard.Layout, slots []dashboard.Slot, f inventory.Filter) dashboard.DataSets {
	out := dashboard.DataSets{}
	if l.store == nil {
		return out
	}
	queries := l.queries()
	for _, slot := range slots {
		if !layout.Has(slot.MountID) {
			continue
		}
		q, ok := queries[slot.DataVar]
		if !ok {
			continue
		}
		start := time.Now()
		ds, err := q.run(ctx, l.store, f)
		recordDBQuery(string(l.store.Dialect()), q.op, time.Since(start).Seconds(), err)
		if err != nil {
			l.logger.Warn("chart data unavailable",
				zap.String("layout", layout.Name),
				zap.String("data_var", slot.DataVar),
				zap.Error(err))
			continue
		}
		out.Set(slot.DataVar, ds)
	}
	return out
}

func (l *dataLoader) counts(ctx context.Context) *inventory.Counts {
	if l.store == nil {
		return nil
	}
	start := time.Now()
	counts, err := l.store.Counts(ctx)
	recordDBQuery(string(l.store.Dialect()), "Counts", time.Since(start).Seconds(), err)
	if err != nil {
		l.logger.Warn("dashboard counts unavailable", zap.Error(err))
		return nil
	}
	return counts
}

// lists loads the dashboard product tables. A failed query leaves its list empty.
func (l *dataLoader) lists(ctx context.Context) *inventory.ProductLists {
	if l.store == nil {
		return nil
	}
	lim := l.limits
	out := &inventory.ProductLists{}
	for _, q := range []struct {
		op   string
		dst  *[]inventory.ProductSummary
		call func() ([]inventory.ProductSummary, error)
	}{
		{"RecentProducts", &out.Recent, func() ([]inventory.ProductSummary, error) {
			return l.store.RecentProducts(ctx, lim.productList)
		}},
		{"LowStockProducts", &out.LowStock, func() ([]inventory.ProductSummary, error) {
			return l.store.LowStockProducts(ctx, lim.lowStockThreshold, lim.lowStock)
		}},
		{"MostActiveProducts", &out.MostActive, func() ([]inventory.ProductSummary, error) {
			return l.store.MostActiveProducts(ctx, lim.productList)
		}},
		{"LeastActiveProducts", &out.LeastActive, func() ([]inventory.ProductSummary, error) {
			return l.store.LeastActiveProducts(ctx, lim.productList)
		}},
	} {
		start := time.Now()
		rows, err := q.call()
		recordDBQuery(string(l.store.Dialect()), q.op, time.Since(start).Seconds(), err)
		if err != nil {
			l.logger.Warn("product list unavailable", zap.String("operation", q.op), zap.Error(err))
			continue
		}
		*q.dst = rows
	}
	return out
}
