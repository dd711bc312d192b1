package dashboard

import "fmt"

// Mount point ids of the dashboard slots.
const (
	SupplierPieMount    = "supplierPieChart"
	StockBarMount       = "stockBarChart"
	SalesLineMount      = "salesLineChart"
	VendorSalesBarMount = "vendorSalesBarChart"
	TopProductsMount    = "topProductsDoughnutChart"
	LowStockBarMount    = "lowStockBarChart"
)

// Page globals feeding each slot.
const (
	SupplierPieData    = "pieChartData"
	StockBarData       = "barChartData"
	SalesLineData      = "salesChartData"
	VendorSalesBarData = "vendorSalesChartData"
	TopProductsData    = "topProductsChartData"
	LowStockBarData    = "lowStockChartData"
)

const (
	supplierPieTitle = "Produtos por Fornecedor"
	stockBarTitle    = "Top 5 Produtos em Estoque"
	salesLineTitle   = "Vendas por Dia"
	vendorSalesTitle = "Vendas por Vendedor"
	topProductsTitle = "Produtos Mais Vendidos"
	lowStockBarTitle = "Produtos com Estoque Baixo"

	stockDatasetLabel    = "Estoque"
	salesDatasetLabel    = "Vendas (R$)"
	vendorDatasetLabel   = "Vendas (R$)"
	lowStockDatasetLabel = "Estoque"
)

const (
	lineFillAlpha        = 0.2
	lineTension          = 0.3
	lineBorderWidth      = 2
	linePointRadius      = 4
	linePointHoverRadius = 6
	pieHoverOffset       = 4
	barBorderWidth       = 1
	legendPositionRight  = "right"
)

// Slot is one fixed dashboard position: where it mounts, which global feeds
// it, and how its chart is styled.
type Slot struct {
	MountID string
	DataVar string
	Kind    Kind
	Title   string
	build   func(ChartDataSet, Theme) Config
}

// Build returns the chart config for ds. Labels and data are passed through
// in order without copying or filtering.
func (s Slot) Build(ds ChartDataSet, theme Theme) Config {
	return s.build(ds.Normalized(), theme)
}

// DefaultSlots returns the six dashboard slots in render order.
func DefaultSlots() []Slot {
	return []Slot{
		{
			MountID: SupplierPieMount,
			DataVar: SupplierPieData,
			Kind:    KindPie,
			Title:   supplierPieTitle,
			build: func(ds ChartDataSet, t Theme) Config {
				return roundChart(KindPie, supplierPieTitle, ds, t)
			},
		},
		{
			MountID: StockBarMount,
			DataVar: StockBarData,
			Kind:    KindBar,
			Title:   stockBarTitle,
			build: func(ds ChartDataSet, t Theme) Config {
				return barChart(stockBarTitle, stockDatasetLabel, t.Color(0), ds, t)
			},
		},
		{
			MountID: SalesLineMount,
			DataVar: SalesLineData,
			Kind:    KindLine,
			Title:   salesLineTitle,
			build: func(ds ChartDataSet, t Theme) Config {
				return lineChart(salesLineTitle, salesDatasetLabel, t.Color(1), ds, t)
			},
		},
		{
			MountID: VendorSalesBarMount,
			DataVar: VendorSalesBarData,
			Kind:    KindBar,
			Title:   vendorSalesTitle,
			build: func(ds ChartDataSet, t Theme) Config {
				return barChart(vendorSalesTitle, vendorDatasetLabel, t.Color(1), ds, t)
			},
		},
		{
			MountID: TopProductsMount,
			DataVar: TopProductsData,
			Kind:    KindDoughnut,
			Title:   topProductsTitle,
			build: func(ds ChartDataSet, t Theme) Config {
				return roundChart(KindDoughnut, topProductsTitle, ds, t)
			},
		},
		{
			MountID: LowStockBarMount,
			DataVar: LowStockBarData,
			Kind:    KindBar,
			Title:   lowStockBarTitle,
			build: func(ds ChartDataSet, t Theme) Config {
				return barChart(lowStockBarTitle, lowStockDatasetLabel, t.Color(3), ds, t)
			},
		},
	}
}

// SlotByMount finds a slot by its mount id.
func SlotByMount(slots []Slot, id string) (Slot, bool) {
	for _, s := range slots {
		if s.MountID == id {
			return s, true
		}
	}
	return Slot{}, false
}

func baseOptions(title string, legend Legend, t Theme) Options {
	return Options{
		Responsive:          true,
		MaintainAspectRatio: false,
		Plugins: Plugins{
			Legend: legend,
			Title: Title{
				Display: false,
				Text:    title,
				Color:   t.Text,
			},
		},
	}
}

func axes(t Theme) map[string]Axis {
	return map[string]Axis{
		"y": {
			BeginAtZero: true,
			Ticks:       Ticks{Color: t.Text},
			Grid:        Grid{Color: t.Border},
		},
		"x": {
			Ticks: Ticks{Color: t.Text},
			Grid:  Grid{Color: t.Border},
		},
	}
}

// roundChart builds pie and doughnut charts: one palette color per slice,
// legend on the right.
func roundChart(kind Kind, title string, ds ChartDataSet, t Theme) Config {
	return Config{
		Type: kind,
		Data: Data{
			Labels: ds.Labels,
			Datasets: []Dataset{{
				Data:            ds.Data,
				BackgroundColor: ColorSet(t.Colors(len(ds.Data))),
				HoverOffset:     pieHoverOffset,
			}},
		},
		Options: baseOptions(title, Legend{
			Display:  true,
			Position: legendPositionRight,
			Labels:   LegendLabels{Color: t.Text},
		}, t),
	}
}

func barChart(title, label, color string, ds ChartDataSet, t Theme) Config {
	opts := baseOptions(title, Legend{
		Display: false,
		Labels:  LegendLabels{Color: t.Text},
	}, t)
	opts.Scales = axes(t)
	return Config{
		Type: KindBar,
		Data: Data{
			Labels: ds.Labels,
			Datasets: []Dataset{{
				Label:           label,
				Data:            ds.Data,
				BackgroundColor: ColorSet{color},
				BorderColor:     ColorSet{color},
				BorderWidth:     barBorderWidth,
			}},
		},
		Options: opts,
	}
}

func lineChart(title, label, color string, ds ChartDataSet, t Theme) Config {
	opts := baseOptions(title, Legend{
		Display: true,
		Labels:  LegendLabels{Color: t.Text},
	}, t)
	opts.Scales = axes(t)
	return Config{
		Type: KindLine,
		Data: Data{
			Labels: ds.Labels,
			Datasets: []Dataset{{
				Label:                label,
				Data:                 ds.Data,
				BackgroundColor:      ColorSet{withAlpha(color, lineFillAlpha)},
				BorderColor:          ColorSet{color},
				BorderWidth:          lineBorderWidth,
				Fill:                 true,
				Tension:              lineTension,
				PointBackgroundColor: color,
				PointBorderColor:     "#fff",
				PointRadius:          linePointRadius,
				PointHoverRadius:     linePointHoverRadius,
			}},
		},
		Options: opts,
	}
}

// withAlpha turns "#rrggbb" into an rgba() string. Other inputs are returned unchanged.
func withAlpha(hex string, alpha float64) string {
	if len(hex) != 7 || hex[0] != '#' {
		return hex
	}
	var r, g, b int
	if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return hex
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", r, g, b, alpha)
}
