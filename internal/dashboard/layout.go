package dashboard

// Layout is a page template: its name, heading, and the mount points it renders.
type Layout struct {
	Name   string
	Title  string
	Mounts []string
}

// MountSet returns the layout's mount points.
func (l Layout) MountSet() MountSet {
	return NewMountSet(l.Mounts...)
}

// Has reports whether the layout renders mount id.
func (l Layout) Has(id string) bool {
	for _, m := range l.Mounts {
		if m == id {
			return true
		}
	}
	return false
}

var (
	DashboardLayout = Layout{
		Name:  "dashboard",
		Title: "Dashboard",
		Mounts: []string{
			SupplierPieMount,
			StockBarMount,
			SalesLineMount,
			VendorSalesBarMount,
			TopProductsMount,
			LowStockBarMount,
		},
	}
	VendorLayout = Layout{
		Name:   "vendor",
		Title:  "Painel do Vendedor",
		Mounts: []string{SalesLineMount, TopProductsMount},
	}
	SupplierLayout = Layout{
		Name:   "supplier",
		Title:  "Painel do Fornecedor",
		Mounts: []string{StockBarMount, LowStockBarMount, SalesLineMount},
	}
)

// LayoutByName returns one of the built-in layouts.
func LayoutByName(name string) (Layout, bool) {
	for _, l := range []Layout{DashboardLayout, VendorLayout, SupplierLayout} {
		if l.Name == name {
			return l, true
		}
	}
	return Layout{}, false
}
