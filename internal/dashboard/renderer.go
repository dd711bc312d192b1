// Package dashboard builds the Chart.js widgets of the inventory dashboard.
//
// A chart is constructed for a slot only when the page has the slot's mount
// point and the slot's data global is defined. Everything else is skipped
// without error.
package dashboard

// ChartDataSet is the shape of every page data global: labels[i] pairs with data[i].
type ChartDataSet struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// Normalized returns ds with nil labels or data replaced by empty arrays, so a
// global decoded from null or from an object missing either field encodes the
// same way in the page globals and in the chart config.
func (ds ChartDataSet) Normalized() ChartDataSet {
	if ds.Labels == nil {
		ds.Labels = []string{}
	}
	if ds.Data == nil {
		ds.Data = []float64{}
	}
	return ds
}

// DataSets maps page global names to their values. A missing key is an
// undefined global.
type DataSets map[string]ChartDataSet

// Lookup reports whether the global name is defined. The returned data set
// is normalized.
func (d DataSets) Lookup(name string) (ChartDataSet, bool) {
	if d == nil {
		return ChartDataSet{}, false
	}
	ds, ok := d[name]
	if !ok {
		return ChartDataSet{}, false
	}
	return ds.Normalized(), true
}

// Set defines the global name.
func (d DataSets) Set(name string, ds ChartDataSet) {
	d[name] = ds.Normalized()
}

// MountPoint is a page element a chart attaches to.
type MountPoint struct {
	ID string `json:"id"`
}

// Mounts resolves element ids on a page.
type Mounts interface {
	Mount(id string) (MountPoint, bool)
}

// MountSet is a fixed set of element ids present on a page.
type MountSet map[string]struct{}

// NewMountSet returns a MountSet containing ids.
func NewMountSet(ids ...string) MountSet {
	out := make(MountSet, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func (m MountSet) Mount(id string) (MountPoint, bool) {
	if _, ok := m[id]; !ok {
		return MountPoint{}, false
	}
	return MountPoint{ID: id}, true
}

// Library is the charting library contract.
type Library interface {
	SetDefaults(d Defaults)
	NewChart(mount MountPoint, cfg Config)
}

// Result lists which slots were built and which were skipped, by mount id.
type Result struct {
	Built   []string `json:"built"`
	Skipped []string `json:"skipped"`
}

// Renderer wires data globals into chart slots.
type Renderer struct {
	theme Theme
	slots []Slot
}

// NewRenderer returns a renderer for slots. With no slots it uses DefaultSlots.
func NewRenderer(theme Theme, slots ...Slot) *Renderer {
	if len(slots) == 0 {
		slots = DefaultSlots()
	}
	return &Renderer{theme: theme, slots: slots}
}

// Theme returns the renderer theme.
func (r *Renderer) Theme() Theme { return r.theme }

// Slots returns the renderer slots in render order.
func (r *Renderer) Slots() []Slot {
	out := make([]Slot, len(r.slots))
	copy(out, r.slots)
	return out
}

// Render applies the theme defaults to lib once, then constructs one chart
// per slot whose mount point and data global are both present.
func (r *Renderer) Render(mounts Mounts, data DataSets, lib Library) Result {
	lib.SetDefaults(r.theme.Defaults())

	res := Result{Built: []string{}, Skipped: []string{}}
	for _, slot := range r.slots {
		mount, mounted := lookupMount(mounts, slot.MountID)
		ds, defined := data.Lookup(slot.DataVar)
		if !mounted || !defined {
			res.Skipped = append(res.Skipped, slot.MountID)
			continue
		}
		lib.NewChart(mount, slot.Build(ds, r.theme))
		res.Built = append(res.Built, slot.MountID)
	}
	return res
}

func lookupMount(mounts Mounts, id string) (MountPoint, bool) {
	if mounts == nil {
		return MountPoint{}, false
	}
	return mounts.Mount(id)
}
