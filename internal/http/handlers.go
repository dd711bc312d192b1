package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	nethttp "net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-inventory-dashboard/internal/connectors/inventory"
	"go-inventory-dashboard/internal/dashboard"
	"go-inventory-dashboard/internal/export"
)

// pages renders dashboard layouts and their chart configs.
type pages struct {
	renderer *dashboard.Renderer
	loader   *dataLoader
	logger   *zap.Logger
}

type renderedPage struct {
	layout  dashboard.Layout
	data    dashboard.DataSets
	builder *dashboard.ScriptBuilder
	result  dashboard.Result
}

func (p *pages) render(ctx context.Context, layout dashboard.Layout, f inventory.Filter) renderedPage {
	slots := p.renderer.Slots()
	data := p.loader.load(ctx, layout, slots, f)
	builder := dashboard.NewScriptBuilder(slots)
	result := p.renderer.Render(layout.MountSet(), data, builder)
	recordChartOutcomes(result.Built, result.Skipped)
	return renderedPage{layout: layout, data: data, builder: builder, result: result}
}

func (p *pages) writePage(w nethttp.ResponseWriter, rp renderedPage, subtitle string, cards []pageCard, tables []pageTable) {
	globals, err := dashboard.Globals(rp.data)
	if err != nil {
		p.logger.Error("encode page globals", zap.String("layout", rp.layout.Name), zap.Error(err))
		writeJSON(w, nethttp.StatusInternalServerError, map[string]any{"error": "failed to render page"})
		return
	}
	script, err := rp.builder.Script()
	if err != nil {
		p.logger.Error("build chart script", zap.String("layout", rp.layout.Name), zap.Error(err))
		writeJSON(w, nethttp.StatusInternalServerError, map[string]any{"error": "failed to render page"})
		return
	}
	renderPage(w, pageView{
		Title:      rp.layout.Title,
		Subtitle:   subtitle,
		ChartJSURL: chartJSURL,
		Cards:      cards,
		Charts:     chartsForLayout(rp.layout, p.renderer.Slots()),
		Tables:     tables,
		Globals:    template.JS(globals),
		Bootstrap:  template.JS(script),
	})
}

func (p *pages) dashboardHandler(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.URL.Path != "/" {
		nethttp.NotFound(w, r)
		return
	}
	rp := p.render(r.Context(), dashboard.DashboardLayout, inventory.Filter{})
	ctx := r.Context()
	p.writePage(w, rp, "", cardsFromCounts(p.loader.counts(ctx)), tablesFromLists(p.loader.lists(ctx)))
}

func (p *pages) vendorHandler(w nethttp.ResponseWriter, r *nethttp.Request) {
	id, ok := parseTrailingID(r.URL.Path, "/vendors/")
	if !ok {
		nethttp.NotFound(w, r)
		return
	}
	name, status := p.lookupName(r.Context(), "VendorName", id, func(ctx context.Context, s *inventory.Store, id int64) (string, error) {
		return s.VendorName(ctx, id)
	})
	if status != nethttp.StatusOK {
		writeJSON(w, status, map[string]any{"error": fmt.Sprintf("vendor %d unavailable", id)})
		return
	}
	rp := p.render(r.Context(), dashboard.VendorLayout, inventory.Filter{VendorID: id})
	p.writePage(w, rp, name, nil, nil)
}

func (p *pages) supplierHandler(w nethttp.ResponseWriter, r *nethttp.Request) {
	id, ok := parseTrailingID(r.URL.Path, "/suppliers/")
	if !ok {
		nethttp.NotFound(w, r)
		return
	}
	name, status := p.lookupName(r.Context(), "SupplierName", id, func(ctx context.Context, s *inventory.Store, id int64) (string, error) {
		return s.SupplierName(ctx, id)
	})
	if status != nethttp.StatusOK {
		writeJSON(w, status, map[string]any{"error": fmt.Sprintf("supplier %d unavailable", id)})
		return
	}
	rp := p.render(r.Context(), dashboard.SupplierLayout, inventory.Filter{SupplierID: id})
	p.writePage(w, rp, name, nil, nil)
}

func (p *pages) lookupName(ctx context.Context, op string, id int64, fn func(context.Context, *inventory.Store, int64) (string, error)) (string, int) {
	store := p.loader.store
	if store == nil {
		return "", nethttp.StatusServiceUnavailable
	}
	start := time.Now()
	name, err := fn(ctx, store, id)
	recordDBQuery(string(store.Dialect()), op, time.Since(start).Seconds(), err)
	switch {
	case inventory.IsNotFound(err):
		return "", nethttp.StatusNotFound
	case err != nil:
		p.logger.Error("lookup failed", zap.String("operation", op), zap.Int64("id", id), zap.Error(err))
		return "", nethttp.StatusInternalServerError
	}
	return name, nethttp.StatusOK
}

// chartsHandler serves /api/v1/charts/{layout}: the defaults and the chart
// configs the page would construct.
func (p *pages) chartsHandler(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeJSON(w, nethttp.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return
	}
	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/charts/"), "/")
	layout, ok := dashboard.LayoutByName(name)
	if !ok {
		writeJSON(w, nethttp.StatusNotFound, map[string]any{"error": fmt.Sprintf("unknown layout: %s", name)})
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		writeJSON(w, nethttp.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	rp := p.render(r.Context(), layout, f)
	defaults, _ := rp.builder.Defaults()
	writeJSON(w, nethttp.StatusOK, map[string]any{
		"meta": map[string]any{
			"layout":  layout.Name,
			"built":   rp.result.Built,
			"skipped": rp.result.Skipped,
			"count":   len(rp.result.Built),
		},
		"data": map[string]any{
			"defaults": defaults,
			"charts":   rp.builder.Charts(),
		},
	})
}

func (p *pages) exportHandler(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeJSON(w, nethttp.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return
	}
	if p.loader.store == nil {
		writeJSON(w, nethttp.StatusServiceUnavailable, map[string]any{
			"error": "database integration disabled (set APP_DB_ENABLED=true)",
		})
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		writeJSON(w, nethttp.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	slots := p.renderer.Slots()
	data := p.loader.load(r.Context(), dashboard.DashboardLayout, slots, f)
	var buf bytes.Buffer
	exported, err := export.WriteWorkbook(&buf, data, slots)
	if errors.Is(err, export.ErrNoData) {
		writeJSON(w, nethttp.StatusNotFound, map[string]any{"error": err.Error()})
		return
	}
	if err != nil {
		p.logger.Error("export workbook", zap.Error(err))
		writeJSON(w, nethttp.StatusInternalServerError, map[string]any{"error": "failed to export workbook"})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="dashboard.xlsx"`)
	w.Header().Set("X-Exported-Charts", strings.Join(exported, ","))
	w.WriteHeader(nethttp.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func parseTrailingID(path, prefix string) (int64, bool) {
	raw := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if raw == "" || strings.Contains(raw, "/") {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func parseFilter(r *nethttp.Request) (inventory.Filter, error) {
	var f inventory.Filter
	for key, dst := range map[string]*int64{"vendor_id": &f.VendorID, "supplier_id": &f.SupplierID} {
		raw := strings.TrimSpace(r.URL.Query().Get(key))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v <= 0 {
			return f, fmt.Errorf("invalid %s", key)
		}
		*dst = v
	}
	return f, nil
}
