package http

import (
	"bytes"
	"html/template"
	nethttp "net/http"

	"go-inventory-dashboard/internal/connectors/inventory"
	"go-inventory-dashboard/internal/dashboard"
)

const chartJSURL = "https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js"

type pageCard struct {
	Label string
	Value int64
}

type pageChart struct {
	ID    string
	Title string
}

type pageTable struct {
	Title    string
	Empty    string
	Products []inventory.ProductSummary
}

type pageView struct {
	Title      string
	Subtitle   string
	ChartJSURL string
	Cards      []pageCard
	Charts     []pageChart
	Tables     []pageTable
	Globals    template.JS
	Bootstrap  template.JS
}

func cardsFromCounts(c *inventory.Counts) []pageCard {
	if c == nil {
		return nil
	}
	return []pageCard{
		{Label: "Produtos", Value: c.Products},
		{Label: "Fornecedores", Value: c.Suppliers},
		{Label: "Vendedores", Value: c.Vendors},
	}
}

func tablesFromLists(l *inventory.ProductLists) []pageTable {
	if l == nil {
		return nil
	}
	return []pageTable{
		{Title: "Produtos Recentes", Empty: "Nenhum produto cadastrado.", Products: l.Recent},
		{Title: "Estoque Baixo", Empty: "Nenhum produto com estoque baixo.", Products: l.LowStock},
		{Title: "Mais Movimentados", Empty: "Nenhum produto.", Products: l.MostActive},
		{Title: "Menos Movimentados", Empty: "Nenhum produto.", Products: l.LeastActive},
	}
}

// chartsForLayout lists the mount points the layout renders, titled by slot.
func chartsForLayout(layout dashboard.Layout, slots []dashboard.Slot) []pageChart {
	out := make([]pageChart, 0, len(layout.Mounts))
	for _, id := range layout.Mounts {
		title := id
		if slot, ok := dashboard.SlotByMount(slots, id); ok {
			title = slot.Title
		}
		out = append(out, pageChart{ID: id, Title: title})
	}
	return out
}

func renderPage(w nethttp.ResponseWriter, view pageView) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		writeJSON(w, nethttp.StatusInternalServerError, map[string]any{"error": "failed to render page"})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(nethttp.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func faviconHandler(w nethttp.ResponseWriter, _ *nethttp.Request) {
	w.WriteHeader(nethttp.StatusNoContent)
}

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="pt-BR">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Title}}</title>
  <style>
    :root {
      --bg: #f8f9fa;
      --paper: #fff;
      --text: #212529;
      --muted: #6c757d;
      --line: #dee2e6;
      --gold: #d4af37;
    }

    * { box-sizing: border-box; }

    body {
      margin: 0;
      background: var(--bg);
      color: var(--text);
      font-family: "Helvetica Neue", Helvetica, Arial, sans-serif;
      font-size: 14px;
    }

    header {
      padding: 18px 24px;
      background: var(--paper);
      border-bottom: 3px solid var(--gold);
    }

    header h1 { margin: 0; font-size: 22px; font-weight: 600; }
    header .sub { color: var(--muted); margin-top: 4px; }

    main { padding: 24px; }

    .cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr)); gap: 16px; margin-bottom: 24px; }
    .card { background: var(--paper); border: 1px solid var(--line); border-radius: 6px; padding: 16px; }
    .card .value { font-size: 28px; font-weight: 600; }
    .card .label { color: var(--muted); }

    .charts { display: grid; grid-template-columns: repeat(auto-fit, minmax(420px, 1fr)); gap: 16px; }
    .chart { background: var(--paper); border: 1px solid var(--line); border-radius: 6px; padding: 16px; }
    .chart h2 { margin: 0 0 12px; font-size: 16px; font-weight: 600; }
    .chart .canvas { position: relative; height: 300px; }

    .tables { display: grid; grid-template-columns: repeat(auto-fit, minmax(320px, 1fr)); gap: 16px; margin-top: 24px; }
    .table { background: var(--paper); border: 1px solid var(--line); border-radius: 6px; padding: 16px; }
    .table h2 { margin: 0 0 12px; font-size: 16px; font-weight: 600; }
    .table table { width: 100%; border-collapse: collapse; }
    .table th, .table td { text-align: left; padding: 6px 4px; border-bottom: 1px solid var(--line); }
    .table td.num { text-align: right; }
    .table .empty { color: var(--muted); }
  </style>
</head>
<body>
  <header>
    <h1>{{.Title}}</h1>
    {{- if .Subtitle}}
    <div class="sub">{{.Subtitle}}</div>
    {{- end}}
  </header>
  <main>
    {{- if .Cards}}
    <section class="cards">
      {{- range .Cards}}
      <div class="card"><div class="value">{{.Value}}</div><div class="label">{{.Label}}</div></div>
      {{- end}}
    </section>
    {{- end}}
    <section class="charts">
      {{- range .Charts}}
      <div class="chart">
        <h2>{{.Title}}</h2>
        <div class="canvas"><canvas id="{{.ID}}"></canvas></div>
      </div>
      {{- end}}
    </section>
    {{- if .Tables}}
    <section class="tables">
      {{- range .Tables}}
      <div class="table">
        <h2>{{.Title}}</h2>
        {{- if .Products}}
        <table>
          <thead><tr><th>Código</th><th>Produto</th><th>Fornecedor</th><th>Estoque</th></tr></thead>
          <tbody>
            {{- range .Products}}
            <tr><td>{{.Code}}</td><td>{{.Name}}</td><td>{{.Supplier}}</td><td class="num">{{.Stock}}</td></tr>
            {{- end}}
          </tbody>
        </table>
        {{- else}}
        <div class="empty">{{.Empty}}</div>
        {{- end}}
      </div>
      {{- end}}
    </section>
    {{- end}}
  </main>
  <script src="{{.ChartJSURL}}"></script>
  <script>
{{.Globals}}
  </script>
  <script>
{{.Bootstrap}}
  </script>
</body>
</html>
`))
