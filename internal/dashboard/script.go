package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"text/template"
)

var jsIdentifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Chart is one constructed chart bound to its mount point.
type Chart struct {
	Mount   MountPoint `json:"mount"`
	DataVar string     `json:"data_var"`
	Config  Config     `json:"config"`
}

// ScriptBuilder is a Library that records the constructed charts and emits
// the browser bootstrap script for them.
type ScriptBuilder struct {
	dataVars    map[string]string
	defaults    Defaults
	hasDefaults bool
	charts      []Chart
}

// NewScriptBuilder returns a builder that knows the data global of each slot.
func NewScriptBuilder(slots []Slot) *ScriptBuilder {
	vars := make(map[string]string, len(slots))
	for _, s := range slots {
		vars[s.MountID] = s.DataVar
	}
	return &ScriptBuilder{dataVars: vars}
}

func (b *ScriptBuilder) SetDefaults(d Defaults) {
	b.defaults = d
	b.hasDefaults = true
}

func (b *ScriptBuilder) NewChart(mount MountPoint, cfg Config) {
	b.charts = append(b.charts, Chart{Mount: mount, DataVar: b.dataVars[mount.ID], Config: cfg})
}

// Defaults returns the applied defaults, if any.
func (b *ScriptBuilder) Defaults() (Defaults, bool) {
	return b.defaults, b.hasDefaults
}

// Charts returns the constructed charts in construction order.
func (b *ScriptBuilder) Charts() []Chart {
	out := make([]Chart, len(b.charts))
	copy(out, b.charts)
	return out
}

var bootstrapTemplate = template.Must(template.New("bootstrap").Parse(
	`document.addEventListener('DOMContentLoaded', function() {
{{- if .Defaults}}
  Chart.defaults.color = {{.Defaults.Color}};
  Chart.defaults.borderColor = {{.Defaults.BorderColor}};
{{- end}}
{{- range .Charts}}

  (function() {
    var el = document.getElementById({{.ID}});
{{- if .DataVar}}
    if (el && typeof {{.DataVar}} !== 'undefined') {
      var config = {{.Config}};
      config.data.labels = {{.DataVar}}.labels;
      config.data.datasets.forEach(function(d) { d.data = {{.DataVar}}.data; });
      new Chart(el, config);
    }
{{- else}}
    if (el) {
      new Chart(el, {{.Config}});
    }
{{- end}}
  })();
{{- end}}
});
`))

type scriptDefaults struct {
	Color       string
	BorderColor string
}

type scriptChart struct {
	ID      string
	DataVar string
	Config  string
}

// Script returns the JavaScript that applies the defaults and constructs
// every recorded chart once the page content has loaded. Chart labels and
// data are read from the page globals, so Script is paired with Globals.
func (b *ScriptBuilder) Script() (string, error) {
	view := struct {
		Defaults *scriptDefaults
		Charts   []scriptChart
	}{}
	if b.hasDefaults {
		color, err := jsonString(b.defaults.Color)
		if err != nil {
			return "", err
		}
		border, err := jsonString(b.defaults.BorderColor)
		if err != nil {
			return "", err
		}
		view.Defaults = &scriptDefaults{Color: color, BorderColor: border}
	}
	for _, c := range b.charts {
		id, err := jsonString(c.Mount.ID)
		if err != nil {
			return "", err
		}
		if c.DataVar != "" && !jsIdentifier.MatchString(c.DataVar) {
			return "", fmt.Errorf("invalid data global name %q", c.DataVar)
		}
		config := c.Config
		if c.DataVar != "" {
			config = withoutArrays(config)
		}
		cfg, err := json.Marshal(config)
		if err != nil {
			return "", fmt.Errorf("encode chart %s: %w", c.Mount.ID, err)
		}
		view.Charts = append(view.Charts, scriptChart{ID: id, DataVar: c.DataVar, Config: string(cfg)})
	}

	var buf bytes.Buffer
	if err := bootstrapTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// withoutArrays empties the labels and data of cfg. The script fills them
// from the page global at load time.
func withoutArrays(cfg Config) Config {
	cfg.Data.Labels = []string{}
	datasets := make([]Dataset, len(cfg.Data.Datasets))
	for i, d := range cfg.Data.Datasets {
		d.Data = []float64{}
		datasets[i] = d
	}
	cfg.Data.Datasets = datasets
	return cfg
}

// Globals returns the page global declarations for data, sorted by name.
func Globals(data DataSets) (string, error) {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	for _, name := range names {
		if !jsIdentifier.MatchString(name) {
			return "", fmt.Errorf("invalid data global name %q", name)
		}
		ds, _ := data.Lookup(name)
		raw, err := json.Marshal(ds)
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", name, err)
		}
		fmt.Fprintf(&buf, "var %s = %s;\n", name, raw)
	}
	return buf.String(), nil
}

func jsonString(s string) (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
