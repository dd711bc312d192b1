package dashboard

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSlotStyling(t *testing.T) {
	theme := DefaultTheme()
	ds := ChartDataSet{Labels: []string{"a", "b", "c"}, Data: []float64{1, 2, 3}}

	for _, slot := range DefaultSlots() {
		cfg := slot.Build(ds, theme)
		if cfg.Type != slot.Kind {
			t.Fatalf("%s: type %s, want %s", slot.MountID, cfg.Type, slot.Kind)
		}
		if !cfg.Options.Responsive || cfg.Options.MaintainAspectRatio {
			t.Fatalf("%s: expected responsive without fixed aspect ratio", slot.MountID)
		}
		if cfg.Options.Plugins.Legend.Labels.Color != theme.Text || cfg.Options.Plugins.Title.Color != theme.Text {
			t.Fatalf("%s: legend/title colors not themed", slot.MountID)
		}
		if cfg.Options.Plugins.Title.Display {
			t.Fatalf("%s: title should be hidden", slot.MountID)
		}
		for name, axis := range cfg.Options.Scales {
			if axis.Ticks.Color != theme.Text || axis.Grid.Color != theme.Border {
				t.Fatalf("%s: axis %s not themed", slot.MountID, name)
			}
		}

		switch slot.Kind {
		case KindPie, KindDoughnut:
			if cfg.Options.Plugins.Legend.Position != "right" || !cfg.Options.Plugins.Legend.Display {
				t.Fatalf("%s: expected legend on the right", slot.MountID)
			}
			if got := len(cfg.Data.Datasets[0].BackgroundColor); got != 3 {
				t.Fatalf("%s: expected 3 colors, got %d", slot.MountID, got)
			}
		case KindBar:
			if cfg.Options.Plugins.Legend.Display {
				t.Fatalf("%s: expected hidden legend", slot.MountID)
			}
			if !cfg.Options.Scales["y"].BeginAtZero {
				t.Fatalf("%s: expected zero-based y axis", slot.MountID)
			}
		case KindLine:
			d := cfg.Data.Datasets[0]
			if !cfg.Options.Plugins.Legend.Display || !d.Fill || d.Tension != 0.3 {
				t.Fatalf("%s: unexpected line styling %+v", slot.MountID, d)
			}
			if d.BackgroundColor[0] != "rgba(41, 151, 255, 0.2)" {
				t.Fatalf("%s: unexpected fill color %s", slot.MountID, d.BackgroundColor[0])
			}
		}
	}
}

func TestThemeColorsCycle(t *testing.T) {
	theme := DefaultTheme()
	got := theme.Colors(8)
	if got[6] != theme.Palette[0] || got[7] != theme.Palette[1] {
		t.Fatalf("expected palette to cycle, got %v", got)
	}
	if len(theme.Colors(2)) != 2 {
		t.Fatalf("expected palette truncated to data size")
	}
	if len(theme.Colors(0)) != 0 {
		t.Fatalf("expected no colors for empty data")
	}
}

func TestColorSetJSON(t *testing.T) {
	one, _ := json.Marshal(ColorSet{"#fff"})
	if string(one) != `"#fff"` {
		t.Fatalf("single color should encode as string, got %s", one)
	}
	many, _ := json.Marshal(ColorSet{"#fff", "#000"})
	if string(many) != `["#fff","#000"]` {
		t.Fatalf("unexpected encoding %s", many)
	}

	var back ColorSet
	if err := json.Unmarshal([]byte(`"#abc"`), &back); err != nil || len(back) != 1 {
		t.Fatalf("decode single: %v %v", back, err)
	}
}

func TestBarConfigJSONOmitsUnusedFields(t *testing.T) {
	slot, _ := SlotByMount(DefaultSlots(), StockBarMount)
	raw, err := json.Marshal(slot.Build(ChartDataSet{Labels: []string{"A"}, Data: []float64{1}}, DefaultTheme()))
	if err != nil {
		t.Fatal(err)
	}
	s := string(raw)
	for _, want := range []string{`"type":"bar"`, `"beginAtZero":true`, `"label":"Estoque"`, `"maintainAspectRatio":false`} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %s in %s", want, s)
		}
	}
	if strings.Contains(s, "tension") || strings.Contains(s, "hoverOffset") {
		t.Fatalf("bar config carries line/pie fields: %s", s)
	}
}

func TestThemeColorWraps(t *testing.T) {
	theme := DefaultTheme()
	if got := theme.Color(uint(len(theme.Palette)) + 1); got != theme.Palette[1] {
		t.Fatalf("expected wrap to %s, got %s", theme.Palette[1], got)
	}
	if got := (Theme{Text: "#000"}).Color(3); got != "#000" {
		t.Fatalf("empty palette should fall back to text color, got %s", got)
	}
}
