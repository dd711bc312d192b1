package dashboard

import "encoding/json"

// Kind is a Chart.js chart type.
type Kind string

const (
	KindPie      Kind = "pie"
	KindBar      Kind = "bar"
	KindLine     Kind = "line"
	KindDoughnut Kind = "doughnut"
)

// Config is the Chart.js constructor argument for one chart.
type Config struct {
	Type    Kind    `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

// Data holds the category labels and the datasets plotted against them.
type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset mirrors the subset of Chart.js dataset properties the dashboard uses.
type Dataset struct {
	Label                string    `json:"label,omitempty"`
	Data                 []float64 `json:"data"`
	BackgroundColor      ColorSet  `json:"backgroundColor,omitempty"`
	BorderColor          ColorSet  `json:"borderColor,omitempty"`
	BorderWidth          int       `json:"borderWidth,omitempty"`
	HoverOffset          int       `json:"hoverOffset,omitempty"`
	Fill                 bool      `json:"fill,omitempty"`
	Tension              float64   `json:"tension,omitempty"`
	PointBackgroundColor string    `json:"pointBackgroundColor,omitempty"`
	PointBorderColor     string    `json:"pointBorderColor,omitempty"`
	PointRadius          int       `json:"pointRadius,omitempty"`
	PointHoverRadius     int       `json:"pointHoverRadius,omitempty"`
}

// ColorSet is a single color or one color per data point.
// A set of exactly one color is encoded as a plain string.
type ColorSet []string

// MarshalJSON encodes a one-color set as a string and any other set as an array.
func (c ColorSet) MarshalJSON() ([]byte, error) {
	if len(c) == 1 {
		return json.Marshal(c[0])
	}
	return json.Marshal([]string(c))
}

// UnmarshalJSON accepts either a color string or an array of colors.
func (c *ColorSet) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*c = ColorSet{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*c = ColorSet(many)
	return nil
}

// Options are the chart-level options.
type Options struct {
	Responsive          bool            `json:"responsive"`
	MaintainAspectRatio bool            `json:"maintainAspectRatio"`
	Plugins             Plugins         `json:"plugins"`
	Scales              map[string]Axis `json:"scales,omitempty"`
}

// Plugins configures the built-in legend and title plugins.
type Plugins struct {
	Legend Legend `json:"legend"`
	Title  Title  `json:"title"`
}

// Legend places and styles the chart legend.
type Legend struct {
	Display  bool         `json:"display"`
	Position string       `json:"position,omitempty"`
	Labels   LegendLabels `json:"labels"`
}

// LegendLabels styles the legend entries.
type LegendLabels struct {
	Color string `json:"color"`
}

// Title is the chart title plugin.
type Title struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
	Color   string `json:"color"`
}

// Axis configures one cartesian scale, keyed by axis id in Options.Scales.
type Axis struct {
	BeginAtZero bool  `json:"beginAtZero,omitempty"`
	Ticks       Ticks `json:"ticks"`
	Grid        Grid  `json:"grid"`
}

// Ticks styles the axis tick labels.
type Ticks struct {
	Color string `json:"color"`
}

// Grid styles the axis grid lines.
type Grid struct {
	Color string `json:"color"`
}
