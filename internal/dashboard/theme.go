package dashboard

// Theme holds the fixed colors shared by every chart on a page.
type Theme struct {
	Text    string
	Border  string
	Palette []string
}

// Defaults are the library-wide settings applied once before any chart is built.
type Defaults struct {
	Color       string `json:"color"`
	BorderColor string `json:"borderColor"`
}

// DefaultTheme returns the light dashboard theme.
func DefaultTheme() Theme {
	return Theme{
		Text:   "#212529",
		Border: "#DEE2E6",
		Palette: []string{
			"#D4AF37", // gold
			"#2997ff", // blue
			"#34c38f", // green
			"#f46a6a", // red
			"#ffb629", // orange
			"#6C757D", // gray
		},
	}
}

// Defaults returns the global chart defaults for the theme.
func (t Theme) Defaults() Defaults {
	return Defaults{Color: t.Text, BorderColor: t.Border}
}

// Colors returns n palette entries, cycling when n exceeds the palette size.
func (t Theme) Colors(n int) []string {
	if n <= 0 || len(t.Palette) == 0 {
		return []string{}
	}
	out := make([]string, n)
	for i := range out {
		out[i] = t.Palette[i%len(t.Palette)]
	}
	return out
}

// Color returns palette entry i, wrapping around.
func (t Theme) Color(i uint) string {
	if len(t.Palette) == 0 {
		return t.Text
	}
	return t.Palette[i%uint(len(t.Palette))]
}
