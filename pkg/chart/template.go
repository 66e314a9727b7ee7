package chart

// Template carries the styling applied to figures.
type Template struct {
	FontFamily string   `json:"font_family" toml:"font_family" yaml:"font_family"`
	FontSize   int      `json:"font_size" toml:"font_size" yaml:"font_size"`
	TextColor  string   `json:"text_color" toml:"text_color" yaml:"text_color"`
	Colorway   []string `json:"colorway" toml:"colorway" yaml:"colorway"`

	Primary   string `json:"primary" toml:"primary" yaml:"primary"`
	Secondary string `json:"secondary" toml:"secondary" yaml:"secondary"`
	Positive  string `json:"positive" toml:"positive" yaml:"positive"`
	Negative  string `json:"negative" toml:"negative" yaml:"negative"`
	Total     string `json:"total" toml:"total" yaml:"total"`
	Line      string `json:"line" toml:"line" yaml:"line"`
}

// DefaultTemplate returns the built-in template.
func DefaultTemplate() Template {
	return Template{
		FontFamily: "Arial",
		FontSize:   14,
		TextColor:  "#1f1f1f",
		Colorway:   []string{"#0b3c5d", "#328cc1", "#d9b310", "#a6a6a6", "#1d2731"},
		Primary:    "#0b3c5d",
		Secondary:  "#a6a6a6",
		Positive:   "#2e7d32",
		Negative:   "#c62828",
		Total:      "#0b3c5d",
		Line:       "#7f7f7f",
	}
}

// Merge returns t with every empty field filled from base.
func (t Template) Merge(base Template) Template {
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	out := Template{
		FontFamily: pick(t.FontFamily, base.FontFamily),
		FontSize:   t.FontSize,
		TextColor:  pick(t.TextColor, base.TextColor),
		Colorway:   t.Colorway,
		Primary:    pick(t.Primary, base.Primary),
		Secondary:  pick(t.Secondary, base.Secondary),
		Positive:   pick(t.Positive, base.Positive),
		Negative:   pick(t.Negative, base.Negative),
		Total:      pick(t.Total, base.Total),
		Line:       pick(t.Line, base.Line),
	}
	if out.FontSize == 0 {
		out.FontSize = base.FontSize
	}
	if len(out.Colorway) == 0 {
		out.Colorway = append([]string(nil), base.Colorway...)
	}
	return out
}
