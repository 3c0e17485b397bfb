package config

// Theme defines the board colours
type Theme struct {
	// Preset name ("default" or "monochrome")
	Preset string `yaml:"preset"`

	Accent         string `yaml:"accent"`
	ColumnBorder   string `yaml:"column_border"`
	SelectedBorder string `yaml:"selected_border"`
	Title          string `yaml:"title"`
	Subtle         string `yaml:"subtle"`
	Normal         string `yaml:"normal"`
	ErrorFg        string `yaml:"error_fg"`
}

// PresetTheme returns a preset theme by name, falling back to the default
func PresetTheme(name string) Theme {
	switch name {
	case "monochrome":
		return Theme{
			Preset:         "monochrome",
			Accent:         "#FFFFFF",
			ColumnBorder:   "#808080",
			SelectedBorder: "#FFFFFF",
			Title:          "#FFFFFF",
			Subtle:         "#808080",
			Normal:         "#D0D0D0",
			ErrorFg:        "#FFFFFF",
		}
	default:
		return Theme{
			Preset:         "default",
			Accent:         "#874BFD",
			ColumnBorder:   "#5F87D7",
			SelectedBorder: "#D75FD7",
			Title:          "#D75FD7",
			Subtle:         "#585858",
			Normal:         "#D0D0D0",
			ErrorFg:        "#FF0000",
		}
	}
}

// ApplyDefaults fills in missing colours from the chosen preset
func (t *Theme) ApplyDefaults() {
	p := PresetTheme(t.Preset)
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&t.Preset, p.Preset)
	fill(&t.Accent, p.Accent)
	fill(&t.ColumnBorder, p.ColumnBorder)
	fill(&t.SelectedBorder, p.SelectedBorder)
	fill(&t.Title, p.Title)
	fill(&t.Subtle, p.Subtle)
	fill(&t.Normal, p.Normal)
	fill(&t.ErrorFg, p.ErrorFg)
}
