// Package theme holds the dashboard color palettes.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps dashboard roles to colors.
type Theme struct {
	Name string

	Border       lipgloss.Color // card and panel outlines
	BorderAccent lipgloss.Color // header frame
	TextDim      lipgloss.Color // hints, empty bar track
	TextMuted    lipgloss.Color // labels
	TextPrimary  lipgloss.Color // stat values
	Accent       lipgloss.Color // spinner, key hints, next milestone
	AccentBright lipgloss.Color // title

	// Status colors.
	GreenBright lipgloss.Color // target reached
	Green       lipgloss.Color // past halfway, reached milestones
	Yellow      lipgloss.Color
	Orange      lipgloss.Color // early stage, warnings
	Red         lipgloss.Color // load errors
}

// FlexokiDark is the default: warm paper tones on near-black.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Green:        lipgloss.Color("#879A39"),
	GreenBright:  lipgloss.Color("#A3B859"),
	Yellow:       lipgloss.Color("#D0A215"),
	Orange:       lipgloss.Color("#DA702C"),
	Red:          lipgloss.Color("#D14D41"),
}

// CatppuccinMocha uses soft pastels.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Border:       lipgloss.Color("#585B70"),
	BorderAccent: lipgloss.Color("#89B4FA"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	AccentBright: lipgloss.Color("#B4D0FB"),
	Green:        lipgloss.Color("#A6E3A1"),
	GreenBright:  lipgloss.Color("#C6F6C1"),
	Yellow:       lipgloss.Color("#F9E2AF"),
	Orange:       lipgloss.Color("#FAB387"),
	Red:          lipgloss.Color("#F38BA8"),
}

var TokyoNight = Theme{
	Name:         "tokyo-night",
	Border:       lipgloss.Color("#565F89"),
	BorderAccent: lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	Green:        lipgloss.Color("#9ECE6A"),
	GreenBright:  lipgloss.Color("#B9E87A"),
	Yellow:       lipgloss.Color("#E0AF68"),
	Orange:       lipgloss.Color("#FF9E64"),
	Red:          lipgloss.Color("#F7768E"),
}

// Terminal sticks to the 16 ANSI colors.
var Terminal = Theme{
	Name:         "terminal",
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Green:        lipgloss.Color("2"),
	GreenBright:  lipgloss.Color("10"),
	Yellow:       lipgloss.Color("3"),
	Orange:       lipgloss.Color("3"),
	Red:          lipgloss.Color("1"),
}

// All lists the themes in the order setup offers them.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// Active is the palette components render with.
var Active = FlexokiDark

// ByName looks a theme up, falling back to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// Names returns the theme names of All.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

func SetActive(name string) {
	Active = ByName(name)
}
