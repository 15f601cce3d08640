package config

// Setting paths understood by the macros.
const (
	KeyZoomLevel         = "window.zoomLevel"
	KeyPresentationMin   = "macros.presentation.min"
	KeyPresentationMax   = "macros.presentation.max"
	KeyDateZeroPad       = "macros.date.zeroPad"
	KeyTestgenUnresolved = "testgen.unresolved"
	KeyTestgenQuotes     = "testgen.quotes"
	KeyTestgenContainers = "testgen.containers"
	KeyTestgenLeaves     = "testgen.leaves"
	KeyLogLevel          = "logging.level"
)

// defaultConfig returns the built-in settings. window.zoomLevel has no
// default: an unset zoom level is reported by the presentation toggle.
func defaultConfig() map[string]any {
	return map[string]any{
		"macros": map[string]any{
			"presentation": map[string]any{
				"min": 0,
				"max": 2,
			},
			"date": map[string]any{
				"zeroPad": true,
			},
		},
		"testgen": map[string]any{
			"unresolved": "skip",
			"quotes":     "verbatim",
			"containers": "CDS",
			"leaves":     "IT",
		},
		"logging": map[string]any{
			"level": "info",
		},
	}
}
