package gallery

const (
	colorInk     = "#1f2937"
	colorMuted   = "#9ca3af"
	colorAccent  = "#6366f1"
	colorWarm    = "#f472b6"
	colorSurface = "#e0e7ff"
	colorGold    = "#fbbf24"
	colorMint    = "#34d399"
)
