package plot

// Risk band colors. Pastel palette so markers stay readable on top.
const (
	ColorLow      = "#97ed95"
	ColorGuarded  = "#fff4c3"
	ColorElevated = "#ffd1a1"
	ColorHigh     = "#f6b2b0"
	ColorUnknown  = "#d9d9d9"
)

// AssignColor maps a predicted probability to its risk band color.
// Values outside [0, 1] (including NaN) fall back to ColorUnknown.
func AssignColor(prob float64) string {
	switch {
	case prob >= 0 && prob < 0.25:
		return ColorLow
	case prob >= 0.25 && prob < 0.4:
		return ColorGuarded
	case prob >= 0.4 && prob < 0.5:
		return ColorElevated
	case prob >= 0.5 && prob <= 1:
		return ColorHigh
	default:
		return ColorUnknown
	}
}
