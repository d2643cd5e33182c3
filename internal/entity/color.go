package entity

// Color identifies one of the two players for the lifetime of a match.
type Color string

const (
	ColorRed    Color = "R"
	ColorYellow Color = "Y"
	ColorNone   Color = ""
)

func (that Color) Opponent() Color {
	if that == ColorRed {
		return ColorYellow
	}
	return ColorRed
}

func (that Color) Name() string {
	switch that {
	case ColorRed:
		return "Red"
	case ColorYellow:
		return "Yellow"
	default:
		return ""
	}
}
