package display

// Terminal color codes
const (
	Reset   = "\033[0m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
)

// Palette wraps text in color codes, or passes it through when disabled
type Palette struct {
	Enabled bool
}

func (p Palette) Paint(color, text string) string {
	if !p.Enabled {
		return text
	}
	return color + text + Reset
}

// Prompt returns a colored prompt string
func (p Palette) Prompt(text string) string {
	return p.Paint(Yellow, text+" > ")
}
