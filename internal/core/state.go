package core

// Phase is the selection state of a game
type Phase int

const (
	PhaseIdle     Phase = iota // No piece selected
	PhaseSelected              // A piece is selected and legal moves are populated
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSelected:
		return "selected"
	default:
		return "unknown"
	}
}

// Outcome describes what a single activation did
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeSelected
	OutcomeMoved
	OutcomeDeselected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeSelected:
		return "selected"
	case OutcomeMoved:
		return "moved"
	case OutcomeDeselected:
		return "deselected"
	default:
		return "unknown"
	}
}
