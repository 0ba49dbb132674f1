package lifecycle

import "fmt"

// Phase is the controller's current stage.
type Phase int

const (
	PreLoad Phase = iota
	Loading
	PostLoad
	Play
	Menu

	// Disposed marks a torn-down controller. Update and Draw are no-ops in it.
	Disposed
)

func (p Phase) String() string {
	switch p {
	case PreLoad:
		return "PreLoad"
	case Loading:
		return "Loading"
	case PostLoad:
		return "PostLoad"
	case Play:
		return "Play"
	case Menu:
		return "Menu"
	case Disposed:
		return "Disposed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Interactive reports whether a World exists in this phase.
func (p Phase) Interactive() bool {
	return p == Play || p == Menu
}

var edges = map[Phase][]Phase{
	PreLoad:  {Loading, PostLoad},
	Loading:  {PostLoad},
	PostLoad: {Play},
	Play:     {Menu, PreLoad},
	Menu:     {Play, PreLoad},
}

// CanTransition reports whether from -> to is a legal phase edge.
func CanTransition(from, to Phase) bool {
	for _, next := range edges[from] {
		if next == to {
			return true
		}
	}
	return false
}
