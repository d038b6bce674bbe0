package editor

// Mode is the current interaction mode. Exactly one is active at a time.
type Mode int

const (
	ModeIdle                   Mode = iota // No placement in progress
	ModeAwaitingStartClick                 // Next chart click places the start point
	ModeAwaitingEndClick                   // Next chart click places the end point
	ModeAwaitingObstacleClicks             // Chart clicks append obstacle vertices
)

// String returns the mode name for display
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeAwaitingStartClick:
		return "START"
	case ModeAwaitingEndClick:
		return "END"
	case ModeAwaitingObstacleClicks:
		return "OBSTACLE"
	default:
		return "UNKNOWN"
	}
}

// Button is an on-screen command trigger.
type Button int

const (
	ButtonNone Button = iota
	ButtonStart
	ButtonEnd
	ButtonObstacle
)

// activeButton is the highlighted trigger for a mode.
func (m Mode) activeButton() Button {
	switch m {
	case ModeAwaitingStartClick:
		return ButtonStart
	case ModeAwaitingEndClick:
		return ButtonEnd
	case ModeAwaitingObstacleClicks:
		return ButtonObstacle
	default:
		return ButtonNone
	}
}
