package sample

type EventType int

const (
	_ EventType = iota
	EventQuit
	EventKeyDown
)

func (et EventType) String() string {
	switch et {
	case EventQuit:
		return "Quit"
	case EventKeyDown:
		return "Key Down"
	default:
		return "Unknown"
	}
}

// Key is the symbolic key code carried by a key-down event.
type Key int

const (
	KeyOther Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	default:
		return "Other"
	}
}

type Event struct {
	Type EventType
	Key  Key // Only set for EventKeyDown.
}

func NewQuitEvent() Event {
	return Event{Type: EventQuit}
}

func NewKeyEvent(k Key) Event {
	return Event{
		Type: EventKeyDown,
		Key:  k,
	}
}
