package sim

// EventType identifies a game event.
type EventType int

const (
	EventRoundStarted  EventType = iota // A round began at Level
	EventLevelComplete                  // Round at Level survived with Score
	EventLevelReached                   // Progression unlocked Level
	EventGameOver                       // Round at Level failed with Score
	EventWarpStarted
	EventWarpEnded
	EventPopped       // Player destroyed Entity
	EventFuseExploded // Fuse Entity detonated on its own
)

func (t EventType) String() string {
	switch t {
	case EventRoundStarted:
		return "round-started"
	case EventLevelComplete:
		return "level-complete"
	case EventLevelReached:
		return "level-reached"
	case EventGameOver:
		return "game-over"
	case EventWarpStarted:
		return "warp-started"
	case EventWarpEnded:
		return "warp-ended"
	case EventPopped:
		return "popped"
	case EventFuseExploded:
		return "fuse-exploded"
	default:
		return "unknown"
	}
}

// Event is emitted by the Game and drained by the host each frame.
type Event struct {
	Type   EventType
	Level  int
	Score  int
	Entity EntityID
}
