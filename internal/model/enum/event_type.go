package enum

// EventType tags an exchange push as a full snapshot or an incremental delta.
type EventType uint8

const (
	_event_type_beg EventType = iota
	EventTypeSnapshot
	EventTypeDelta
	_event_type_end
)

func (e EventType) IsAvailable() bool {
	return e > _event_type_beg && e < _event_type_end
}

// ParseEventType maps the wire "type" field to an EventType.
func ParseEventType(s string) (EventType, bool) {
	switch s {
	case "snapshot":
		return EventTypeSnapshot, true
	case "delta":
		return EventTypeDelta, true
	default:
		return 0, false
	}
}
