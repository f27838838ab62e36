package entity

// Kind is a typed handle for a persisted record type.
type Kind int

const (
	KindUser Kind = iota + 1
	KindEvent
)

// String returns the entity name used in user-facing messages.
func (k Kind) String() string {
	switch k {
	case KindUser:
		return "User"
	case KindEvent:
		return "Event"
	default:
		return "Entity"
	}
}
