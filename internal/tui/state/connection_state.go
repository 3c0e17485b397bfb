package state

// ConnectionStatus is the state of the live update feed
type ConnectionStatus int

const (
	Disconnected ConnectionStatus = iota
	Connected
	// Offline means no event source was configured at all
	Offline
)

// String returns a human-readable string representation of the connection status
func (cs ConnectionStatus) String() string {
	switch cs {
	case Connected:
		return "Live"
	case Disconnected:
		return "Disconnected"
	case Offline:
		return "Offline"
	default:
		return "Unknown"
	}
}
