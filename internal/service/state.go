package service

// State tracks whether the storage layer behind the service is usable.
// Requests arriving while the service is not Ready get ErrStorageNotReady
// instead of touching a half-initialized schema.
type State int32

const (
	// StateInitializing is the zero state before schema setup finishes.
	StateInitializing State = iota
	// StateReady means the schema exists and the pool answered a ping.
	StateReady
	// StateFailed means schema setup failed; the process keeps serving
	// but every storage-backed operation is rejected.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
