package chat

// Status is the busy indicator shared by the registry and the controller.
// At most one non-idle status is active at a time.
type Status int

const (
	StatusIdle Status = iota
	StatusLoadingModels
	StatusSending
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoadingModels:
		return "loading_models"
	case StatusSending:
		return "sending"
	default:
		return "unknown"
	}
}
