package domain

// Kind selects how a notification is styled.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Phase is the lifecycle position of a visible notification.
type Phase string

const (
	PhaseVisible Phase = "visible"
	PhaseFading  Phase = "fading"
)

// Notification is a transient status message.
type Notification struct {
	Message string `json:"message"`
	Kind    Kind   `json:"type"`
	Phase   Phase  `json:"phase"`
}
