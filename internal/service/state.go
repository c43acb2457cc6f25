package service

// StateKind discriminates the variants of State.
type StateKind int

const (
	// StateLoading means a fetch is in flight.
	StateLoading StateKind = iota
	// StateFailed means the last fetch failed and carries a message.
	StateFailed
	// StateReady means data is available.
	StateReady
)

func (k StateKind) String() string {
	switch k {
	case StateFailed:
		return "failed"
	case StateReady:
		return "ready"
	default:
		return "loading"
	}
}

// State is exactly one of Loading, Failed(message) or Ready(data).
type State[T any] struct {
	kind    StateKind
	message string
	data    []T
}

// Loading builds the loading variant.
func Loading[T any]() State[T] {
	return State[T]{kind: StateLoading}
}

// Failed builds the failed variant.
func Failed[T any](message string) State[T] {
	return State[T]{kind: StateFailed, message: message}
}

// Ready builds the ready variant.
func Ready[T any](data []T) State[T] {
	if data == nil {
		data = []T{}
	}
	return State[T]{kind: StateReady, data: data}
}

// Kind reports the active variant.
func (s State[T]) Kind() StateKind { return s.kind }

// Message is set only for Failed.
func (s State[T]) Message() string { return s.message }

// Data is set only for Ready.
func (s State[T]) Data() []T { return s.data }
