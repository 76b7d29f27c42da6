package audit

import "context"

type Entry struct {
	Action  string
	Message string
	Meta    map[string]any
}

type Logger interface {
	Log(ctx context.Context, entry Entry)
}

// Nop discards entries.
type Nop struct{}

func (Nop) Log(context.Context, Entry) {}
