package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Listener turns a subscription into Bubble Tea commands. Each command
// yields the next Event[T] as its message, or nil once the subscription
// ends. Models re-issue Listen after handling an event.
type Listener[T any] struct {
	ctx context.Context
	ch  <-chan Event[T]
}

func NewListener[T any](ctx context.Context, s Subscriber[T]) *Listener[T] {
	return &Listener[T]{ctx: ctx, ch: s.Subscribe(ctx)}
}

func (l *Listener[T]) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-l.ctx.Done():
			return nil
		case ev, ok := <-l.ch:
			if !ok {
				return nil
			}
			return ev
		}
	}
}
