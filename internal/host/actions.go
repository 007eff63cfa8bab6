package host

import (
	"context"
	"sync"

	"github.com/TWRT/project-gantt/internal/models"
)

// Actions queues navigation requests until the front end drains them.
type Actions struct {
	mu      sync.Mutex
	pending []models.Action
}

func NewActions() *Actions {
	return &Actions{}
}

func (a *Actions) DoAction(ctx context.Context, action models.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	a.pending = append(a.pending, action)
	a.mu.Unlock()
	return nil
}

func (a *Actions) Drain() []models.Action {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.pending
	a.pending = nil
	if out == nil {
		out = []models.Action{}
	}
	return out
}
