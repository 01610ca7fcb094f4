// Package tasks is a name-to-callable registry for background-style jobs
// invoked in process. There is no queue: Run looks the task up and calls it
// directly.
package tasks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// TaskFunc is one runnable task.
type TaskFunc func(ctx context.Context) (any, error)

// Registry maps task names to callables.
type Registry struct {
	mu    sync.RWMutex
	log   zerolog.Logger
	tasks map[string]TaskFunc
}

func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{log: logger, tasks: make(map[string]TaskFunc)}
}

// Register adds a task under name. Re-registering a name replaces the task.
func (r *Registry) Register(name string, task TaskFunc) {
	r.mu.Lock()
	r.tasks[name] = task
	r.mu.Unlock()
	r.log.Debug().Str("task", name).Msg("task registered")
}

// Names returns the registered task names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Run invokes the named task.
func (r *Registry) Run(ctx context.Context, name string) (any, error) {
	r.mu.RLock()
	task, ok := r.tasks[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown task %q", name)
	}

	r.log.Info().Str("task", name).Msg("task started")
	result, err := task(ctx)
	if err != nil {
		r.log.Error().Err(err).Str("task", name).Msg("task failed")
		return nil, err
	}
	r.log.Info().Str("task", name).Msg("task finished")
	return result, nil
}

// ── Built-in tasks ───────────────────────────────────────────────────────────

// PingTaskName is the liveness probe task.
const PingTaskName = "ping"

// Ping answers "pong". It exists to verify the registry end to end.
func Ping(_ context.Context) (any, error) {
	return map[string]string{"result": "pong"}, nil
}
