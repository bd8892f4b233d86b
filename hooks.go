package litecmp

import (
	"fmt"

	"go.uber.org/zap"
)

// Phase identifies a lifecycle hook queue.
type Phase int

const (
	PhaseBeforeMount Phase = iota
	PhaseMount
	PhaseBeforeRender
	PhaseUpdate
	PhaseBeforeUnmount
	PhaseUnmount
	PhaseEvent
)

func (p Phase) String() string {
	switch p {
	case PhaseBeforeMount:
		return "before_mount"
	case PhaseMount:
		return "mount"
	case PhaseBeforeRender:
		return "before_render"
	case PhaseUpdate:
		return "update"
	case PhaseBeforeUnmount:
		return "before_unmount"
	case PhaseUnmount:
		return "unmount"
	case PhaseEvent:
		return "event"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Hook runs at mount and unmount transitions.
type Hook func(c *Component) error

// UpdateHook runs after every re-render with the props from before the
// change.
type UpdateHook func(c *Component, prevProps any) error

// RenderHook may rewrite rendered markup before it is written to the host.
// The returned markup is passed to the next hook.
type RenderHook func(c *Component, markup string) (string, error)

// hookFunc is the common shape every queue is stored in.
type hookFunc[A any] func(c *Component, arg A) (A, error)

func plainHooks(hooks []Hook) []hookFunc[struct{}] {
	out := make([]hookFunc[struct{}], 0, len(hooks))
	for _, h := range hooks {
		if h == nil {
			continue
		}
		out = append(out, func(c *Component, arg struct{}) (struct{}, error) {
			return arg, h(c)
		})
	}
	return out
}

func updateHooks(hooks []UpdateHook) []hookFunc[any] {
	out := make([]hookFunc[any], 0, len(hooks))
	for _, h := range hooks {
		if h == nil {
			continue
		}
		out = append(out, func(c *Component, prev any) (any, error) {
			return prev, h(c, prev)
		})
	}
	return out
}

func renderHooks(hooks []RenderHook) []hookFunc[string] {
	out := make([]hookFunc[string], 0, len(hooks))
	for _, h := range hooks {
		if h == nil {
			continue
		}
		out = append(out, hookFunc[string](h))
	}
	return out
}

// runHooks calls every hook in queue with arg, threading each successful
// result into the next call. Failures are logged and skipped.
//
// With clear set, the queue is emptied before the first hook runs so that
// a hook re-entering the component sees the phase as already drained.
func runHooks[A any](c *Component, phase Phase, queue *[]hookFunc[A], arg A, clear bool) A {
	hooks := *queue
	if clear {
		*queue = nil
	}
	for i, h := range hooks {
		next, err := callHook(c, phase, i, h, arg)
		if err != nil {
			c.rt.logger.Error("litecmp: hook failed",
				zap.String("component", c.name),
				zap.String("id", c.ID()),
				zap.String("phase", phase.String()),
				zap.Int("index", i),
				zap.Error(err))
			c.rt.metrics.hookFailed(phase)
			continue
		}
		arg = next
	}
	return arg
}

// callHook runs one hook, turning a panic into an error.
func callHook[A any](c *Component, phase Phase, index int, h hookFunc[A], arg A) (next A, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.rt.logger.Debug("litecmp: recovered hook panic",
				zap.String("phase", phase.String()),
				zap.Int("index", index),
				zap.Any("panic", r))
			next = arg
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h(c, arg)
}
