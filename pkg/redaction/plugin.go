package redaction

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

// defaultPluginTimeout is the per-hook timeout default.
const defaultPluginTimeout = 5 * time.Second

// defaultConsecutiveFailureLimit is the number of consecutive failures
// that trips a plugin's breaker; once tripped the plugin is disabled for
// the process lifetime.
const defaultConsecutiveFailureLimit = 5

// Plugin is a single hook implementation. A plugin sets only the hook
// fields it needs; the chain skips any hook field left nil.
type Plugin struct {
	Name             string
	PreProcess       func(ctx context.Context, text string) (string, error)
	CanShortCircuit  func(ctx context.Context, text string) ([]Span, bool, error)
	PostDetection    func(ctx context.Context, spans []Span, text string) ([]Span, error)
	PreRedaction     func(ctx context.Context, spans []Span, text string) ([]Span, error)
	PostRedaction    func(ctx context.Context, redacted string) (string, error)
}

// pluginHandle wraps a Plugin with its own circuit breaker, isolating one
// plugin's failures from the rest of the chain: N consecutive failures
// disable the plugin for the process lifetime.
type pluginHandle struct {
	plugin  Plugin
	breaker *gobreaker.CircuitBreaker[any]
}

// PluginChain is the chain of typed hooks. Hooks run in registration
// order; plugins carry no priority of their own. Plugins MUST NOT assume
// single-threaded execution: the chain takes no lock, so concurrent
// requests may call the same plugin's hooks at the same time.
type PluginChain struct {
	handles []*pluginHandle
	timeout time.Duration
}

// NewPluginChain returns an empty chain. timeout, if zero, defaults to 5s.
func NewPluginChain(timeout time.Duration) *PluginChain {
	if timeout <= 0 {
		timeout = defaultPluginTimeout
	}
	return &PluginChain{timeout: timeout}
}

// Register adds a plugin with its own per-plugin circuit breaker.
func (c *PluginChain) Register(p Plugin) {
	settings := gobreaker.Settings{
		Name:        "plugin:" + p.Name,
		MaxRequests: 1,
		Timeout:     100 * 365 * 24 * time.Hour, // gobreaker treats 0 as 60s; this never half-opens, so a tripped plugin stays off for the process lifetime
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= defaultConsecutiveFailureLimit
		},
	}
	c.handles = append(c.handles, &pluginHandle{
		plugin:  p,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
	})
}

func (c *PluginChain) runWithTimeout(ctx context.Context, h *pluginHandle, fn func(context.Context) (any, error)) (any, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := h.breaker.Execute(func() (any, error) {
		type res struct {
			v   any
			err error
		}
		done := make(chan res, 1)
		go func() {
			v, err := fn(callCtx)
			done <- res{v, err}
		}()
		select {
		case r := <-done:
			return r.v, r.err
		case <-callCtx.Done():
			return nil, wrapError(CodePluginTimeout, "plugin "+h.plugin.Name+" timed out", callCtx.Err())
		}
	})
	if err != nil {
		if _, ok := AsCode(err); !ok {
			err = wrapError(CodePluginError, "plugin "+h.plugin.Name+" failed", err)
		}
	}
	return result, err
}

// RunPreProcess runs every registered PreProcess hook in order, threading
// the (possibly rewritten) document through the chain. A tripped or failing
// plugin is skipped; its error does not abort the request.
func (c *PluginChain) RunPreProcess(ctx context.Context, text string) string {
	for _, h := range c.handles {
		if h.plugin.PreProcess == nil {
			continue
		}
		result, err := c.runWithTimeout(ctx, h, func(ctx context.Context) (any, error) {
			return h.plugin.PreProcess(ctx, text)
		})
		if err != nil {
			continue
		}
		if s, ok := result.(string); ok {
			text = s
		}
	}
	return text
}

// RunCanShortCircuit returns the first plugin's short-circuit spans, if any
// plugin supplies one.
func (c *PluginChain) RunCanShortCircuit(ctx context.Context, text string) ([]Span, bool) {
	for _, h := range c.handles {
		if h.plugin.CanShortCircuit == nil {
			continue
		}
		result, err := c.runWithTimeout(ctx, h, func(ctx context.Context) (any, error) {
			spans, ok, err := h.plugin.CanShortCircuit(ctx, text)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, nil
			}
			return spans, nil
		})
		if err != nil || result == nil {
			continue
		}
		if spans, ok := result.([]Span); ok {
			return spans, true
		}
	}
	return nil, false
}

// RunPostDetection threads spans through every PostDetection hook.
func (c *PluginChain) RunPostDetection(ctx context.Context, spans []Span, text string) []Span {
	return c.runSpanHooks(ctx, spans, text, func(p Plugin) func(context.Context, []Span, string) ([]Span, error) {
		return p.PostDetection
	})
}

// RunPreRedaction threads spans through every PreRedaction hook.
func (c *PluginChain) RunPreRedaction(ctx context.Context, spans []Span, text string) []Span {
	return c.runSpanHooks(ctx, spans, text, func(p Plugin) func(context.Context, []Span, string) ([]Span, error) {
		return p.PreRedaction
	})
}

func (c *PluginChain) runSpanHooks(ctx context.Context, spans []Span, text string, pick func(Plugin) func(context.Context, []Span, string) ([]Span, error)) []Span {
	for _, h := range c.handles {
		hook := pick(h.plugin)
		if hook == nil {
			continue
		}
		result, err := c.runWithTimeout(ctx, h, func(ctx context.Context) (any, error) {
			return hook(ctx, spans, text)
		})
		if err != nil {
			continue
		}
		if next, ok := result.([]Span); ok {
			spans = next
		}
	}
	return spans
}

// RunPostRedaction threads the redacted output through every PostRedaction
// hook.
func (c *PluginChain) RunPostRedaction(ctx context.Context, redacted string) string {
	for _, h := range c.handles {
		if h.plugin.PostRedaction == nil {
			continue
		}
		result, err := c.runWithTimeout(ctx, h, func(ctx context.Context) (any, error) {
			return h.plugin.PostRedaction(ctx, redacted)
		})
		if err != nil {
			continue
		}
		if s, ok := result.(string); ok {
			redacted = s
		}
	}
	return redacted
}
