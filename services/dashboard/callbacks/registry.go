// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package callbacks binds the dashboard's input controls to its chart
// outputs.
//
// # Description
//
// Each Callback declares the output it produces and the control values it
// reads. When a control changes, Trigger runs every callback whose inputs
// include that control, in registration order, and returns the new figures.
//
//	site-dropdown.value ──┬──► success-pie-chart.figure
//	                      │
//	payload-slider.value ─┴──► success-payload-scatter-chart.figure
//
// Handlers are pure functions of the current State. Nothing is cached
// between invocations, so concurrent triggers need no coordination beyond
// the registry's read lock.
package callbacks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/AleutianAI/launchdash/services/dashboard/charts"
)

// ControlID names a control property, "<element-id>.<property>".
type ControlID string

// OutputID names an output property, "<element-id>.<property>".
type OutputID string

// Dashboard controls and outputs.
const (
	SiteValue    ControlID = "site-dropdown.value"
	PayloadValue ControlID = "payload-slider.value"

	PieOutput     OutputID = "success-pie-chart.figure"
	ScatterOutput OutputID = "success-payload-scatter-chart.figure"
)

var (
	// ErrUnknownControl is returned by Trigger for a control no callback reads.
	ErrUnknownControl = errors.New("unknown control")

	// ErrUnknownOutput is returned by Resolve for an unregistered output.
	ErrUnknownOutput = errors.New("unknown output")

	// ErrInvalidCallback is returned by Register for a malformed callback.
	ErrInvalidCallback = errors.New("invalid callback")
)

// HandlerFunc computes an output figure from the current control state.
type HandlerFunc func(ctx context.Context, st State) (charts.Figure, error)

// Callback binds one output to the controls it depends on.
type Callback struct {
	Output  OutputID
	Inputs  []ControlID
	Handler HandlerFunc
}

// Update is one recomputed output.
type Update struct {
	Output OutputID      `json:"output"`
	Figure charts.Figure `json:"figure"`
}

// Observer is notified after every callback invocation.
type Observer interface {
	ObserveCallback(output string, elapsed time.Duration, items int, err error)
}

// Registry holds the registered callbacks.
type Registry struct {
	mu        sync.RWMutex
	callbacks []Callback
	observer  Observer
}

// Option configures a Registry.
type Option func(*Registry)

// WithObserver reports every invocation to obs.
func WithObserver(obs Observer) Option {
	return func(r *Registry) { r.observer = obs }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a callback.
//
// # Description
//
// Each output may be produced by at most one callback, and every callback
// must read at least one control.
//
// # Outputs
//
//   - error: ErrInvalidCallback for an empty output, no inputs, a nil
//     handler, or a duplicate output.
func (r *Registry) Register(cb Callback) error {
	if cb.Output == "" || len(cb.Inputs) == 0 || cb.Handler == nil {
		return fmt.Errorf("%w: output %q needs inputs and a handler", ErrInvalidCallback, cb.Output)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.callbacks {
		if existing.Output == cb.Output {
			return fmt.Errorf("%w: output %q already registered", ErrInvalidCallback, cb.Output)
		}
	}
	cb.Inputs = slices.Clone(cb.Inputs)
	r.callbacks = append(r.callbacks, cb)
	return nil
}

// Outputs lists registered outputs in registration order.
func (r *Registry) Outputs() []OutputID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]OutputID, 0, len(r.callbacks))
	for _, cb := range r.callbacks {
		out = append(out, cb.Output)
	}
	return out
}

// Trigger runs every callback that reads the changed control.
//
// # Description
//
// Callbacks run in registration order against the same state. The first
// handler error aborts the trigger; no partial updates are returned.
//
// # Inputs
//
//   - ctx: Request context.
//   - changed: The control whose value changed.
//   - st: Current value of every control.
//
// # Outputs
//
//   - []Update: One per affected output.
//   - error: ErrUnknownControl if no callback reads changed, or the first
//     handler error.
func (r *Registry) Trigger(ctx context.Context, changed ControlID, st State) ([]Update, error) {
	affected := r.matching(func(cb Callback) bool { return slices.Contains(cb.Inputs, changed) })
	if len(affected) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownControl, changed)
	}
	return r.run(ctx, affected, st)
}

// Initial runs every callback, as on first page paint.
func (r *Registry) Initial(ctx context.Context, st State) ([]Update, error) {
	return r.run(ctx, r.matching(func(Callback) bool { return true }), st)
}

// Resolve runs the single callback producing output.
func (r *Registry) Resolve(ctx context.Context, output OutputID, st State) (Update, error) {
	affected := r.matching(func(cb Callback) bool { return cb.Output == output })
	if len(affected) == 0 {
		return Update{}, fmt.Errorf("%w: %q", ErrUnknownOutput, output)
	}
	updates, err := r.run(ctx, affected, st)
	if err != nil {
		return Update{}, err
	}
	return updates[0], nil
}

func (r *Registry) matching(keep func(Callback) bool) []Callback {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Callback
	for _, cb := range r.callbacks {
		if keep(cb) {
			out = append(out, cb)
		}
	}
	return out
}

func (r *Registry) run(ctx context.Context, cbs []Callback, st State) ([]Update, error) {
	updates := make([]Update, 0, len(cbs))
	for _, cb := range cbs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		fig, err := cb.Handler(ctx, st)
		if r.observer != nil {
			r.observer.ObserveCallback(string(cb.Output), time.Since(start), figureItems(fig), err)
		}
		if err != nil {
			return nil, fmt.Errorf("callback %s: %w", cb.Output, err)
		}
		updates = append(updates, Update{Output: cb.Output, Figure: fig})
	}
	return updates, nil
}

// figureItems counts pie slices and scatter points in a figure.
func figureItems(fig charts.Figure) int {
	n := 0
	for _, tr := range fig.Data {
		n += len(tr.Labels) + len(tr.X)
	}
	return n
}
