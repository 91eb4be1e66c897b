package scx

import (
	"fmt"
	"slices"
)

// Registry validates scheduler names against a set of schedulers. The zero
// value is not usable; use DefaultRegistry or NewRegistry.
type Registry struct {
	schedulers []Scheduler
}

// DefaultRegistry accepts every known scheduler.
func DefaultRegistry() *Registry {
	return &Registry{schedulers: Schedulers()}
}

// NewRegistry narrows the known schedulers to those advertised by the
// loader service. Advertised names this build does not know are skipped and
// returned so the caller can report them.
func NewRegistry(advertised []string) (*Registry, []string) {
	r := &Registry{}
	var unknown []string
	for _, name := range advertised {
		s, err := ParseScheduler(name)
		if err != nil {
			unknown = append(unknown, name)
			continue
		}
		if !slices.Contains(r.schedulers, s) {
			r.schedulers = append(r.schedulers, s)
		}
	}
	return r, unknown
}

// Resolve returns the scheduler with the given canonical name if it belongs
// to the registry.
func (r *Registry) Resolve(name string) (Scheduler, error) {
	s, err := ParseScheduler(name)
	if err != nil {
		return 0, err
	}
	if !slices.Contains(r.schedulers, s) {
		return 0, fmt.Errorf("%w: %q is not supported by the loader", ErrInvalidScheduler, name)
	}
	return s, nil
}

// ResolveMode decodes a mode code. It exists on Registry so callers can
// validate both halves of a request through one value.
func (r *Registry) ResolveMode(code uint32) (Mode, error) {
	return ParseModeCode(code)
}

// Schedulers returns the registry members.
func (r *Registry) Schedulers() []Scheduler {
	return slices.Clone(r.schedulers)
}
