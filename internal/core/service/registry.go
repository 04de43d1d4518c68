package service

import (
	"fmt"
	"sync"

	"github.com/deltahdl/driftgate/internal/core/domain"
	"github.com/deltahdl/driftgate/internal/core/ports"
	"github.com/deltahdl/driftgate/internal/errors"
)

// ProberRegistry maps resource kinds to their existence probers. Adding
// support for a new kind means registering one prober, nothing else.
type ProberRegistry struct {
	mu      sync.RWMutex
	probers map[domain.ResourceKind]ports.Prober
}

func NewProberRegistry() *ProberRegistry {
	return &ProberRegistry{
		probers: make(map[domain.ResourceKind]ports.Prober),
	}
}

func (r *ProberRegistry) Register(prober ports.Prober) error {
	if prober == nil {
		return errors.New(errors.CodeInternal, "attempted to register nil prober")
	}
	kind := prober.Kind()
	if kind == "" {
		return errors.New(errors.CodeInternal, "prober kind cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.probers[kind]; exists {
		return errors.New(errors.CodeInternal, fmt.Sprintf("prober for kind '%s' already registered", kind))
	}
	r.probers[kind] = prober
	return nil
}

func (r *ProberRegistry) Get(kind domain.ResourceKind) (ports.Prober, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prober, exists := r.probers[kind]
	if !exists {
		return nil, errors.New(errors.CodeUnsupportedKind, fmt.Sprintf("no existence prober registered for kind '%s'", kind))
	}
	return prober, nil
}

func (r *ProberRegistry) Kinds() []domain.ResourceKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]domain.ResourceKind, 0, len(r.probers))
	for k := range r.probers {
		kinds = append(kinds, k)
	}
	return kinds
}
