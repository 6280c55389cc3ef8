// Package model resolves transient emission models and turns them into
// synthetic sources: F_lambda sampled on a phase x wavelength grid.
package model

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrInvalidModel is returned when a Spec names neither a registered
	// model nor supplies a function.
	ErrInvalidModel = errors.New("model must be a registered name or a flux density function")
	// ErrUnknownModel is returned when a name is not in the registry.
	ErrUnknownModel = errors.New("unknown model")
)

// FluxDensityFunc evaluates a model at one phase (observer-frame days since
// the reference time) for a set of observer-frame wavelengths (Angstrom),
// returning flux densities in mJy.
type FluxDensityFunc func(phase float64, wave []float64, p Params) ([]float64, error)

// Model is a resolved emission model.
type Model struct {
	Name     string
	Class    Class
	Required []string
	Eval     FluxDensityFunc
}

// Spec selects a model: a non-nil Func wins, otherwise Name is looked up.
type Spec struct {
	Name  string
	Func  FluxDensityFunc
	Class Class // only used with Func
}

var registry = map[string]Model{}

func register(m Model) {
	if _, dup := registry[m.Name]; dup {
		panic("model: duplicate registration of " + m.Name)
	}
	registry[m.Name] = m
}

// Lookup returns the registered model with the given name.
func Lookup(name string) (Model, error) {
	m, ok := registry[name]
	if !ok {
		return Model{}, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	return m, nil
}

// Names lists the registered model names in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Resolve turns a Spec into a Model once, so later code never dispatches on
// names again.
func Resolve(s Spec) (Model, error) {
	switch {
	case s.Func != nil:
		name := s.Name
		if name == "" {
			name = "custom"
		}
		return Model{Name: name, Class: s.Class, Eval: s.Func}, nil
	case s.Name != "":
		return Lookup(s.Name)
	default:
		return Model{}, ErrInvalidModel
	}
}
