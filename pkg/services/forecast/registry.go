package forecast

import (
	"fmt"
	"slices"
	"sync"
)

// DefaultMethod is the capability used when none is configured.
const DefaultMethod = "holt"

// Settings parameterise a capability when it is created.
type Settings struct {
	Confidence float64
	Window     int // moving-average window
}

func DefaultSettings() Settings {
	return Settings{Confidence: DefaultConfidence, Window: DefaultMovingAverageWindow}
}

// Factory is a function type that creates a Capability from settings
type Factory func(settings Settings) Capability

// Registry manages forecasting capability factories
type Registry interface {
	// Register adds a new capability factory under name
	Register(name string, factory Factory) error
	// Create instantiates the capability registered under name
	Create(name string, settings Settings) (Capability, error)
	// List returns the registered capability names in ascending order
	List() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new capability registry
func NewRegistry(factories map[string]Factory) Registry {
	r := &registry{
		factories: make(map[string]Factory, len(factories)),
	}
	for name, factory := range factories {
		r.factories[name] = factory
	}
	return r
}

// DefaultRegistry holds every built-in capability.
func DefaultRegistry() Registry {
	return NewRegistry(map[string]Factory{
		"holt":           func(s Settings) Capability { return NewHolt(s.Confidence) },
		"moving-average": func(s Settings) Capability { return NewMovingAverage(s.Confidence, s.Window) },
		"drift":          func(s Settings) Capability { return NewDrift(s.Confidence) },
		"linear":         func(s Settings) Capability { return NewLinear(s.Confidence) },
	})
}

func (r *registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("capability name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("capability %q is already registered", name)
	}

	r.factories[name] = factory
	return nil
}

func (r *registry) Create(name string, settings Settings) (Capability, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("capability %q is not registered", name)
	}
	if err := validConfidence(settings.Confidence); err != nil {
		return nil, err
	}

	return factory(settings), nil
}

func (r *registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
