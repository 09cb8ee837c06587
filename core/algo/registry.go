package algo

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/aipowerranking/toolrank/schema"
)

// WeightTolerance is how far a version's weights may drift from a sum of 1.
const WeightTolerance = 1e-9

// Registry errors.
var (
	ErrUnknownVersion   = errors.New("unknown algorithm version")
	ErrDuplicateVersion = errors.New("algorithm version already registered")
	ErrInvalidWeights   = errors.New("invalid algorithm weights")
	ErrInvalidAlgorithm = errors.New("invalid algorithm definition")
)

// Registry holds the selectable algorithm versions. It is safe for concurrent
// reads; Register and Derive only ever add versions.
type Registry struct {
	mu         sync.RWMutex
	algorithms map[string]*Algorithm
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// NewRegistry validates and registers the given algorithms.
func NewRegistry(algs ...*Algorithm) (*Registry, error) {
	r := &Registry{algorithms: make(map[string]*Algorithm, len(algs))}
	for _, a := range algs {
		if err := r.Register(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewDefaultRegistry returns a fresh registry holding the built-in versions.
// Callers that add custom versions should use this rather than DefaultRegistry.
func NewDefaultRegistry() (*Registry, error) {
	return NewRegistry(newV6(), newV7(), newV73())
}

// DefaultRegistry returns the shared registry of built-in versions.
// It panics if a built-in version is invalid, so a bad weight vector
// stops the process at load time instead of producing a ranking.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		r, err := NewDefaultRegistry()
		if err != nil {
			panic(fmt.Sprintf("built-in algorithms are invalid: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Register validates and adds an algorithm. Existing versions are never replaced.
func (r *Registry) Register(a *Algorithm) error {
	if err := Validate(a); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.algorithms[a.Version]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateVersion, a.Version)
	}
	r.algorithms[a.Version] = a
	return nil
}

// Get returns the algorithm for an exact version string. There is no fallback.
func (r *Registry) Get(version string) (*Algorithm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.algorithms[version]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownVersion, version, r.versionsLocked())
	}
	return a, nil
}

// Versions returns the registered versions in sorted order.
func (r *Registry) Versions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.versionsLocked()
}

func (r *Registry) versionsLocked() []string {
	versions := make([]string, 0, len(r.algorithms))
	for v := range r.algorithms {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

// Info returns the introspection view of one version.
func (r *Registry) Info(version string) (schema.AlgorithmInfo, error) {
	a, err := r.Get(version)
	if err != nil {
		return schema.AlgorithmInfo{}, err
	}
	return a.Info(), nil
}

// Derive registers a new version that reuses base's scorers with a new weight vector.
// The base version is left untouched.
func (r *Registry) Derive(baseVersion, newVersion string, weights map[schema.FactorName]float64) (*Algorithm, error) {
	base, err := r.Get(baseVersion)
	if err != nil {
		return nil, err
	}

	w := make(map[schema.FactorName]float64, len(weights))
	for k, v := range weights {
		w[k] = v
	}
	scorers := make(map[schema.FactorName]Scorer, len(base.Scorers))
	for k, v := range base.Scorers {
		scorers[k] = v
	}

	derived := &Algorithm{
		Version:     newVersion,
		Description: fmt.Sprintf("Custom weights over %s.", base.Version),
		Features:    append(append([]string(nil), base.Features...), "custom weights derived from "+base.Version),
		Weights:     w,
		Scorers:     scorers,
		Scale:       base.Scale,
		Precision:   base.Precision,
		Tiebreak:    base.Tiebreak,
		Overrides:   append([]CalibrationOverride(nil), base.Overrides...),
	}
	if err := r.Register(derived); err != nil {
		return nil, err
	}
	return derived, nil
}

// Validate checks an algorithm definition: a version name, eight finite
// non-negative weights summing to 1, a scorer per factor, a known scale
// and strictly decreasing tiebreak multipliers.
func Validate(a *Algorithm) error {
	if a == nil || a.Version == "" {
		return fmt.Errorf("%w: missing version", ErrInvalidAlgorithm)
	}

	sum := 0.0
	for _, f := range schema.AllFactors {
		w, ok := a.Weights[f]
		if !ok {
			return fmt.Errorf("%w: %s has no weight for %s", ErrInvalidWeights, a.Version, f)
		}
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return fmt.Errorf("%w: %s weight for %s is %v", ErrInvalidWeights, a.Version, f, w)
		}
		sum += w
		if a.Scorers[f] == nil {
			return fmt.Errorf("%w: %s has no scorer for %s", ErrInvalidAlgorithm, a.Version, f)
		}
	}
	if len(a.Weights) != len(schema.AllFactors) {
		return fmt.Errorf("%w: %s has %d weights, want %d", ErrInvalidWeights, a.Version, len(a.Weights), len(schema.AllFactors))
	}
	if math.Abs(sum-1) > WeightTolerance {
		return fmt.Errorf("%w: %s weights sum to %.12f, want 1.0", ErrInvalidWeights, a.Version, sum)
	}

	if a.Scale != 10 && a.Scale != 100 {
		return fmt.Errorf("%w: %s scale must be 10 or 100, got %v", ErrInvalidAlgorithm, a.Version, a.Scale)
	}
	if a.Precision < 0 || a.Precision > 6 {
		return fmt.Errorf("%w: %s precision must be 0-6, got %d", ErrInvalidAlgorithm, a.Version, a.Precision)
	}
	for i, m := range a.Tiebreak {
		if m <= 0 || m > 1e-5 {
			return fmt.Errorf("%w: %s tiebreak multiplier %d must be in (0, 1e-5], got %v", ErrInvalidAlgorithm, a.Version, i, m)
		}
		if i > 0 && m >= a.Tiebreak[i-1] {
			return fmt.Errorf("%w: %s tiebreak multipliers must strictly decrease", ErrInvalidAlgorithm, a.Version)
		}
	}
	return nil
}
