package algo

import (
	"maps"

	"github.com/aipowerranking/toolrank/schema"
)

// Signals is the read-only auxiliary signal context for a ranking run.
// It is built once during setup and never mutated, so scorers may read it
// from any number of goroutines. A nil *Signals behaves like an unloaded one.
type Signals struct {
	velocity map[string]float64
	news     map[string]schema.NewsImpact
	loaded   bool
}

// NewSignals copies the given tables into a loaded signal context.
func NewSignals(velocity map[string]float64, news map[string]schema.NewsImpact) *Signals {
	s := &Signals{
		velocity: make(map[string]float64, len(velocity)),
		news:     make(map[string]schema.NewsImpact, len(news)),
		loaded:   true,
	}
	maps.Copy(s.velocity, velocity)
	maps.Copy(s.news, news)
	return s
}

// EmptySignals returns a context that reports every signal as absent.
func EmptySignals() *Signals {
	return &Signals{}
}

// Loaded reports whether any signal table was loaded.
func (s *Signals) Loaded() bool {
	return s != nil && s.loaded
}

// Velocity returns the precomputed velocity score for a tool, if present and finite.
func (s *Signals) Velocity(toolID string) (float64, bool) {
	if !s.Loaded() {
		return 0, false
	}
	v, ok := s.velocity[toolID]
	if !ok {
		return 0, false
	}
	return schema.Num(&v)
}

// NewsImpact returns the total news impact for a tool, if present and finite.
func (s *Signals) NewsImpact(toolID string) (float64, bool) {
	if !s.Loaded() {
		return 0, false
	}
	n, ok := s.news[toolID]
	if !ok {
		return 0, false
	}
	return schema.Num(&n.TotalImpact)
}

// Len returns the number of tools with a velocity and a news entry.
func (s *Signals) Len() (velocity, news int) {
	if !s.Loaded() {
		return 0, 0
	}
	return len(s.velocity), len(s.news)
}
