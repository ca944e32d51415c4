// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package supervisor

import (
	"reflect"
	"time"

	"github.com/tochemey/actorcore/errors"
)

// Scope defines which actors a supervision decision applies to.
type Scope int

const (
	// OneScope applies the directive only to the failing actor.
	// Other sibling actors continue running unaffected.
	OneScope Scope = iota
	// AllScope applies the directive to every sibling under the same parent,
	// the failing actor included.
	AllScope
)

// String returns the string representation of the scope
func (s Scope) String() string {
	switch s {
	case OneScope:
		return "One"
	case AllScope:
		return "All"
	default:
		return ""
	}
}

// Directive defines the supervisor directive
//
// It represents the action that a supervisor can take when an actor fails
// during message processing.
type Directive int

const (
	// StopDirective stops the failing actor. Its pending messages become dead letters.
	StopDirective Directive = iota
	// ResumeDirective resumes the failing actor without resetting its state.
	ResumeDirective
	// RestartDirective reconstructs the failing actor from its definition,
	// bounded by the strategy intensity and period.
	RestartDirective
	// EscalateDirective hands the failure to the next supervisor up the chain.
	EscalateDirective
)

// String returns the string representation of the directive
func (d Directive) String() string {
	switch d {
	case StopDirective:
		return "Stop"
	case ResumeDirective:
		return "Resume"
	case RestartDirective:
		return "Restart"
	case EscalateDirective:
		return "Escalate"
	default:
		return ""
	}
}

const (
	// DefaultIntensity is the number of restarts allowed within DefaultPeriod
	DefaultIntensity = 5
	// DefaultPeriod is the rolling window restarts are counted in
	DefaultPeriod = time.Second
	// ForeverIntensity disables the restart bound
	ForeverIntensity = -1
)

// Option defines the various options to apply to a given Strategy
type Option func(*Strategy)

// WithIntensity sets the maximum number of restarts allowed within the period.
// A negative value means the actor can be restarted forever.
func WithIntensity(intensity int) Option {
	return func(s *Strategy) {
		s.intensity = intensity
	}
}

// WithPeriod sets the rolling time window restarts are counted in
func WithPeriod(period time.Duration) Option {
	return func(s *Strategy) {
		s.period = period
	}
}

// WithScope sets the strategy scope
func WithScope(scope Scope) Option {
	return func(s *Strategy) {
		s.scope = scope
	}
}

// WithDirective sets the mapping between an error and a given directive
func WithDirective(err error, directive Directive) Option {
	return func(s *Strategy) {
		s.directives[errorType(err)] = directive
	}
}

// WithAnyErrorDirective sets the directive to apply to any error
// that has no specific mapping.
func WithAnyErrorDirective(directive Directive) Option {
	return func(s *Strategy) {
		s.directives[errorType(new(errors.AnyError))] = directive
	}
}

// Strategy bundles how a supervisor reacts to failures:
//
//   - intensity: the maximum number of restarts within period
//   - period: the rolling window restarts are counted in
//   - scope: One or All
//   - directive rules keyed by error type
//
// A Strategy is immutable once built and is consulted, never mutated, by supervisors.
type Strategy struct {
	intensity  int
	period     time.Duration
	scope      Scope
	directives map[string]Directive
}

// NewStrategy creates a Strategy. Without options it restarts a failing actor
// at most DefaultIntensity times within DefaultPeriod, scoped to that actor.
func NewStrategy(opts ...Option) *Strategy {
	s := &Strategy{
		intensity:  DefaultIntensity,
		period:     DefaultPeriod,
		scope:      OneScope,
		directives: make(map[string]Directive),
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Intensity returns the maximum number of restarts within Period
func (s *Strategy) Intensity() int {
	return s.intensity
}

// Period returns the rolling restart window
func (s *Strategy) Period() time.Duration {
	return s.period
}

// Scope returns the strategy scope
func (s *Strategy) Scope() Scope {
	return s.scope
}

// Directive returns the directive to apply for err.
// The error and the errors it wraps are matched by concrete type, first match wins.
// When nothing matches, the any-error directive applies and RestartDirective
// is returned when none is set.
func (s *Strategy) Directive(err error) Directive {
	if directive, ok := s.lookup(err); ok {
		return directive
	}
	if directive, ok := s.directives[errorType(new(errors.AnyError))]; ok {
		return directive
	}
	return RestartDirective
}

func (s *Strategy) lookup(err error) (Directive, bool) {
	if err == nil || len(s.directives) == 0 {
		return 0, false
	}

	pending := []error{err}
	for len(pending) > 0 {
		current := pending[0]
		pending = pending[1:]
		if current == nil || isEnvelope(current) {
			continue
		}

		if directive, ok := s.directives[errorType(current)]; ok {
			return directive, true
		}

		switch wrapped := current.(type) {
		case interface{ Unwrap() error }:
			pending = append(pending, wrapped.Unwrap())
		case interface{ Unwrap() []error }:
			pending = append(pending, wrapped.Unwrap()...)
		}
	}
	return 0, false
}

// isEnvelope reports whether err is one of the markers the runtime joins to
// a failure cause. Matching those by type would make any directive keyed on a
// plain errors.New error apply to every failure.
func isEnvelope(err error) bool {
	return err == errors.ErrDeliveryFailure || err == errors.ErrConstructorFailure
}

// errorType returns the string representation of an error's type using reflection
func errorType(err error) string {
	if err == nil {
		return "nil"
	}

	rtype := reflect.TypeOf(err)
	if rtype.Kind() == reflect.Pointer {
		rtype = rtype.Elem()
	}

	return rtype.String()
}
