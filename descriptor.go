package flagreg

import (
	"fmt"
	"reflect"
	"sync"
)

// Flag is the registry's view of one named, typed configuration entry.
// The registry treats the value representation as opaque; it only relies
// on the identity accessors and the Save/Destroy capabilities.
type Flag interface {
	// Name returns the unique registry key for this flag.
	Name() string
	// Filename reports where the flag was defined. Two registrations of
	// the same name and type are considered duplicates of one another
	// only when their filenames compare equal as strings.
	Filename() string
	// Type returns the flag's type token. Flags registered under the
	// same name must agree on it.
	Type() reflect.Type
	// IsRetired reports whether this descriptor is a retirement
	// tombstone rather than a live flag.
	IsRetired() bool
	// Save captures the current value into a restorable capsule. A nil
	// return opts the flag out of snapshots; retired flags always
	// return nil. Save is invoked while the registry lock is held and
	// must not call back into registry operations.
	Save() State
	// Destroy releases any resources the descriptor holds. The registry
	// owns every registered descriptor and calls Destroy on each when
	// it is closed, and on duplicates it rejects without keeping.
	Destroy()
}

// State is a self-contained copy of one flag's value at capture time.
type State interface {
	// Restore writes the captured value back into the descriptor the
	// capsule was taken from. Restore runs without the registry lock.
	Restore()
}

// VarOption configures a Var on construction.
type VarOption[T any] func(*Var[T])

// WithValidator installs a check applied by Set. Restores bypass it: a
// captured value was already accepted once.
func WithValidator[T any](fn func(T) error) VarOption[T] {
	return func(v *Var[T]) {
		v.validate = fn
	}
}

// Var is the built-in Flag implementation: a guarded typed cell holding
// a current value and a default. External code may implement Flag
// directly; Var covers the common case.
type Var[T any] struct {
	name     string
	filename string
	validate func(T) error

	mu    sync.Mutex
	value T
	def   T
}

// NewVar constructs a Var with def as both the default and the current
// value. It does not register the flag; pass the result to
// RegisterFlag or Registry.Register.
func NewVar[T any](name, filename string, def T, opts ...VarOption[T]) *Var[T] {
	v := &Var[T]{
		name:     name,
		filename: filename,
		value:    def,
		def:      def,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Name implements Flag.
func (v *Var[T]) Name() string { return v.name }

// Filename implements Flag.
func (v *Var[T]) Filename() string { return v.filename }

// Type implements Flag.
func (v *Var[T]) Type() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

// IsRetired implements Flag. A Var is always live.
func (v *Var[T]) IsRetired() bool { return false }

// Get returns the current value.
func (v *Var[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

// Default returns the value the flag was constructed with.
func (v *Var[T]) Default() T {
	return v.def
}

// Set replaces the current value after running the validator when one
// is configured.
func (v *Var[T]) Set(value T) error {
	if v.validate != nil {
		if err := v.validate(value); err != nil {
			return fmt.Errorf("flagreg: flag %q: %w", v.name, err)
		}
	}
	v.mu.Lock()
	v.value = value
	v.mu.Unlock()
	return nil
}

// Save implements Flag. The capsule holds a copy of the current value
// and restores it into this same Var instance.
func (v *Var[T]) Save() State {
	v.mu.Lock()
	current := v.value
	v.mu.Unlock()
	return &varState[T]{target: v, value: current}
}

// Destroy implements Flag. A Var holds no resources beyond its value.
func (v *Var[T]) Destroy() {}

type varState[T any] struct {
	target *Var[T]
	value  T
}

func (s *varState[T]) Restore() {
	s.target.mu.Lock()
	s.target.value = s.value
	s.target.mu.Unlock()
}
