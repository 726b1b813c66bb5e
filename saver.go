package flagreg

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-flagreg/pkg/activity"
)

// Saver captures the value of every live flag in a registry at one
// point in time and can replay those values later. It never touches
// the registry's descriptor pointers: restore writes values back into
// the original descriptor instances, so references held elsewhere stay
// valid, and flags registered after the capture are unaffected.
//
// The intended shape is scoped:
//
//	s := reg.Capture()
//	defer s.Close() // restores unless Discard ran
type Saver struct {
	id       string
	registry *Registry
	takenAt  time.Time
	states   []savedState

	captured  bool
	restored  bool
	discarded bool
}

type savedState struct {
	name  string
	state State
}

// Capture walks the registry once, holding the lock for the whole
// pass, and collects a capsule from every flag whose Save returns one.
// Retired flags and flags that opt out are skipped. Save
// implementations must not call back into registry-locking operations.
func (r *Registry) Capture() *Saver {
	s := &Saver{
		id:       uuid.NewString(),
		registry: r,
		takenAt:  time.Now(),
	}
	s.capture()
	return s
}

// Capture snapshots the Default registry.
func Capture() *Saver {
	return Default().Capture()
}

func (s *Saver) capture() {
	if s.captured {
		panic("flagreg: saver already captured")
	}
	s.captured = true
	s.registry.Each(func(flag Flag) {
		if state := flag.Save(); state != nil {
			s.states = append(s.states, savedState{name: flag.Name(), state: state})
		}
	})
	s.emit(activity.BuildSaverCapturedEvent)
}

// ID returns the saver's capture identifier.
func (s *Saver) ID() string { return s.id }

// Restore replays every captured capsule into its original descriptor.
// No registry lock is held: restores are independent per descriptor
// and commute, and registration of new names may proceed concurrently.
// Restore after Discard, or a second Restore, is a no-op.
func (s *Saver) Restore() {
	if s.restored || s.discarded {
		return
	}
	s.restored = true
	for _, saved := range s.states {
		saved.state.Restore()
	}
	s.emit(activity.BuildSaverRestoredEvent)
}

// Discard releases the captured baseline without restoring it, for
// callers that captured speculatively and changed their mind.
func (s *Saver) Discard() {
	if s.restored || s.discarded {
		return
	}
	s.discarded = true
	s.states = nil
	s.emit(activity.BuildSaverDiscardedEvent)
}

// Close restores the baseline unless Restore or Discard already ran.
// It exists so a deferred call gives restore-on-every-exit-path
// semantics. Always returns nil.
func (s *Saver) Close() error {
	s.Restore()
	return nil
}

func (s *Saver) emit(build func(activity.FlagEventInput) activity.Event) {
	emitter := s.registry.cfg.emitter
	if !emitter.Enabled() {
		return
	}
	_ = emitter.Emit(context.Background(), build(activity.FlagEventInput{
		SaverID:   s.id,
		FlagCount: len(s.states),
	}))
}
