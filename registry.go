package flagreg

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/goliatone/go-flagreg/pkg/activity"
)

// Option configures a Registry on construction.
type Option func(*registryConfig)

type registryConfig struct {
	reporter     Reporter
	exit         func(code int)
	evaluator    Evaluator
	programCache ProgramCache
	functions    *FunctionRegistry
	evalLogger   EvaluatorLogger
	emitter      *activity.Emitter
}

func applyOptions(opts []Option) registryConfig {
	cfg := registryConfig{
		reporter: stderrReporter{},
		exit:     os.Exit,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithActivityHooks attaches lifecycle hooks notified on registration,
// retirement, and saver capture/restore/discard.
func WithActivityHooks(hooks activity.Hooks, config activity.Config) Option {
	return func(cfg *registryConfig) {
		cfg.emitter = activity.NewEmitter(hooks, config)
	}
}

// Registry is a mutex-guarded, name-keyed store of flag descriptors.
// It exclusively owns every descriptor registered into it. If a method
// is named FooUnlocked, the caller must hold the registry lock;
// otherwise the caller must not hold it.
type Registry struct {
	cfg registryConfig

	mu    sync.Mutex
	flags map[string]Flag
}

// New constructs an empty registry. Most programs use the process-wide
// Default registry instead and only build their own in tests or when
// isolating flag namespaces.
func New(opts ...Option) *Registry {
	return &Registry{
		cfg:   applyOptions(opts),
		flags: make(map[string]Flag),
	}
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	return New()
})

// Default returns the lazily created process-wide registry. It is
// never torn down during normal operation; Close it only at process
// exit, if at all.
func Default() *Registry {
	return defaultRegistry()
}

// Lock acquires the registry lock for use with the Unlocked variants.
func (r *Registry) Lock() { r.mu.Lock() }

// Unlock releases the registry lock.
func (r *Registry) Unlock() { r.mu.Unlock() }

// Register stores flag, taking ownership of it. When the name is free
// the flag is inserted and Register returns true. On a collision the
// merge policy runs: matching retired tombstones are absorbed
// idempotently (still true); every other conflict is reported as fatal
// and the process terminates. Register never returns false unless a
// test exit hook suppressed termination.
func (r *Registry) Register(flag Flag) bool {
	if flag == nil {
		r.fatal("flagreg: cannot register a nil flag")
		return false
	}
	if flag.Name() == "" {
		r.fatal("flagreg: cannot register a flag with an empty name")
		return false
	}

	r.mu.Lock()
	resident, exists := r.flags[flag.Name()]
	if !exists {
		r.flags[flag.Name()] = flag
		r.mu.Unlock()
		r.emitRegistered(flag)
		return true
	}
	conflict := resolveConflict(resident, flag)
	r.mu.Unlock()

	if conflict == nil {
		return true
	}
	r.fatal(conflict.Error())
	return false
}

// Find returns the descriptor registered under name, or nil. Looking
// up a retired name succeeds but emits a non-fatal usage warning; use
// FindRetired to query tombstones silently.
func (r *Registry) Find(name string) Flag {
	if name == "" {
		return nil
	}
	r.mu.Lock()
	flag := r.flags[name]
	r.mu.Unlock()

	if flag != nil && flag.IsRetired() {
		r.cfg.reporter.ReportUsage(fmt.Sprintf("accessing retired flag %q", name), false)
	}
	return flag
}

// FindRetired returns the tombstone registered under name, or nil when
// the name is unknown or still live. It never warns.
func (r *Registry) FindRetired(name string) Flag {
	if name == "" {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	flag := r.flags[name]
	if flag == nil || !flag.IsRetired() {
		return nil
	}
	return flag
}

// Each acquires the registry lock and invokes visitor for every
// descriptor, retired or not, in name order. The visitor must not call
// back into locking registry operations; the lock is not reentrant.
func (r *Registry) Each(visitor func(Flag)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.EachUnlocked(visitor)
}

// EachUnlocked is Each for callers that already hold the registry
// lock, so a single pass can run without reacquiring it.
func (r *Registry) EachUnlocked(visitor func(Flag)) {
	names := make([]string, 0, len(r.flags))
	for name := range r.flags {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		visitor(r.flags[name])
	}
}

// Len returns the number of registered descriptors, tombstones
// included.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flags)
}

// Close destroys every owned descriptor and empties the registry.
// Destruction order is unspecified; descriptors do not depend on each
// other.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, flag := range r.flags {
		flag.Destroy()
	}
	r.flags = make(map[string]Flag)
	return nil
}

func (r *Registry) fatal(message string) {
	r.cfg.reporter.ReportUsage(message, true)
	r.cfg.exit(1)
}

func (r *Registry) emitRegistered(flag Flag) {
	if !r.cfg.emitter.Enabled() {
		return
	}
	input := activity.FlagEventInput{
		FlagName: flag.Name(),
		Filename: flag.Filename(),
		TypeName: flag.Type().String(),
		Retired:  flag.IsRetired(),
	}
	event := activity.BuildFlagRegisteredEvent(input)
	if flag.IsRetired() {
		event = activity.BuildFlagRetiredEvent(input)
	}
	_ = r.cfg.emitter.Emit(context.Background(), event)
}

// RegisterFlag stores flag in the Default registry. See
// Registry.Register for the conflict contract.
func RegisterFlag(flag Flag) bool {
	return Default().Register(flag)
}

// FindFlag looks name up in the Default registry.
func FindFlag(name string) Flag {
	return Default().Find(name)
}

// FindRetiredFlag looks the tombstone for name up in the Default
// registry.
func FindRetiredFlag(name string) Flag {
	return Default().FindRetired(name)
}

// EachFlag enumerates the Default registry in name order.
func EachFlag(visitor func(Flag)) {
	Default().Each(visitor)
}
