package flagreg

import "reflect"

// RetiredFilename is the synthetic defining location recorded on
// tombstone descriptors.
const RetiredFilename = "RETIRED"

// retiredFlag is the tombstone variant of a descriptor. It keeps a
// name permanently unusable while staying queryable, so code that once
// treated the name as, say, a boolean can detect a type mismatch
// instead of silently reinterpreting a historical flag.
type retiredFlag struct {
	name string
	typ  reflect.Type

	// Tombstones may carry a heap-held placeholder standing in for the
	// value representation they no longer have. Destroy drops it.
	placeholder any
}

func newRetiredFlag(name string, typ reflect.Type) *retiredFlag {
	return &retiredFlag{name: name, typ: typ}
}

func (f *retiredFlag) Name() string       { return f.name }
func (f *retiredFlag) Filename() string   { return RetiredFilename }
func (f *retiredFlag) Type() reflect.Type { return f.typ }
func (f *retiredFlag) IsRetired() bool    { return true }

// Save implements Flag. Retired flags are excluded from save/restore.
func (f *retiredFlag) Save() State { return nil }

func (f *retiredFlag) Destroy() {
	f.placeholder = nil
}

// Retire installs a tombstone for name with the given declared type.
// Retirement is idempotent: repeated declarations with a matching type
// succeed and leave exactly one tombstone. Retiring a name that is
// already live, or re-retiring with a different type, is a fatal
// conflict. Always returns true otherwise.
func (r *Registry) Retire(name string, typ reflect.Type) bool {
	return r.Register(newRetiredFlag(name, typ))
}

// IsRetired reports whether name is retired. The first return states
// whether the retired flag was declared boolean, which callers use to
// validate historical type assumptions; ok is false when name is
// unknown or live.
func (r *Registry) IsRetired(name string) (isBool, ok bool) {
	flag := r.FindRetired(name)
	if flag == nil {
		return false, false
	}
	return flag.Type() == reflect.TypeOf(false), true
}

// Retire installs a tombstone in the Default registry.
func Retire(name string, typ reflect.Type) bool {
	return Default().Retire(name, typ)
}

// IsRetired queries the Default registry.
func IsRetired(name string) (isBool, ok bool) {
	return Default().IsRetired(name)
}
