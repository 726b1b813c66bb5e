package flagreg

import "fmt"

// ConflictError describes a registration collision between a resident
// descriptor and an incoming one for the same name. Every conflict is
// fatal by contract; the error exists so the diagnostic carries
// structure before the registry terminates the process.
type ConflictError struct {
	Name   string
	Detail string
}

func (e *ConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("flagreg: flag %q %s", e.Name, e.Detail)
}

// resolveConflict applies the registration merge policy to a name
// collision. A nil return means the collision was absorbed (both
// descriptors retired: registration is idempotent and next was
// destroyed). Any non-nil return is a fatal conflict; next has not
// been stored and the caller must not keep it.
func resolveConflict(resident, next Flag) *ConflictError {
	if next.IsRetired() != resident.IsRetired() {
		definedIn := next.Filename()
		if next.IsRetired() {
			definedIn = resident.Filename()
		}
		return &ConflictError{
			Name:   next.Name(),
			Detail: fmt.Sprintf("is retired but was defined normally in file %q", definedIn),
		}
	}
	if next.Type() != resident.Type() {
		return &ConflictError{
			Name: next.Name(),
			Detail: fmt.Sprintf(
				"was defined more than once with differing types: %s in file %q and %s in file %q",
				resident.Type(), resident.Filename(), next.Type(), next.Filename()),
		}
	}
	if resident.IsRetired() {
		// Retirement is declared wherever the name was used, so
		// repeated tombstones are expected. Keep the resident one.
		next.Destroy()
		return nil
	}
	if resident.Filename() != next.Filename() {
		return &ConflictError{
			Name: next.Name(),
			Detail: fmt.Sprintf("was defined more than once, in files %q and %q",
				resident.Filename(), next.Filename()),
		}
	}
	return &ConflictError{
		Name: next.Name(),
		Detail: fmt.Sprintf(
			"in file %q was registered twice through different code paths; "+
				"one possibility is that the file is linked both statically and dynamically into this executable",
			next.Filename()),
	}
}
