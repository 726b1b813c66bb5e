package flagreg

import (
	"fmt"
	"reflect"
	"testing"
)

func TestVarReportsIdentity(t *testing.T) {
	v := NewVar("timeout", "net.go", 30)

	if v.Name() != "timeout" || v.Filename() != "net.go" {
		t.Fatalf("unexpected identity: %q %q", v.Name(), v.Filename())
	}
	if v.Type() != reflect.TypeOf(0) {
		t.Fatalf("expected int type token, got %v", v.Type())
	}
	if v.IsRetired() {
		t.Fatalf("a Var is never retired")
	}
	if v.Default() != 30 || v.Get() != 30 {
		t.Fatalf("expected default to seed the current value")
	}
}

func TestVarSetRunsValidator(t *testing.T) {
	v := NewVar("workers", "pool.go", 4, WithValidator(func(n int) error {
		if n <= 0 {
			return fmt.Errorf("must be positive, got %d", n)
		}
		return nil
	}))

	if err := v.Set(8); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v.Get() != 8 {
		t.Fatalf("expected 8, got %d", v.Get())
	}

	err := v.Set(-1)
	if err == nil {
		t.Fatalf("expected validator rejection")
	}
	if v.Get() != 8 {
		t.Fatalf("expected rejected value to leave the flag untouched, got %d", v.Get())
	}
}

func TestVarSaveRestoresIntoSameInstance(t *testing.T) {
	v := NewVar("mode", "app.go", "fast")

	state := v.Save()
	if state == nil {
		t.Fatalf("expected a capsule")
	}
	if err := v.Set("slow"); err != nil {
		t.Fatalf("set: %v", err)
	}

	state.Restore()
	if v.Get() != "fast" {
		t.Fatalf("expected restore to rewind the value, got %q", v.Get())
	}
}

func TestVarRestoreBypassesValidator(t *testing.T) {
	rejectAll := false
	v := NewVar("gate", "app.go", 1, WithValidator(func(int) error {
		if rejectAll {
			return fmt.Errorf("sealed")
		}
		return nil
	}))

	state := v.Save()
	if err := v.Set(2); err != nil {
		t.Fatalf("set: %v", err)
	}

	rejectAll = true
	state.Restore()
	if v.Get() != 1 {
		t.Fatalf("expected restore to succeed regardless of the validator, got %d", v.Get())
	}
}
