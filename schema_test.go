package flagreg

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestSchemaListsFlagsInNameOrder(t *testing.T) {
	reg, _, _ := newTestRegistry()
	reg.Register(NewVar("workers", "pool.go", 4))
	reg.Register(NewVar("verbose", "log.go", false))
	reg.Retire("legacy", reflect.TypeOf(""))

	doc := reg.Schema()
	if doc.Format != SchemaFormatDescriptors {
		t.Fatalf("unexpected format %q", doc.Format)
	}
	want := []FlagDescriptor{
		{Name: "legacy", Type: "string", Filename: RetiredFilename, Retired: true},
		{Name: "verbose", Type: "bool", Filename: "log.go", Retired: false},
		{Name: "workers", Type: "int", Filename: "pool.go", Retired: false},
	}
	if !reflect.DeepEqual(doc.Flags, want) {
		t.Fatalf("unexpected descriptors:\n got %+v\nwant %+v", doc.Flags, want)
	}
}

func TestSchemaOnEmptyRegistry(t *testing.T) {
	reg, _, _ := newTestRegistry()

	doc := reg.Schema()
	if len(doc.Flags) != 0 {
		t.Fatalf("expected no descriptors, got %+v", doc.Flags)
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(payload) != `{"format":"descriptors","flags":[]}` {
		t.Fatalf("unexpected payload %s", payload)
	}
}
