package flagreg

// SchemaFormat identifies the representation a schema document
// encodes.
type SchemaFormat string

// SchemaFormatDescriptors represents the flattened flag descriptors.
const SchemaFormatDescriptors SchemaFormat = "descriptors"

// FlagDescriptor describes one registered flag's identity.
type FlagDescriptor struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Filename string `json:"filename"`
	Retired  bool   `json:"retired"`
}

// SchemaDocument is a point-in-time catalog of every registered flag,
// tombstones included, in name order. Values are deliberately absent;
// the catalog describes identity only.
type SchemaDocument struct {
	Format SchemaFormat     `json:"format"`
	Flags  []FlagDescriptor `json:"flags"`
}

// Schema generates the registry's catalog document.
func (r *Registry) Schema() SchemaDocument {
	descriptors := []FlagDescriptor{}
	r.Each(func(flag Flag) {
		descriptors = append(descriptors, FlagDescriptor{
			Name:     flag.Name(),
			Type:     flag.Type().String(),
			Filename: flag.Filename(),
			Retired:  flag.IsRetired(),
		})
	})
	return SchemaDocument{
		Format: SchemaFormatDescriptors,
		Flags:  descriptors,
	}
}
