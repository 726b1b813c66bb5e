package flagreg

import (
	"encoding/json"
	"time"
)

// Manifest records the provenance of one capture: which saver took it,
// when, and which flags contributed a capsule. It is a description,
// not a handle; restoring still goes through the Saver.
type Manifest struct {
	SaverID    string    `json:"saver_id"`
	CapturedAt time.Time `json:"captured_at"`
	Flags      []string  `json:"flags"`
}

// Manifest returns the capture provenance for this saver. The flag
// list preserves capture order (name order). After Discard the list is
// empty.
func (s *Saver) Manifest() Manifest {
	names := make([]string, 0, len(s.states))
	for _, saved := range s.states {
		names = append(names, saved.name)
	}
	return Manifest{
		SaverID:    s.id,
		CapturedAt: s.takenAt,
		Flags:      names,
	}
}

// ToJSON serialises the manifest for logging or transport helpers.
func (m Manifest) ToJSON() ([]byte, error) {
	type alias Manifest
	return json.Marshal(alias(m))
}

// ManifestFromJSON deserialises a payload previously produced by
// ToJSON.
func ManifestFromJSON(payload []byte) (Manifest, error) {
	type alias Manifest
	var m alias
	if err := json.Unmarshal(payload, &m); err != nil {
		return Manifest{}, err
	}
	return Manifest(m), nil
}
