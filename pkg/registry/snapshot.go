package registry

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// Snapshot is a serialisable dump of reflection data. Hosts write one per
// engine version; the CLI loads it on top of the builtin table.
//
//	host_version = "5.4.4"
//
//	[[class]]
//	name  = "BP_DoorBase_C"
//	path  = "/Game/Doors/BP_DoorBase.BP_DoorBase_C"
//	super = "/Script/Engine.Actor"
//
//	  [[class.functions]]
//	  name  = "OnOpened"
//	  event = true
type Snapshot struct {
	HostVersion string   `toml:"host_version"`
	Classes     []Class  `toml:"class"`
	Enums       []Enum   `toml:"enum"`
	Structs     []Struct `toml:"struct"`
}

// ReadSnapshot decodes a TOML snapshot from r.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if _, err := toml.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode registry snapshot: %w", err)
	}
	return s, nil
}

// LoadSnapshot decodes the TOML snapshot file at path.
func LoadSnapshot(path string) (Snapshot, error) {
	var s Snapshot
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Snapshot{}, fmt.Errorf("load registry snapshot %s: %w", path, err)
	}
	return s, nil
}

// Apply adds every entry of s to m. A non-empty snapshot host version
// replaces the registry's.
func (m *Memory) Apply(s Snapshot) error {
	if s.HostVersion != "" {
		m.version = s.HostVersion
	}
	for _, c := range s.Classes {
		if err := m.AddClass(c); err != nil {
			return fmt.Errorf("snapshot class %q: %w", c.Path, err)
		}
	}
	for _, e := range s.Enums {
		m.AddEnum(e)
	}
	for _, st := range s.Structs {
		m.AddStruct(st)
	}
	return nil
}

// FromSnapshot builds a registry that holds exactly the entries of s.
func FromSnapshot(s Snapshot) (*Memory, error) {
	m := New(s.HostVersion)
	if err := m.Apply(s); err != nil {
		return nil, err
	}
	return m, nil
}
