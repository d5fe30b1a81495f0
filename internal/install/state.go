// SPDX-License-Identifier: MPL-2.0

package install

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

type (
	// State is the persisted registry of installed binaries and the active
	// default version per binary. It is loaded from and saved to a TOML
	// file under the data directory.
	State struct {
		Binaries []InstalledBinary    `toml:"binaries,omitempty"`
		Defaults map[string]Selection `toml:"defaults,omitempty"`
	}

	// InstalledBinary is one installed artifact on disk.
	InstalledBinary struct {
		Name    string `toml:"name"`
		Network string `toml:"network"`
		Version string `toml:"version"`
		Debug   bool   `toml:"debug,omitempty"`
		Path    string `toml:"path"`
	}

	// Selection pins the default version of a binary.
	Selection struct {
		Network string `toml:"network"`
		Version string `toml:"version"`
		Debug   bool   `toml:"debug,omitempty"`
	}

	// BinaryVersion is one display row for the installed-versions table.
	BinaryVersion struct {
		BinaryName     string
		NetworkRelease string
		Version        string
		Debug          bool
		Default        bool
	}
)

// ErrNotInstalled is returned when an operation names a binary or version
// that is not present in the state.
var ErrNotInstalled = errors.New("binary not installed")

// LoadState reads the state file at path. A missing file yields an empty
// state rather than an error, so first runs need no setup step.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{Defaults: map[string]Selection{}}, nil
		}
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	var s State
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing state file %s: %w", path, err)
	}
	if s.Defaults == nil {
		s.Defaults = map[string]Selection{}
	}
	return &s, nil
}

// Save writes the state to path atomically (temp file + rename in the same
// directory).
func (s *State) Save(path string) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.toml")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing state file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}

// Add records an installed binary, replacing any existing entry with the
// same name, network, version, and debug flag.
func (s *State) Add(b InstalledBinary) {
	for i := range s.Binaries {
		if s.Binaries[i].sameVersion(b) {
			s.Binaries[i] = b
			return
		}
	}
	s.Binaries = append(s.Binaries, b)
}

// Find returns the entry matching name, network, and version.
func (s *State) Find(name, network, version string, debug bool) (*InstalledBinary, bool) {
	for i := range s.Binaries {
		b := &s.Binaries[i]
		if b.Name == name && b.Network == network && b.Version == version && b.Debug == debug {
			return b, true
		}
	}
	return nil, false
}

// ForBinary returns all installed entries for one binary name.
func (s *State) ForBinary(name string) []InstalledBinary {
	var out []InstalledBinary
	for _, b := range s.Binaries {
		if b.Name == name {
			out = append(out, b)
		}
	}
	return out
}

// Remove drops entries for the named binary. An empty version removes
// every installed version; otherwise only the exact version goes. The
// default selection is cleared when it pointed at a removed entry.
// Returns the removed entries.
func (s *State) Remove(name, version string) []InstalledBinary {
	var kept, removed []InstalledBinary
	for _, b := range s.Binaries {
		if b.Name == name && (version == "" || b.Version == version) {
			removed = append(removed, b)
			continue
		}
		kept = append(kept, b)
	}
	s.Binaries = kept

	if sel, ok := s.Defaults[name]; ok {
		for _, b := range removed {
			if b.Network == sel.Network && b.Version == sel.Version {
				delete(s.Defaults, name)
				break
			}
		}
	}

	return removed
}

// SetDefault records the active default version for a binary. The version
// must already be installed.
func (s *State) SetDefault(name, network, version string, debug bool) error {
	if _, ok := s.Find(name, network, version, debug); !ok {
		return fmt.Errorf("%s %s-%s: %w", name, network, version, ErrNotInstalled)
	}
	s.Defaults[name] = Selection{Network: network, Version: version, Debug: debug}
	return nil
}

// DefaultFor returns the installed entry currently selected as the default
// for the named binary.
func (s *State) DefaultFor(name string) (*InstalledBinary, bool) {
	sel, ok := s.Defaults[name]
	if !ok {
		return nil, false
	}
	return s.Find(name, sel.Network, sel.Version, sel.Debug)
}

// Rows produces display rows sorted by binary name, then network, then
// version, with the default selection marked.
func (s *State) Rows() []BinaryVersion {
	rows := make([]BinaryVersion, 0, len(s.Binaries))
	for _, b := range s.Binaries {
		def := false
		if sel, ok := s.Defaults[b.Name]; ok {
			def = sel.Network == b.Network && sel.Version == b.Version && sel.Debug == b.Debug
		}
		rows = append(rows, BinaryVersion{
			BinaryName:     b.Name,
			NetworkRelease: b.Network,
			Version:        b.Version,
			Debug:          b.Debug,
			Default:        def,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].BinaryName != rows[j].BinaryName {
			return rows[i].BinaryName < rows[j].BinaryName
		}
		if rows[i].NetworkRelease != rows[j].NetworkRelease {
			return rows[i].NetworkRelease < rows[j].NetworkRelease
		}
		return rows[i].Version < rows[j].Version
	})

	return rows
}

func (b InstalledBinary) sameVersion(other InstalledBinary) bool {
	return b.Name == other.Name &&
		b.Network == other.Network &&
		b.Version == other.Version &&
		b.Debug == other.Debug
}
