// Package settings parses the broadcast-slot settings payload into the
// per-extruder configuration the adapter needs, and validates the
// handshake slot against this plugin's identity.
package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// Identity names a plugin for handshake validation and settings-key
// construction.
type Identity struct {
	Name    string // stored as given; compared case-insensitively and lowercased in Key
	Major   int
	Minor   int
	Patch   int
}

// NewIdentity parses a "major.minor.patch" semantic version string into an
// Identity for name, mirroring plugin/settings.h's use of semver::from_string
// to build the broadcast settings key's version component.
func NewIdentity(name, version string) (Identity, error) {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) != 3 {
		return Identity{}, fmt.Errorf("settings: %q is not a major.minor.patch version", version)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return Identity{}, fmt.Errorf("settings: invalid major version %q: %w", parts[0], err)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return Identity{}, fmt.Errorf("settings: invalid minor version %q: %w", parts[1], err)
	}
	patch, err := strconv.Atoi(parts[2])
	if err != nil {
		return Identity{}, fmt.Errorf("settings: invalid patch version %q: %w", parts[2], err)
	}
	return Identity{Name: name, Major: major, Minor: minor, Patch: patch}, nil
}

// Key builds the broadcast settings key this plugin expects for a given
// short setting name, e.g. "max_flow_acceleration" becomes
// "_plugin__gradualflow__1_0_0__max_flow_acceleration".
func (id Identity) Key(shortKey string) string {
	return fmt.Sprintf("_plugin__%s__%d_%d_%d__%s", strings.ToLower(id.Name), id.Major, id.Minor, id.Patch, shortKey)
}

// ValidatePlugin reports whether a handshake request names this plugin,
// case-insensitively on the name, exactly on the version.
func (id Identity) ValidatePlugin(requestPluginName string, major, minor, patch int) bool {
	return strings.EqualFold(requestPluginName, id.Name) && major == id.Major && minor == id.Minor && patch == id.Patch
}
