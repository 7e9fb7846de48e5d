// Package cmdline holds this worker's identity constants, shared between
// the --version flag and the settings handshake.
package cmdline

import "fmt"

const (
	// Name is this plugin's identity, matched case-insensitively against
	// the handshake's plugin_name.
	Name = "CuraEngineGradualFlow"
	// Version is this plugin's semantic version, matched exactly against
	// the handshake's plugin version.
	Version = "0.1.0"

	defaultAddress = "localhost"
	defaultPort    = 33800
)

// DefaultAddress is the socket address the worker listens on absent a
// -address flag.
func DefaultAddress() string { return defaultAddress }

// DefaultPort is the socket port the worker listens on absent a -port
// flag.
func DefaultPort() int { return defaultPort }

// VersionString returns the "<name> <version>" string printed by --version.
func VersionString() string {
	return fmt.Sprintf("%s %s", Name, Version)
}
