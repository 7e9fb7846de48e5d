// Package adapter reconstructs polylines from a wire request, runs them
// through the limiter, and re-serializes the result, per one request at a
// time.
package adapter

import (
	"errors"

	"curaenginegradualflow/internal/settings"
)

// ErrNoConfig is returned when a request names a (client, extruder) pair
// this worker has no broadcast settings for.
var ErrNoConfig = errors.New("adapter: no configuration for client/extruder")

// ConfigKey identifies one extruder's settings within one slicer client.
type ConfigKey struct {
	ClientID   string
	ExtruderNr int
}

// ConfigTable holds the most recently broadcast settings.ExtruderConfig per
// (client, extruder). It is populated by the server on each broadcast slot
// call and read by the adapter on every modify call; callers are
// responsible for synchronizing concurrent access.
type ConfigTable map[ConfigKey]settings.ExtruderConfig

// Set installs cfg for (clientID, extruderNr).
func (t ConfigTable) Set(clientID string, extruderNr int, cfg settings.ExtruderConfig) {
	t[ConfigKey{ClientID: clientID, ExtruderNr: extruderNr}] = cfg
}

// Lookup returns the config for (clientID, extruderNr), or ErrNoConfig.
func (t ConfigTable) Lookup(clientID string, extruderNr int) (settings.ExtruderConfig, error) {
	cfg, ok := t[ConfigKey{ClientID: clientID, ExtruderNr: extruderNr}]
	if !ok {
		return settings.ExtruderConfig{}, ErrNoConfig
	}
	return cfg, nil
}
