package settings

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors for broadcast settings decoding.
var (
	// ErrConfigIncomplete is returned when one or more of the five required
	// settings is missing for an extruder.
	ErrConfigIncomplete = errors.New("settings: extruder configuration incomplete")
)

// ExtruderConfig is the parsed, typed form of one extruder's gradual-flow
// settings.
type ExtruderConfig struct {
	Enabled                   bool
	MaxFlowAcceleration       float64 // um^3/s^2, converted from mm^3/s^2
	Layer0MaxFlowAcceleration float64 // um^3/s^2
	DiscretizationStepSize    float64 // s
	ResetFlowDuration         float64 // s

	// CarryTrailingFlow enables seeding a request's current_flow from the
	// previous request's last non-zero output flow for this (client,
	// extruder), per §9's "surfaced as a configuration toggle, not guessed
	// silently". Defaults to false: each request starts at the first path's
	// own target flow.
	CarryTrailingFlow bool
}

// flowUnitScale converts the broadcast payload's mm^3/s^2 into the um^3/s^2
// units the limiter works in internally, mirroring plugin/settings.h's
// "* 1e9" conversion (mm^3 -> um^3 is a factor of 1e9).
const flowUnitScale = 1e9

// ParseExtruder decodes one extruder's settings map, keyed by short setting
// name (e.g. "gradual_flow_enabled"), into an ExtruderConfig. All five
// recognized keys are required; any missing key is a fatal configuration
// error, per the broadcast payload's per-extruder contract.
func ParseExtruder(raw map[string]string) (ExtruderConfig, error) {
	enabledRaw, hasEnabled := raw["gradual_flow_enabled"]
	accelRaw, hasAccel := raw["max_flow_acceleration"]
	layer0AccelRaw, hasLayer0Accel := raw["layer_0_max_flow_acceleration"]
	stepRaw, hasStep := raw["gradual_flow_discretisation_step_size"]
	resetRaw, hasReset := raw["reset_flow_duration"]

	if !hasEnabled || !hasAccel || !hasLayer0Accel || !hasStep || !hasReset {
		return ExtruderConfig{}, fmt.Errorf(
			"%w: enabled=%t max_flow_acceleration=%t layer_0_max_flow_acceleration=%t gradual_flow_discretisation_step_size=%t reset_flow_duration=%t",
			ErrConfigIncomplete, hasEnabled, hasAccel, hasLayer0Accel, hasStep, hasReset,
		)
	}

	accel, err := strconv.ParseFloat(accelRaw, 64)
	if err != nil {
		return ExtruderConfig{}, fmt.Errorf("settings: max_flow_acceleration: %w", err)
	}
	layer0Accel, err := strconv.ParseFloat(layer0AccelRaw, 64)
	if err != nil {
		return ExtruderConfig{}, fmt.Errorf("settings: layer_0_max_flow_acceleration: %w", err)
	}
	step, err := strconv.ParseFloat(stepRaw, 64)
	if err != nil {
		return ExtruderConfig{}, fmt.Errorf("settings: gradual_flow_discretisation_step_size: %w", err)
	}
	reset, err := strconv.ParseFloat(resetRaw, 64)
	if err != nil {
		return ExtruderConfig{}, fmt.Errorf("settings: reset_flow_duration: %w", err)
	}

	cfg := ExtruderConfig{
		Enabled:                   enabledRaw == "True" || enabledRaw == "true",
		MaxFlowAcceleration:       accel * flowUnitScale,
		Layer0MaxFlowAcceleration: layer0Accel * flowUnitScale,
		DiscretizationStepSize:    step,
		ResetFlowDuration:         reset,
	}

	if carryRaw, ok := raw["gradual_flow_carry_trailing_flow"]; ok {
		cfg.CarryTrailingFlow = carryRaw == "True" || carryRaw == "true"
	}

	return cfg, nil
}

// ParseBroadcast decodes a full broadcast payload: one settings map per
// extruder index, in extruder order.
func ParseBroadcast(perExtruder []map[string]string) ([]ExtruderConfig, error) {
	configs := make([]ExtruderConfig, len(perExtruder))
	for i, raw := range perExtruder {
		cfg, err := ParseExtruder(raw)
		if err != nil {
			return nil, fmt.Errorf("settings: extruder %d: %w", i, err)
		}
		configs[i] = cfg
	}
	return configs, nil
}
