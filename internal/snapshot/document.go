// Package snapshot is the boundary between serialized circuits and the
// typed circuit model. Documents mirror the node/edge shape the editor
// produces: a node has an id, a type and a free-form data bag.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a serialized circuit.
type Document struct {
	Nodes []NodeDoc `json:"nodes" yaml:"nodes" validate:"dive"`
	Edges []EdgeDoc `json:"edges" yaml:"edges" validate:"dive"`
}

// NodeDoc is one serialized component. Data carries the kind-specific
// attributes; absent attributes fall back to the variant's defaults.
type NodeDoc struct {
	ID   string   `json:"id" yaml:"id" validate:"required"`
	Type string   `json:"type" yaml:"type" validate:"required,oneof=battery led rocker-switch momentary-switch potentiometer motor microcontroller fuel-gauge wire"`
	Data NodeData `json:"data" yaml:"data"`
}

// NodeData is the union of every kind's attributes. Pointers distinguish
// "absent" from an explicit zero.
type NodeData struct {
	Label     string   `json:"label,omitempty" yaml:"label,omitempty"`
	Role      string   `json:"role,omitempty" yaml:"role,omitempty"`
	IsOn      *bool    `json:"isOn,omitempty" yaml:"isOn,omitempty"`
	IsPressed *bool    `json:"isPressed,omitempty" yaml:"isPressed,omitempty"`
	Value     *float64 `json:"value,omitempty" yaml:"value,omitempty"`
	FuelLevel *float64 `json:"fuelLevel,omitempty" yaml:"fuelLevel,omitempty"`

	// Render state written back by the vehicle propagator.
	IsRunning        *bool    `json:"isRunning,omitempty" yaml:"isRunning,omitempty"`
	Speed            *float64 `json:"speed,omitempty" yaml:"speed,omitempty"`
	Position         string   `json:"position,omitempty" yaml:"position,omitempty" validate:"omitempty,oneof=left center right"`
	ClassName        string   `json:"className,omitempty" yaml:"className,omitempty"`
	IsActive         *bool    `json:"isActive,omitempty" yaml:"isActive,omitempty"`
	ThrottleValue    *float64 `json:"throttleValue,omitempty" yaml:"throttleValue,omitempty"`
	SteeringValue    *float64 `json:"steeringValue,omitempty" yaml:"steeringValue,omitempty"`
	BrakeActive      *bool    `json:"brakeActive,omitempty" yaml:"brakeActive,omitempty"`
	DirectionForward *bool    `json:"directionForward,omitempty" yaml:"directionForward,omitempty"`
}

// EdgeDoc is one serialized wire.
type EdgeDoc struct {
	ID           string `json:"id" yaml:"id" validate:"required"`
	Source       string `json:"source" yaml:"source" validate:"required"`
	Target       string `json:"target" yaml:"target" validate:"required"`
	SourceHandle string `json:"sourceHandle,omitempty" yaml:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty" yaml:"targetHandle,omitempty"`
}

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from a file extension; YAML unless ".json".
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Decode parses data in the given format.
func Decode(data []byte, f Format) (*Document, error) {
	var doc Document
	switch f {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
	return &doc, nil
}

// Load reads and decodes a document file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	doc, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return doc, nil
}
