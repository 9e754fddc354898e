// Package validate checks circuit topology and derives component state.
//
// Every function here is pure: it reads a circuit.Graph snapshot, never
// mutates it, and reports rule violations as data in the result rather than
// as Go errors.
package validate

import (
	"fmt"

	"github.com/gyaneshwarpardhi/circuitlab/internal/circuit"
)

// Variant selects the rule set applied to a snapshot.
type Variant string

const (
	VariantLED     Variant = "led"
	VariantVehicle Variant = "vehicle"
)

// ParseVariant maps a name to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantLED, VariantVehicle:
		return Variant(s), nil
	}
	return "", fmt.Errorf("unknown variant %q (want %q or %q)", s, VariantLED, VariantVehicle)
}

// CircuitResult is the outcome of the LED rule set.
type CircuitResult struct {
	IsValid           bool           `json:"isValid" yaml:"isValid"`
	Errors            []string       `json:"errors" yaml:"errors"`
	CompletedCircuits []circuit.Path `json:"completedCircuits" yaml:"completedCircuits"`
}

// DriveStatus is the derived state of the drive motor.
type DriveStatus struct {
	IsRunning bool              `json:"isRunning" yaml:"isRunning"`
	Speed     float64           `json:"speed" yaml:"speed"`
	Direction circuit.Direction `json:"direction" yaml:"direction"`
}

// SteeringStatus is the derived state of the steering motor.
type SteeringStatus struct {
	IsRunning bool             `json:"isRunning" yaml:"isRunning"`
	Position  circuit.Position `json:"position" yaml:"position"`
}

// VehicleResult extends CircuitResult with the vehicle status fields.
type VehicleResult struct {
	CircuitResult       `yaml:",inline"`
	PowerStatus         bool           `json:"powerStatus" yaml:"powerStatus"`
	DriveMotorStatus    DriveStatus    `json:"driveMotorStatus" yaml:"driveMotorStatus"`
	SteeringMotorStatus SteeringStatus `json:"steeringMotorStatus" yaml:"steeringMotorStatus"`
	BrakeStatus         bool           `json:"brakeStatus" yaml:"brakeStatus"`
	FuelLevel           float64        `json:"fuelLevel" yaml:"fuelLevel"`
}

// errorList keeps errors in insertion order and drops repeats.
type errorList []string

func (l *errorList) add(msg string) {
	for _, e := range *l {
		if e == msg {
			return
		}
	}
	*l = append(*l, msg)
}

// anyContains reports whether some circuit holds a node matching pred.
func anyContains(g *circuit.Graph, circuits []circuit.Path, pred func(circuit.Node) bool) bool {
	for _, c := range circuits {
		for _, id := range c {
			if n := g.Node(id); n != nil && pred(n) {
				return true
			}
		}
	}
	return false
}
