package validate

import "github.com/gyaneshwarpardhi/circuitlab/internal/circuit"

// ClassMotorRunning is the presentation tag set on running motors.
const ClassMotorRunning = "motor-running"

// Microcontroller display values for each steering position.
var steeringDisplay = map[circuit.Position]float64{
	circuit.Left:   25,
	circuit.Center: 50,
	circuit.Right:  75,
}

// UpdateVehicleNodes folds a vehicle result back onto the node list for
// re-rendering. The input is not modified. Every returned node is a fresh
// value, even when nothing about it changed, so identity-based change
// detection sees every pass as a change.
func UpdateVehicleNodes(nodes []circuit.Node, res VehicleResult) []circuit.Node {
	out := make([]circuit.Node, 0, len(nodes))
	for _, n := range nodes {
		switch v := n.(type) {
		case *circuit.Microcontroller:
			mc := *v
			mc.IsActive = res.PowerStatus
			mc.ThrottleValue = res.DriveMotorStatus.Speed
			mc.SteeringValue = steeringDisplay[res.SteeringMotorStatus.Position]
			mc.BrakeActive = res.BrakeStatus
			mc.FuelLevel = res.FuelLevel
			mc.DirectionForward = res.DriveMotorStatus.Direction == circuit.Forward
			out = append(out, &mc)
		case *circuit.Motor:
			m := *v
			switch m.Role {
			case circuit.RoleDrive:
				m.IsRunning = res.DriveMotorStatus.IsRunning
				m.Speed = res.DriveMotorStatus.Speed
				m.ClassName = motorClass(m.IsRunning)
			case circuit.RoleSteering:
				m.IsRunning = res.SteeringMotorStatus.IsRunning
				m.Position = res.SteeringMotorStatus.Position
				m.ClassName = motorClass(m.IsRunning)
			}
			out = append(out, &m)
		default:
			out = append(out, circuit.Clone(n))
		}
	}
	return out
}

func motorClass(running bool) string {
	if running {
		return ClassMotorRunning
	}
	return ""
}
