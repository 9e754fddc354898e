package validate

import "github.com/gyaneshwarpardhi/circuitlab/internal/circuit"

const (
	ErrNoMicrocontroller = "Circuit requires a microcontroller"
	ErrNoDriveMotor      = "Circuit requires a drive motor"
	ErrNoSteeringMotor   = "Circuit requires a steering motor"
	ErrNoThrottlePot     = "Circuit requires a throttle potentiometer"
	ErrNoSteeringPot     = "Circuit requires a steering potentiometer"
	ErrNoBrakeSwitch     = "Circuit requires a brake switch"
	ErrNoDirectionSwitch = "Circuit requires a direction switch"
	ErrNoPowerSwitch     = "Circuit requires a power switch"
	ErrNoFuelGauge       = "Circuit requires a fuel gauge"
)

// Steering potentiometer readings below leftBelow steer left, above
// rightAbove steer right; the band between is center, inclusive.
const (
	leftBelow  = 40
	rightAbove = 60
)

// inventory groups the vehicle's components by kind and role, in input order.
type inventory struct {
	batteries        []*circuit.Battery
	microcontrollers []*circuit.Microcontroller
	driveMotors      []*circuit.Motor
	steeringMotors   []*circuit.Motor
	throttlePots     []*circuit.Potentiometer
	steeringPots     []*circuit.Potentiometer
	brakes           []*circuit.MomentarySwitch
	directionSwitch  []*circuit.RockerSwitch
	powerSwitch      []*circuit.RockerSwitch
	fuelGauges       []*circuit.FuelGauge
}

func takeInventory(g *circuit.Graph) *inventory {
	inv := &inventory{}
	for _, n := range g.Nodes() {
		switch v := n.(type) {
		case *circuit.Battery:
			inv.batteries = append(inv.batteries, v)
		case *circuit.Microcontroller:
			inv.microcontrollers = append(inv.microcontrollers, v)
		case *circuit.Motor:
			switch v.Role {
			case circuit.RoleDrive:
				inv.driveMotors = append(inv.driveMotors, v)
			case circuit.RoleSteering:
				inv.steeringMotors = append(inv.steeringMotors, v)
			}
		case *circuit.Potentiometer:
			switch v.Role {
			case circuit.RoleThrottle:
				inv.throttlePots = append(inv.throttlePots, v)
			case circuit.RoleSteering:
				inv.steeringPots = append(inv.steeringPots, v)
			}
		case *circuit.MomentarySwitch:
			inv.brakes = append(inv.brakes, v)
		case *circuit.RockerSwitch:
			switch v.Role {
			case circuit.RoleDirection:
				inv.directionSwitch = append(inv.directionSwitch, v)
			case circuit.RolePower:
				inv.powerSwitch = append(inv.powerSwitch, v)
			}
		case *circuit.FuelGauge:
			inv.fuelGauges = append(inv.fuelGauges, v)
		case *circuit.LED, *circuit.Wire:
			// Not part of the vehicle inventory; may still carry current.
		}
	}
	return inv
}

// check records one error per missing kind. The checks are independent.
func (inv *inventory) check(errs *errorList) {
	required := []struct {
		present bool
		msg     string
	}{
		{len(inv.batteries) > 0, ErrNoBattery},
		{len(inv.microcontrollers) > 0, ErrNoMicrocontroller},
		{len(inv.driveMotors) > 0, ErrNoDriveMotor},
		{len(inv.steeringMotors) > 0, ErrNoSteeringMotor},
		{len(inv.throttlePots) > 0, ErrNoThrottlePot},
		{len(inv.steeringPots) > 0, ErrNoSteeringPot},
		{len(inv.brakes) > 0, ErrNoBrakeSwitch},
		{len(inv.directionSwitch) > 0, ErrNoDirectionSwitch},
		{len(inv.powerSwitch) > 0, ErrNoPowerSwitch},
		{len(inv.fuelGauges) > 0, ErrNoFuelGauge},
	}
	for _, r := range required {
		if !r.present {
			errs.add(r.msg)
		}
	}
}

// returnSources lists the components that need a ground path to a battery.
func (inv *inventory) returnSources() []circuit.Node {
	var out []circuit.Node
	for _, m := range inv.driveMotors {
		out = append(out, m)
	}
	for _, m := range inv.steeringMotors {
		out = append(out, m)
	}
	for _, p := range inv.throttlePots {
		out = append(out, p)
	}
	for _, p := range inv.steeringPots {
		out = append(out, p)
	}
	for _, b := range inv.brakes {
		out = append(out, b)
	}
	for _, mc := range inv.microcontrollers {
		out = append(out, mc)
	}
	for _, f := range inv.fuelGauges {
		out = append(out, f)
	}
	return out
}

// Vehicle applies the vehicle rule set and, when the circuit is valid and
// energised, derives drive, steering, brake and fuel state.
//
// Power reaches the first microcontroller through the first power switch, in
// input order, that lies on a discovered battery→microcontroller path. The
// vehicle is energised when that switch is on for any battery; a path without
// a power switch leaves PowerStatus false. Ground paths are recorded
// in CompletedCircuits but never gate IsValid.
func Vehicle(g *circuit.Graph) VehicleResult {
	var errs errorList
	res := VehicleResult{
		CircuitResult: CircuitResult{Errors: []string{}, CompletedCircuits: []circuit.Path{}},
		DriveMotorStatus: DriveStatus{
			Direction: circuit.Forward,
		},
		SteeringMotorStatus: SteeringStatus{
			Position: circuit.Center,
		},
		FuelLevel: circuit.NewFuelGauge("").FuelLevel,
	}

	inv := takeInventory(g)
	inv.check(&errs)

	for _, b := range inv.batteries {
		if len(inv.microcontrollers) > 0 {
			mc := inv.microcontrollers[0]
			if p, ok := circuit.FindPath(g, b.ID(), mc.ID(), circuit.PowerEdges); ok {
				res.CompletedCircuits = append(res.CompletedCircuits, p)
				if inv.switchedOn(p) {
					res.PowerStatus = true
				}
			}
		}
		for _, c := range inv.returnSources() {
			if p, ok := circuit.FindPath(g, c.ID(), b.ID(), circuit.GroundEdges); ok {
				res.CompletedCircuits = append(res.CompletedCircuits, p)
			}
		}
	}

	if errs != nil {
		res.Errors = errs
	}
	res.IsValid = len(res.CompletedCircuits) > 0 && len(res.Errors) == 0

	if res.IsValid && res.PowerStatus {
		inv.derive(&res)
	}
	return res
}

// switchedOn reports the state of the first power switch, in input order,
// that lies on path. A path without a power switch is not switched on.
func (inv *inventory) switchedOn(p circuit.Path) bool {
	for _, sw := range inv.powerSwitch {
		if p.Contains(sw.ID()) {
			return sw.IsOn
		}
	}
	return false
}

func (inv *inventory) derive(res *VehicleResult) {
	brake := first(inv.brakes, circuit.NewMomentarySwitch(""))
	throttle := first(inv.throttlePots, circuit.NewPotentiometer("", circuit.RoleThrottle))
	direction := first(inv.directionSwitch, circuit.NewRockerSwitch("", circuit.RoleDirection))
	steering := first(inv.steeringPots, circuit.NewPotentiometer("", circuit.RoleSteering))
	fuel := first(inv.fuelGauges, circuit.NewFuelGauge(""))

	if len(inv.driveMotors) > 0 {
		res.BrakeStatus = brake.IsPressed
		speed := throttle.Value
		if brake.IsPressed {
			speed = 0
		}
		dir := circuit.Forward
		if !direction.IsOn {
			dir = circuit.Reverse
		}
		res.DriveMotorStatus = DriveStatus{
			IsRunning: throttle.Value > 0 && !brake.IsPressed,
			Speed:     speed,
			Direction: dir,
		}
	}

	if len(inv.steeringMotors) > 0 {
		res.SteeringMotorStatus = SteeringStatus{
			IsRunning: true,
			Position:  SteeringPosition(steering.Value),
		}
	}

	if len(inv.fuelGauges) > 0 {
		res.FuelLevel = fuel.FuelLevel
	}
}

// SteeringPosition buckets a steering potentiometer reading.
func SteeringPosition(value float64) circuit.Position {
	switch {
	case value < leftBelow:
		return circuit.Left
	case value > rightAbove:
		return circuit.Right
	}
	return circuit.Center
}

func first[T any](items []T, fallback T) T {
	if len(items) > 0 {
		return items[0]
	}
	return fallback
}
