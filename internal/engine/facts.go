package engine

import "github.com/gyaneshwarpardhi/circuitlab/internal/goal"

// Facts flattens an outcome into the names goals are written against.
//
//	valid, errors, circuits          every variant
//	led.on                           led
//	power, brake, fuel,
//	drive.running, drive.speed, drive.direction,
//	steering.running, steering.position  vehicle
func Facts(o *Outcome) goal.Facts {
	f := goal.Facts{}
	switch {
	case o.Vehicle != nil:
		v := o.Vehicle
		f["valid"] = v.IsValid
		f["errors"] = len(v.Errors)
		f["circuits"] = len(v.CompletedCircuits)
		f["power"] = v.PowerStatus
		f["brake"] = v.BrakeStatus
		f["fuel"] = v.FuelLevel
		f["drive.running"] = v.DriveMotorStatus.IsRunning
		f["drive.speed"] = v.DriveMotorStatus.Speed
		f["drive.direction"] = string(v.DriveMotorStatus.Direction)
		f["steering.running"] = v.SteeringMotorStatus.IsRunning
		f["steering.position"] = string(v.SteeringMotorStatus.Position)
	case o.Circuit != nil:
		c := o.Circuit
		f["valid"] = c.IsValid
		f["errors"] = len(c.Errors)
		f["circuits"] = len(c.CompletedCircuits)
		on := false
		for _, lit := range o.LEDs {
			on = on || lit
		}
		f["led.on"] = on
	}
	return f
}
