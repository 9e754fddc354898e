package validate

import "github.com/gyaneshwarpardhi/circuitlab/internal/circuit"

const (
	ErrNoBattery         = "Circuit requires at least one battery"
	ErrNoCompleteCircuit = "No complete circuit found"
	ErrNoLED             = "Circuit does not contain an LED"
	ErrNoSwitch          = "Circuit does not contain a switch"
)

// Circuit applies the LED rule set: a battery, a closed loop back to it, and
// at least one LED and one rocker switch somewhere in the discovered loops.
func Circuit(g *circuit.Graph) CircuitResult {
	var errs errorList
	res := CircuitResult{Errors: []string{}, CompletedCircuits: []circuit.Path{}}

	batteries := circuit.NodesOf[*circuit.Battery](g)
	if len(batteries) == 0 {
		errs.add(ErrNoBattery)
		res.Errors = errs
		return res
	}

	for _, b := range batteries {
		if loop, ok := circuit.FindPath(g, b.ID(), b.ID(), circuit.AnyEdge); ok {
			res.CompletedCircuits = append(res.CompletedCircuits, loop)
		}
	}

	hasLED := anyContains(g, res.CompletedCircuits, func(n circuit.Node) bool {
		return n.Kind() == circuit.KindLED
	})
	hasSwitch := anyContains(g, res.CompletedCircuits, func(n circuit.Node) bool {
		return n.Kind() == circuit.KindRockerSwitch
	})

	switch {
	case len(res.CompletedCircuits) == 0:
		errs.add(ErrNoCompleteCircuit)
	case !hasLED:
		errs.add(ErrNoLED)
	}
	if len(res.CompletedCircuits) > 0 && !hasSwitch {
		errs.add(ErrNoSwitch)
	}

	if errs != nil {
		res.Errors = errs
	}
	res.IsValid = len(res.CompletedCircuits) > 0 && hasLED && hasSwitch && len(res.Errors) == 0
	return res
}

// IsLEDOn reports whether the LED in one completed circuit is lit: every
// rocker switch on that circuit must be on. A circuit with no switch at all
// has nothing to break it, so it is always lit.
func IsLEDOn(g *circuit.Graph, completed circuit.Path) bool {
	for _, id := range completed {
		if sw, ok := g.Node(id).(*circuit.RockerSwitch); ok && !sw.IsOn {
			return false
		}
	}
	return true
}
