package snapshot

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gyaneshwarpardhi/circuitlab/internal/circuit"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterStructValidation(nodeRules, NodeDoc{})
}

// nodeRules checks a non-empty role against the node's kind.
func nodeRules(sl validator.StructLevel) {
	n := sl.Current().Interface().(NodeDoc)
	if n.Data.Role == "" {
		return
	}
	roles := circuit.Roles(circuit.Kind(n.Type))
	if roles == nil {
		sl.ReportError(n.Data.Role, "Role", "role", "norole", n.Type)
		return
	}
	for _, r := range roles {
		if circuit.Role(n.Data.Role) == r {
			return
		}
	}
	sl.ReportError(n.Data.Role, "Role", "role", "role", n.Type)
}

// Build checks a document at the boundary and converts it into a graph.
// Struct-level problems are reported together; referential problems (dangling
// edges, duplicate ids) come from circuit.NewGraph.
func Build(doc *Document) (*circuit.Graph, error) {
	if doc == nil {
		return nil, errors.New("snapshot: nil document")
	}
	if err := validate.Struct(doc); err != nil {
		return nil, formatValidationError(err)
	}

	nodes := make([]circuit.Node, 0, len(doc.Nodes))
	for _, nd := range doc.Nodes {
		nodes = append(nodes, decodeNode(nd))
	}
	edges := make([]circuit.Edge, 0, len(doc.Edges))
	for _, ed := range doc.Edges {
		edges = append(edges, circuit.Edge{
			ID:           ed.ID,
			Source:       ed.Source,
			Target:       ed.Target,
			SourceHandle: circuit.Handle(ed.SourceHandle),
			TargetHandle: circuit.Handle(ed.TargetHandle),
		})
	}

	g, err := circuit.NewGraph(nodes, edges)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return g, nil
}

// decodeNode starts from the variant's default constructor and applies
// whichever attributes the document sets. Readings are clamped to 0–100.
func decodeNode(nd NodeDoc) circuit.Node {
	d := nd.Data
	var n circuit.Node
	switch circuit.Kind(nd.Type) {
	case circuit.KindBattery:
		n = circuit.NewBattery(nd.ID)
	case circuit.KindLED:
		n = circuit.NewLED(nd.ID)
	case circuit.KindWire:
		n = circuit.NewWire(nd.ID)
	case circuit.KindRockerSwitch:
		sw := circuit.NewRockerSwitch(nd.ID, circuit.Role(d.Role))
		setBool(&sw.IsOn, d.IsOn)
		n = sw
	case circuit.KindMomentarySwitch:
		sw := circuit.NewMomentarySwitch(nd.ID)
		setBool(&sw.IsPressed, d.IsPressed)
		n = sw
	case circuit.KindPotentiometer:
		p := circuit.NewPotentiometer(nd.ID, circuit.Role(d.Role))
		setReading(&p.Value, d.Value)
		n = p
	case circuit.KindMotor:
		m := circuit.NewMotor(nd.ID, circuit.Role(d.Role))
		setBool(&m.IsRunning, d.IsRunning)
		setFloat(&m.Speed, d.Speed)
		if d.Position != "" {
			m.Position = circuit.Position(d.Position)
		}
		m.ClassName = d.ClassName
		n = m
	case circuit.KindMicrocontroller:
		mc := circuit.NewMicrocontroller(nd.ID)
		setBool(&mc.IsActive, d.IsActive)
		setFloat(&mc.ThrottleValue, d.ThrottleValue)
		setFloat(&mc.SteeringValue, d.SteeringValue)
		setBool(&mc.BrakeActive, d.BrakeActive)
		setReading(&mc.FuelLevel, d.FuelLevel)
		setBool(&mc.DirectionForward, d.DirectionForward)
		n = mc
	case circuit.KindFuelGauge:
		f := circuit.NewFuelGauge(nd.ID)
		setReading(&f.FuelLevel, d.FuelLevel)
		n = f
	}
	if l, ok := n.(interface{ SetLabel(string) }); ok {
		l.SetLabel(d.Label)
	}
	return n
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// Non-finite numbers cannot be encoded or compared, so they leave the
// default in place.
func setFloat(dst *float64, src *float64) {
	if src != nil && finite(*src) {
		*dst = *src
	}
}

func setReading(dst *float64, src *float64) {
	if src == nil || !finite(*src) {
		return
	}
	v := *src
	switch {
	case v < 0:
		v = 0
	case v > 100:
		v = 100
	}
	*dst = v
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// formatValidationError flattens validator errors into one readable error.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := e.Namespace()
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s: field is required", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: %q is not one of [%s]", field, e.Value(), e.Param()))
		case "role":
			msgs = append(msgs, fmt.Sprintf("%s: %q is not a valid role for %s", field, e.Value(), e.Param()))
		case "norole":
			msgs = append(msgs, fmt.Sprintf("%s: %s takes no role", field, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: validation failed (%s)", field, e.Tag()))
		}
	}
	return fmt.Errorf("snapshot validation errors:\n  - %s", strings.Join(msgs, "\n  - "))
}
