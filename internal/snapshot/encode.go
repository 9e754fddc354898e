package snapshot

import "github.com/gyaneshwarpardhi/circuitlab/internal/circuit"

// Encode converts typed nodes back into documents, e.g. after the vehicle
// propagator has written render state onto them.
func Encode(nodes []circuit.Node) []NodeDoc {
	out := make([]NodeDoc, 0, len(nodes))
	for _, n := range nodes {
		nd := NodeDoc{ID: n.ID(), Type: string(n.Kind()), Data: NodeData{Label: n.Label()}}
		d := &nd.Data
		switch v := n.(type) {
		case *circuit.RockerSwitch:
			d.Role = string(v.Role)
			d.IsOn = boolPtr(v.IsOn)
		case *circuit.MomentarySwitch:
			d.IsPressed = boolPtr(v.IsPressed)
		case *circuit.Potentiometer:
			d.Role = string(v.Role)
			d.Value = floatPtr(v.Value)
		case *circuit.Motor:
			d.Role = string(v.Role)
			d.IsRunning = boolPtr(v.IsRunning)
			if v.Role == circuit.RoleDrive {
				d.Speed = floatPtr(v.Speed)
			} else {
				d.Position = string(v.Position)
			}
			d.ClassName = v.ClassName
		case *circuit.Microcontroller:
			d.IsActive = boolPtr(v.IsActive)
			d.ThrottleValue = floatPtr(v.ThrottleValue)
			d.SteeringValue = floatPtr(v.SteeringValue)
			d.BrakeActive = boolPtr(v.BrakeActive)
			d.FuelLevel = floatPtr(v.FuelLevel)
			d.DirectionForward = boolPtr(v.DirectionForward)
		case *circuit.FuelGauge:
			d.FuelLevel = floatPtr(v.FuelLevel)
		}
		out = append(out, nd)
	}
	return out
}

// EncodeGraph converts a whole graph back into a document.
func EncodeGraph(g *circuit.Graph) *Document {
	doc := &Document{Nodes: Encode(g.Nodes())}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, EdgeDoc{
			ID:           e.ID,
			Source:       e.Source,
			Target:       e.Target,
			SourceHandle: string(e.SourceHandle),
			TargetHandle: string(e.TargetHandle),
		})
	}
	return doc
}

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }
